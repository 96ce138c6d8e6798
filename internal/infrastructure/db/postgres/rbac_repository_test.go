package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

func TestRBACRepository_FindRoleByName(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	roleUUID := uuid.New()
	mock.ExpectQuery(`FROM roles r WHERE r\.name = \$1`).
		WithArgs("admin").
		WillReturnRows(pgxmock.NewRows([]string{"id", "uuid", "name", "created_at"}).
			AddRow(int64(1), roleUUID, "admin", time.Now()))

	role, err := repo.FindRoleByName(context.Background(), "admin")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if role.UUID != roleUUID || role.Name != "admin" {
		t.Fatalf("unexpected role: %+v", role)
	}
}

func TestRBACRepository_FindRoleByUUID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`FROM roles r WHERE r\.uuid = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.FindRoleByUUID(context.Background(), id); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRBACRepository_CreateRole_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`INSERT INTO roles`).
		WithArgs(pgxmock.AnyArg(), "admin").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.CreateRole(context.Background(), "admin"); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRBACRepository_GrantsForRole(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`FROM role_has_permissions rhp`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"action", "route"}).
			AddRow("GET", "/devices").
			AddRow("POST", "/devices"))

	grants, err := repo.GrantsForRole(context.Background(), 7)
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if len(grants) != 2 {
		t.Fatalf("expected 2 grants, got %d", len(grants))
	}
	if grants[0] != (domain.Grant{Action: "GET", Route: "/devices"}) {
		t.Fatalf("unexpected first grant: %+v", grants[0])
	}
}

// Zero rows is an empty set, not an error.
func TestRBACRepository_GrantsForRole_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`FROM role_has_permissions rhp`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"action", "route"}))

	grants, err := repo.GrantsForRole(context.Background(), 7)
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if len(grants) != 0 {
		t.Fatalf("expected no grants, got %d", len(grants))
	}
}

// The resolution query filters all three tables by visibility.
func TestRBACRepository_GrantsForRole_VisibilityFilters(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`rhp\.deleted_at IS NULL(.|\n)*p\.deleted_at IS NULL(.|\n)*e\.deleted_at IS NULL`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"action", "route"}))

	if _, err := repo.GrantsForRole(context.Background(), 7); err != nil {
		t.Fatalf("grants: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRBACRepository_AttachPermission(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	roleUUID := uuid.New()
	permUUID := uuid.New()
	mock.ExpectQuery(`INSERT INTO role_has_permissions`).
		WithArgs(pgxmock.AnyArg(), roleUUID, permUUID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "role_id", "permission_id", "created_at"}).
			AddRow(int64(10), int64(1), int64(2), time.Now()))

	grant, err := repo.AttachPermission(context.Background(), roleUUID, permUUID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if grant.RoleID != 1 || grant.PermissionID != 2 {
		t.Fatalf("unexpected grant: %+v", grant)
	}
}

func TestRBACRepository_AttachPermission_DuplicateGrant(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`INSERT INTO role_has_permissions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.AttachPermission(context.Background(), uuid.New(), uuid.New()); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRBACRepository_AttachPermission_MissingRoleOrPermission(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectQuery(`INSERT INTO role_has_permissions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.AttachPermission(context.Background(), uuid.New(), uuid.New()); err != domain.ErrRoleNotFound {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRBACRepository_DetachPermission(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	roleUUID := uuid.New()
	permUUID := uuid.New()
	mock.ExpectExec(`UPDATE role_has_permissions rhp SET deleted_at = now\(\)`).
		WithArgs(roleUUID, permUUID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.DetachPermission(context.Background(), roleUUID, permUUID); err != nil {
		t.Fatalf("detach: %v", err)
	}
}

func TestRBACRepository_DetachPermission_NoActiveGrant(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	mock.ExpectExec(`UPDATE role_has_permissions rhp SET deleted_at = now\(\)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.DetachPermission(context.Background(), uuid.New(), uuid.New()); err != domain.ErrPermissionNotFound {
		t.Fatalf("expected ErrPermissionNotFound, got %v", err)
	}
}

func TestRBACRepository_SoftDeleteRole(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE roles r SET deleted_at = now\(\)`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SoftDeleteRole(context.Background(), id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
}

func TestRBACRepository_CreatePermission_UnknownEndpoint(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()
	repo := NewRBACRepository(db)

	endpoint := uuid.New()
	mock.ExpectQuery(`INSERT INTO permissions`).
		WithArgs(pgxmock.AnyArg(), "GET", endpoint).
		WillReturnError(pgx.ErrNoRows)

	if _, err := repo.CreatePermission(context.Background(), "GET", endpoint); err != domain.ErrEndpointNotFound {
		t.Fatalf("expected ErrEndpointNotFound, got %v", err)
	}
}
