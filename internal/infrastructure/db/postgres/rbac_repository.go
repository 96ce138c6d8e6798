package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// RBACRepository implements ports.RBACRepository against Postgres. The join
// table is indexed by role_id so permission resolution is a single indexed
// three-way join.
type RBACRepository struct{ db *DB }

func NewRBACRepository(db *DB) *RBACRepository { return &RBACRepository{db: db} }

// visible builds the temporal visibility predicate for a table alias.
func visible(alias string) string {
	return alias + `.created_at <= now() AND (` + alias + `.deleted_at IS NULL OR ` + alias + `.deleted_at > now())`
}

// ── Roles ────────────────────────────────────────────────────────────────────

func (r *RBACRepository) FindRoleByUUID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	q := `SELECT id, uuid, name, created_at FROM roles r WHERE r.uuid = $1 AND ` + visible("r")
	return r.scanRole(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *RBACRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	q := `SELECT id, uuid, name, created_at FROM roles r WHERE r.name = $1 AND ` + visible("r")
	return r.scanRole(r.db.Pool.QueryRow(ctx, q, name))
}

func (r *RBACRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	q := `SELECT id, uuid, name, created_at FROM roles r WHERE ` + visible("r") + ` ORDER BY r.created_at`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role, err := r.scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RBACRepository) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	const q = `INSERT INTO roles (uuid, name) VALUES ($1, $2) RETURNING id, uuid, name, created_at`
	role, err := r.scanRole(r.db.Pool.QueryRow(ctx, q, uuid.New(), name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return role, nil
}

func (r *RBACRepository) SoftDeleteRole(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE roles r SET deleted_at = now() WHERE r.uuid = $1 AND ` + visible("r")
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("soft-delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// GrantsForRole returns the role's effective permission set. All three
// participating tables are visibility-filtered, so a soft-deleted join row,
// permission or endpoint stops authorizing immediately.
func (r *RBACRepository) GrantsForRole(ctx context.Context, roleID int64) ([]domain.Grant, error) {
	q := `
SELECT p.action, e.route
FROM role_has_permissions rhp
JOIN permissions p ON p.id = rhp.permission_id
JOIN endpoints e ON e.id = p.endpoint_id
WHERE rhp.role_id = $1
  AND ` + visible("rhp") + `
  AND ` + visible("p") + `
  AND ` + visible("e") + `
ORDER BY rhp.id`

	rows, err := r.db.Pool.Query(ctx, q, roleID)
	if err != nil {
		return nil, fmt.Errorf("grants for role: %w", err)
	}
	defer rows.Close()

	var grants []domain.Grant
	for rows.Next() {
		var g domain.Grant
		if err := rows.Scan(&g.Action, &g.Route); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ── Endpoints ────────────────────────────────────────────────────────────────

func (r *RBACRepository) CreateEndpoint(ctx context.Context, route string) (*domain.Endpoint, error) {
	const q = `INSERT INTO endpoints (uuid, route) VALUES ($1, $2) RETURNING id, uuid, route, created_at`
	var e domain.Endpoint
	err := r.db.Pool.QueryRow(ctx, q, uuid.New(), route).Scan(&e.ID, &e.UUID, &e.Route, &e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert endpoint: %w", err)
	}
	return &e, nil
}

func (r *RBACRepository) ListEndpoints(ctx context.Context) ([]*domain.Endpoint, error) {
	q := `SELECT id, uuid, route, created_at FROM endpoints e WHERE ` + visible("e") + ` ORDER BY e.route`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []*domain.Endpoint
	for rows.Next() {
		var e domain.Endpoint
		if err := rows.Scan(&e.ID, &e.UUID, &e.Route, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan endpoint: %w", err)
		}
		endpoints = append(endpoints, &e)
	}
	return endpoints, rows.Err()
}

func (r *RBACRepository) SoftDeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE endpoints e SET deleted_at = now() WHERE e.uuid = $1 AND ` + visible("e")
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("soft-delete endpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEndpointNotFound
	}
	return nil
}

// ── Permissions ──────────────────────────────────────────────────────────────

func (r *RBACRepository) CreatePermission(ctx context.Context, action string, endpointUUID uuid.UUID) (*domain.Permission, error) {
	const q = `
INSERT INTO permissions (uuid, action, endpoint_id)
SELECT $1, $2, e.id FROM endpoints e
WHERE e.uuid = $3 AND e.created_at <= now() AND (e.deleted_at IS NULL OR e.deleted_at > now())
RETURNING id, created_at, endpoint_id`

	p := domain.Permission{UUID: uuid.New(), Action: action, EndpointUUID: endpointUUID}
	err := r.db.Pool.QueryRow(ctx, q, p.UUID, action, endpointUUID).Scan(&p.ID, &p.CreatedAt, &p.EndpointID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEndpointNotFound
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return &p, nil
}

func (r *RBACRepository) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	q := `
SELECT p.id, p.uuid, p.action, p.endpoint_id, e.uuid, e.route, p.created_at
FROM permissions p
JOIN endpoints e ON e.id = p.endpoint_id
WHERE ` + visible("p") + ` AND ` + visible("e") + `
ORDER BY e.route, p.action`

	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var perms []*domain.Permission
	for rows.Next() {
		var p domain.Permission
		if err := rows.Scan(&p.ID, &p.UUID, &p.Action, &p.EndpointID, &p.EndpointUUID, &p.EndpointRoute, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}

func (r *RBACRepository) SoftDeletePermission(ctx context.Context, id uuid.UUID) error {
	q := `UPDATE permissions p SET deleted_at = now() WHERE p.uuid = $1 AND ` + visible("p")
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("soft-delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

// ── Grants ───────────────────────────────────────────────────────────────────

// AttachPermission inserts a join row for visible role and permission rows.
// A duplicate active grant surfaces as domain.ErrConflict.
func (r *RBACRepository) AttachPermission(ctx context.Context, roleUUID, permissionUUID uuid.UUID) (*domain.RoleHasPermission, error) {
	q := `
INSERT INTO role_has_permissions (uuid, role_id, permission_id)
SELECT $1, r.id, p.id
FROM roles r, permissions p
WHERE r.uuid = $2 AND ` + visible("r") + `
  AND p.uuid = $3 AND ` + visible("p") + `
RETURNING id, role_id, permission_id, created_at`

	grant := domain.RoleHasPermission{UUID: uuid.New()}
	err := r.db.Pool.QueryRow(ctx, q, grant.UUID, roleUUID, permissionUUID).
		Scan(&grant.ID, &grant.RoleID, &grant.PermissionID, &grant.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("attach permission: %w", err)
	}
	return &grant, nil
}

// DetachPermission soft-deletes the active join row between a role and a
// permission.
func (r *RBACRepository) DetachPermission(ctx context.Context, roleUUID, permissionUUID uuid.UUID) error {
	q := `
UPDATE role_has_permissions rhp SET deleted_at = now()
FROM roles r, permissions p
WHERE rhp.role_id = r.id AND rhp.permission_id = p.id
  AND r.uuid = $1 AND p.uuid = $2
  AND ` + visible("rhp")

	tag, err := r.db.Pool.Exec(ctx, q, roleUUID, permissionUUID)
	if err != nil {
		return fmt.Errorf("detach permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *RBACRepository) scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.UUID, &role.Name, &role.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return &role, nil
}
