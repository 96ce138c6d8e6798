package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository against Postgres.
//
// Role data is joined without a visibility filter: a user whose role was
// soft-deleted still authenticates, and the deleted role then fails closed
// at permission resolution.
type UserRepository struct{ db *DB }

func NewUserRepository(db *DB) *UserRepository { return &UserRepository{db: db} }

const userColumns = `
u.id, u.uuid, u.username, COALESCE(u.email, ''), u.password_hash,
u.role_id, r.uuid, r.name,
u.created_at, u.created_by, u.deleted_at, u.deleted_by`

const userVisible = `
u.created_at <= now() AND (u.deleted_at IS NULL OR u.deleted_at > now())`

// Create inserts a new user row, resolving the role UUID to its internal ID
// among visible roles. A duplicate username among visible rows surfaces as
// domain.ErrUserExists; an unknown role as domain.ErrRoleNotFound.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (uuid, username, email, password_hash, role_id, created_by)
SELECT $1, $2, NULLIF($3, ''), $4, roles.id, $5
FROM roles
WHERE roles.uuid = $6
  AND roles.created_at <= now() AND (roles.deleted_at IS NULL OR roles.deleted_at > now())
RETURNING id, created_at`

	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}

	row := r.db.Pool.QueryRow(ctx, q,
		user.UUID, user.Username, user.Email, user.PasswordHash, user.CreatedBy, user.RoleUUID)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	// Fetch back to pick up the joined role fields.
	return r.FindByUUID(ctx, user.UUID)
}

// FindByUsername selects a visible user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE u.username = $1 AND ` + userVisible

	return r.scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

// FindByUUID selects a visible user by external UUID.
func (r *UserRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE u.uuid = $1 AND ` + userVisible

	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// List returns all visible users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	q := `
SELECT ` + userColumns + `
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE ` + userVisible + `
ORDER BY u.created_at`

	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SoftDelete marks a visible user deleted. An already-deleted or absent user
// reports domain.ErrUserNotFound; the two cases are not distinguished.
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	const q = `
UPDATE users u SET deleted_at = now(), deleted_by = $2
WHERE u.uuid = $1 AND ` + userVisible

	tag, err := r.db.Pool.Exec(ctx, q, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft-delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.UUID, &u.Username, &u.Email, &u.PasswordHash,
		&u.RoleID, &u.RoleUUID, &u.RoleName,
		&u.CreatedAt, &u.CreatedBy, &u.DeletedAt, &u.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
