package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// CartRepository implements ports.CartRepository against Postgres.
type CartRepository struct{ db *DB }

func NewCartRepository(db *DB) *CartRepository { return &CartRepository{db: db} }

const cartColumns = `
c.id, c.uuid, c.name, u.uuid, c.owner_id, c.status,
c.created_at, c.deleted_at, c.deleted_by`

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (uuid, name, owner_id, status)
SELECT $1, $2, u.id, $3
FROM users u
WHERE u.uuid = $4 AND u.created_at <= now() AND (u.deleted_at IS NULL OR u.deleted_at > now())
RETURNING id, owner_id, created_at`

	if cart.UUID == uuid.Nil {
		cart.UUID = uuid.New()
	}
	err := r.db.Pool.QueryRow(ctx, q, cart.UUID, cart.Name, cart.Status, cart.OwnerUUID).
		Scan(&cart.ID, &cart.OwnerID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	return cart, nil
}

func (r *CartRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts c
JOIN users u ON u.id = c.owner_id
WHERE c.uuid = $1 AND ` + visible("c")
	return r.scanCart(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *CartRepository) List(ctx context.Context) ([]*domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts c
JOIN users u ON u.id = c.owner_id
WHERE ` + visible("c") + `
ORDER BY c.created_at`

	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	defer rows.Close()

	var carts []*domain.Cart
	for rows.Next() {
		c, err := r.scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

func (r *CartRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CartStatus) (*domain.Cart, error) {
	q := `
UPDATE carts c SET status = $2
WHERE c.uuid = $1 AND ` + visible("c")

	tag, err := r.db.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return nil, fmt.Errorf("update cart status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrCartNotFound
	}
	return r.FindByUUID(ctx, id)
}

func (r *CartRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	q := `
UPDATE carts c SET deleted_at = now(), deleted_by = $2
WHERE c.uuid = $1 AND ` + visible("c")

	tag, err := r.db.Pool.Exec(ctx, q, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft-delete cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

func (r *CartRepository) scanCart(row pgx.Row) (*domain.Cart, error) {
	var c domain.Cart
	err := row.Scan(
		&c.ID, &c.UUID, &c.Name, &c.OwnerUUID, &c.OwnerID, &c.Status,
		&c.CreatedAt, &c.DeletedAt, &c.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("scan cart: %w", err)
	}
	return &c, nil
}
