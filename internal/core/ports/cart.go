package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// CartRepository persists cart rows with visibility-filtered reads.
type CartRepository interface {
	Create(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	List(ctx context.Context) ([]*domain.Cart, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CartStatus) (*domain.Cart, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// CheckoutInput controls the cart checkout operation. ForceOverride is the
// privileged field: setting it requires full authorization on the checkout
// route, while a default checkout runs unauthenticated.
type CheckoutInput struct {
	ForceOverride bool
}

// CartService implements cart CRUD and the checkout flow.
type CartService interface {
	Create(ctx context.Context, name string, owner uuid.UUID) (*domain.Cart, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error)
	List(ctx context.Context) ([]*domain.Cart, error)
	Checkout(ctx context.Context, id uuid.UUID, input CheckoutInput) (*domain.Cart, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}
