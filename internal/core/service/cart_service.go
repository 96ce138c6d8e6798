package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// CartService implements cart CRUD and the checkout lifecycle. Default
// checkout only moves an open cart to checked_out; re-checking-out a closed
// cart requires ForceOverride, which the conditional gate guards.
type CartService struct {
	repo   ports.CartRepository
	logger zerolog.Logger
}

func NewCartService(repo ports.CartRepository, logger zerolog.Logger) *CartService {
	return &CartService{repo: repo, logger: logger}
}

func (s *CartService) Create(ctx context.Context, name string, owner uuid.UUID) (*domain.Cart, error) {
	cart := &domain.Cart{Name: name, OwnerUUID: owner, Status: domain.CartOpen}
	return s.repo.Create(ctx, cart)
}

func (s *CartService) Get(ctx context.Context, id uuid.UUID) (*domain.Cart, error) {
	return s.repo.FindByUUID(ctx, id)
}

func (s *CartService) List(ctx context.Context) ([]*domain.Cart, error) {
	return s.repo.List(ctx)
}

func (s *CartService) Checkout(ctx context.Context, id uuid.UUID, input ports.CheckoutInput) (*domain.Cart, error) {
	cart, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cart.Status == domain.CartCheckedOut && !input.ForceOverride {
		return nil, domain.ErrCartClosed
	}

	updated, err := s.repo.UpdateStatus(ctx, id, domain.CartCheckedOut)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("cart", id.String()).
		Bool("force_override", input.ForceOverride).
		Msg("cart checked out")
	return updated, nil
}

func (s *CartService) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id, deletedBy)
}
