package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// UserService is the admin read/delete surface over accounts.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.FindByUUID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id, deletedBy); err != nil {
		return err
	}
	s.logger.Info().Str("user", id.String()).Str("deleted_by", deletedBy.String()).Msg("user soft-deleted")
	return nil
}
