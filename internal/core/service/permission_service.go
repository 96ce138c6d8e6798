package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// PermissionService resolves a role reference to its effective permission
// set: visible join rows joined to visible permissions joined to visible
// endpoints. A role with zero grants resolves to an empty set; authorization
// against an empty set always denies, so emptiness is the fail-closed
// default, not an error.
type PermissionService struct {
	repo   ports.RBACRepository
	cache  ports.PermissionCache
	logger zerolog.Logger
}

// NewPermissionService builds a resolver. cache may be nil, in which case
// every resolution hits the repository.
func NewPermissionService(repo ports.RBACRepository, cache ports.PermissionCache, logger zerolog.Logger) *PermissionService {
	return &PermissionService{repo: repo, cache: cache, logger: logger}
}

// Resolve maps a role reference to its permission set. Only a role that does
// not exist (or is soft-deleted) yields domain.ErrRoleNotFound. Cache
// failures fall through to the repository; they never decide authorization.
func (s *PermissionService) Resolve(ctx context.Context, ref domain.RoleRef) (domain.PermissionSet, error) {
	role, err := s.findRole(ctx, ref)
	if err != nil {
		return domain.PermissionSet{}, err
	}

	if s.cache != nil {
		set, hit, cerr := s.cache.Get(ctx, role.UUID)
		if cerr != nil {
			s.logger.Warn().Err(cerr).Str("role", role.UUID.String()).Msg("permission cache read failed")
		} else if hit {
			return set, nil
		}
	}

	grants, err := s.repo.GrantsForRole(ctx, role.ID)
	if err != nil {
		return domain.PermissionSet{}, err
	}
	set := domain.NewPermissionSet(grants)

	// Empty sets are not cached: they are cheap to recompute and a freshly
	// granted permission should take effect without waiting out the TTL.
	if s.cache != nil && set.Len() > 0 {
		if cerr := s.cache.Set(ctx, role.UUID, set); cerr != nil {
			s.logger.Warn().Err(cerr).Str("role", role.UUID.String()).Msg("permission cache write failed")
		}
	}

	return set, nil
}

func (s *PermissionService) findRole(ctx context.Context, ref domain.RoleRef) (*domain.Role, error) {
	if name, ok := ref.ByName(); ok {
		return s.repo.FindRoleByName(ctx, name)
	}
	id, _ := ref.UUID()
	return s.repo.FindRoleByUUID(ctx, id)
}
