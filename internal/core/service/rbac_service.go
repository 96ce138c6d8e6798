package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// RBACService is the admin surface over roles, permissions, endpoints and
// grants. Grant and revoke invalidate the role's cached permission set so
// changes take effect on the next request rather than after the cache TTL.
type RBACService struct {
	repo   ports.RBACRepository
	cache  ports.PermissionCache
	logger zerolog.Logger
}

func NewRBACService(repo ports.RBACRepository, cache ports.PermissionCache, logger zerolog.Logger) *RBACService {
	return &RBACService{repo: repo, cache: cache, logger: logger}
}

func (s *RBACService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	return s.repo.CreateRole(ctx, name)
}

func (s *RBACService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *RBACService) GetRole(ctx context.Context, ref domain.RoleRef) (*domain.Role, error) {
	if name, ok := ref.ByName(); ok {
		return s.repo.FindRoleByName(ctx, name)
	}
	id, _ := ref.UUID()
	return s.repo.FindRoleByUUID(ctx, id)
}

func (s *RBACService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDeleteRole(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *RBACService) CreateEndpoint(ctx context.Context, route string) (*domain.Endpoint, error) {
	return s.repo.CreateEndpoint(ctx, route)
}

func (s *RBACService) ListEndpoints(ctx context.Context) ([]*domain.Endpoint, error) {
	return s.repo.ListEndpoints(ctx)
}

func (s *RBACService) DeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDeleteEndpoint(ctx, id)
}

func (s *RBACService) CreatePermission(ctx context.Context, action string, endpointUUID uuid.UUID) (*domain.Permission, error) {
	return s.repo.CreatePermission(ctx, action, endpointUUID)
}

func (s *RBACService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

func (s *RBACService) DeletePermission(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDeletePermission(ctx, id)
}

func (s *RBACService) Grant(ctx context.Context, roleUUID, permissionUUID uuid.UUID) (*domain.RoleHasPermission, error) {
	grant, err := s.repo.AttachPermission(ctx, roleUUID, permissionUUID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, roleUUID)
	s.logger.Info().
		Str("role", roleUUID.String()).
		Str("permission", permissionUUID.String()).
		Msg("permission granted")
	return grant, nil
}

func (s *RBACService) Revoke(ctx context.Context, roleUUID, permissionUUID uuid.UUID) error {
	if err := s.repo.DetachPermission(ctx, roleUUID, permissionUUID); err != nil {
		return err
	}
	s.invalidate(ctx, roleUUID)
	s.logger.Info().
		Str("role", roleUUID.String()).
		Str("permission", permissionUUID.String()).
		Msg("permission revoked")
	return nil
}

func (s *RBACService) invalidate(ctx context.Context, roleUUID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, roleUUID); err != nil {
		s.logger.Warn().Err(err).Str("role", roleUUID.String()).Msg("permission cache invalidation failed")
	}
}
