package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// RBACRepository persists roles, permissions, endpoints and the
// role↔permission join table. Reads are visibility-filtered: soft-deleted
// rows neither resolve nor contribute grants.
type RBACRepository interface {
	FindRoleByUUID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	SoftDeleteRole(ctx context.Context, id uuid.UUID) error

	// GrantsForRole returns the effective permission set of a role as
	// (action, route) pairs: visible join rows joined to visible permissions
	// joined to visible endpoints. A role with no grants yields an empty
	// slice and nil error.
	GrantsForRole(ctx context.Context, roleID int64) ([]domain.Grant, error)

	CreateEndpoint(ctx context.Context, route string) (*domain.Endpoint, error)
	ListEndpoints(ctx context.Context) ([]*domain.Endpoint, error)
	SoftDeleteEndpoint(ctx context.Context, id uuid.UUID) error

	CreatePermission(ctx context.Context, action string, endpointUUID uuid.UUID) (*domain.Permission, error)
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	SoftDeletePermission(ctx context.Context, id uuid.UUID) error

	AttachPermission(ctx context.Context, roleUUID, permissionUUID uuid.UUID) (*domain.RoleHasPermission, error)
	DetachPermission(ctx context.Context, roleUUID, permissionUUID uuid.UUID) error
}

// PermissionResolver maps a role reference to its effective permission set.
// A role with zero grants resolves to an empty set, not an error; only a
// missing (or soft-deleted) role yields domain.ErrRoleNotFound.
type PermissionResolver interface {
	Resolve(ctx context.Context, ref domain.RoleRef) (domain.PermissionSet, error)
}

// PermissionCache is an optional read-through cache in front of the
// resolver's repository, keyed by role UUID. Implementations are
// best-effort: errors are reported but never block resolution.
type PermissionCache interface {
	Get(ctx context.Context, roleUUID uuid.UUID) (domain.PermissionSet, bool, error)
	Set(ctx context.Context, roleUUID uuid.UUID, set domain.PermissionSet) error
	Invalidate(ctx context.Context, roleUUID uuid.UUID) error
}

// RBACService exposes admin CRUD over the RBAC schema and keeps the
// permission cache coherent with grant changes.
type RBACService interface {
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	GetRole(ctx context.Context, ref domain.RoleRef) (*domain.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error

	CreateEndpoint(ctx context.Context, route string) (*domain.Endpoint, error)
	ListEndpoints(ctx context.Context) ([]*domain.Endpoint, error)
	DeleteEndpoint(ctx context.Context, id uuid.UUID) error

	CreatePermission(ctx context.Context, action string, endpointUUID uuid.UUID) (*domain.Permission, error)
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	DeletePermission(ctx context.Context, id uuid.UUID) error

	Grant(ctx context.Context, roleUUID, permissionUUID uuid.UUID) (*domain.RoleHasPermission, error)
	Revoke(ctx context.Context, roleUUID, permissionUUID uuid.UUID) error
}
