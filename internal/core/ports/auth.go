package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// UserRepository is the credential-store view of user rows. Every read
// applies the soft-delete visibility filter; a soft-deleted row is reported
// as domain.ErrUserNotFound, never returned.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// RegisterInput carries the fields accepted when creating an account.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	RoleUUID  uuid.UUID
	CreatedBy *uuid.UUID
}

// AuthService implements the authentication flow: login, token refresh and
// account registration.
type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
}

// UserService is the admin read/delete surface over accounts. Creation goes
// through AuthService.Register so the password-hashing path stays single.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}
