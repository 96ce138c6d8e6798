package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// AuthService implements login, token refresh and registration.
type AuthService struct {
	users  ports.UserRepository
	codec  ports.TokenCodec
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, codec ports.TokenCodec, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, logger: logger}
}

// Login verifies credentials and issues a token pair. Unknown username and
// wrong password are indistinguishable to the caller: both return
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.codec.IssuePair(domain.Identity{UserUUID: user.UUID, RoleUUID: user.RoleUUID})
	if err != nil {
		return domain.TokenPair{}, nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.RoleName).Msg("login succeeded")
	return pair, user, nil
}

// Refresh rotates a token pair. The presented token must verify as the
// refresh kind, and the account is re-fetched so a soft-deleted user cannot
// keep minting access tokens; the role claim is re-read from the store
// rather than trusted from the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	identity, err := s.codec.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.users.FindByUUID(ctx, identity.UserUUID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidToken
		}
		return domain.TokenPair{}, err
	}

	return s.codec.IssuePair(domain.Identity{UserUUID: user.UUID, RoleUUID: user.RoleUUID})
}

// Register creates an account with a bcrypt-hashed password. A duplicate
// username among visible rows surfaces as domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		RoleUUID:     input.RoleUUID,
		CreatedBy:    input.CreatedBy,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}
