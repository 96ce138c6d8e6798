package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind discriminates access tokens from refresh tokens. The kind is
// embedded in the signed payload so one can never be replayed as the other.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Identity is what a verified token proves: which user, acting under which
// role.
type Identity struct {
	UserUUID uuid.UUID `json:"user"`
	RoleUUID uuid.UUID `json:"role"`
}

// TokenPair is the result of login and refresh.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
