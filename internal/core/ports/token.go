package ports

import (
	"time"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// TokenCodec signs and verifies the stateless access/refresh tokens.
type TokenCodec interface {
	// Issue signs a token of the given kind for the identity and returns it
	// together with its expiry.
	Issue(identity domain.Identity, kind domain.TokenKind) (string, time.Time, error)

	// IssuePair issues a fresh access+refresh pair for the identity.
	IssuePair(identity domain.Identity) (domain.TokenPair, error)

	// Verify checks signature, expiry and kind. It returns
	// domain.ErrInvalidToken for structural failures and domain.ErrTokenKind
	// when the embedded kind does not match want.
	Verify(token string, want domain.TokenKind) (domain.Identity, error)
}
