package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// TokenCodec signs and verifies the stateless HS256 token pair. The secret
// and TTLs are injected once at construction; nothing here reads the
// environment.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec builds a codec. TTLs falling at or below zero get
// conservative defaults.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// tokenClaims is the signed payload: subject carries the user UUID, role the
// role UUID, kind the access/refresh discriminator.
type tokenClaims struct {
	Role string `json:"role"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// Issue signs a token of the given kind and returns it with its expiry.
func (c *TokenCodec) Issue(identity domain.Identity, kind domain.TokenKind) (string, time.Time, error) {
	ttl := c.accessTTL
	if kind == domain.TokenRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := tokenClaims{
		Role: identity.RoleUUID.String(),
		Kind: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserUUID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssuePair issues a fresh access+refresh pair bound to the identity.
func (c *TokenCodec) IssuePair(identity domain.Identity) (domain.TokenPair, error) {
	access, accessExp, err := c.Issue(identity, domain.TokenAccess)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshExp, err := c.Issue(identity, domain.TokenRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify checks signature and expiry, then the kind discriminator. Structural
// failures yield domain.ErrInvalidToken; a valid token of the wrong kind
// yields domain.ErrTokenKind; the two map to different HTTP statuses.
func (c *TokenCodec) Verify(token string, want domain.TokenKind) (domain.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	userUUID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	roleUUID, err := uuid.Parse(claims.Role)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if claims.Kind != string(want) {
		return domain.Identity{}, domain.ErrTokenKind
	}

	return domain.Identity{UserUUID: userUUID, RoleUUID: roleUUID}, nil
}
