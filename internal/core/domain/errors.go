package domain

import "errors"

// Sentinel errors shared across layers. The API error handler maps each of
// these to a fixed HTTP status; anything else becomes a 500.
var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// Login must not reveal which of the two occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means the bearer token is missing, malformed, expired
	// or carries a bad signature. Always a 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenKind means a structurally valid token was presented in the
	// wrong context (refresh token on a protected route, access token on
	// /refresh). A 403, distinct from ErrInvalidToken.
	ErrTokenKind = errors.New("wrong token kind")

	// ErrAccessDenied means the caller is authenticated but the resolved
	// permission set does not grant the requested (method, endpoint).
	ErrAccessDenied = errors.New("access denied")

	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")

	ErrDeviceNotFound     = errors.New("device not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrEndpointNotFound   = errors.New("endpoint not found")

	// ErrConflict covers uniqueness violations other than usernames.
	ErrConflict = errors.New("resource conflict")

	// ErrCartClosed signals a checkout attempt on an already checked-out
	// cart without the override field.
	ErrCartClosed = errors.New("cart already checked out")
)
