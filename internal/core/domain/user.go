package domain

import (
	"time"

	"github.com/google/uuid"
)

// User models an account held in the credential store. The numeric ID is
// internal to the database; the UUID is the external identity embedded in
// tokens and URLs.
type User struct {
	ID           int64      `json:"-"`
	UUID         uuid.UUID  `json:"uuid"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	RoleID       int64      `json:"-"`
	RoleUUID     uuid.UUID  `json:"role"`
	RoleName     string     `json:"role_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	DeletedAt    *time.Time `json:"-"`
	DeletedBy    *uuid.UUID `json:"-"`
}

// Visible reports whether the row is currently visible under the soft-delete
// rule: created at or before the instant, and not yet deleted.
func (u *User) Visible(at time.Time) bool {
	return !u.CreatedAt.After(at) && (u.DeletedAt == nil || u.DeletedAt.After(at))
}
