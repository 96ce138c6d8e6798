package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartStatus is the lifecycle state of a device cart.
type CartStatus string

const (
	CartOpen       CartStatus = "open"
	CartCheckedOut CartStatus = "checked_out"
)

// Cart is a named collection of devices signed out by a user. Checkout of an
// already checked-out cart requires the privileged forceOverride path.
type Cart struct {
	ID        int64      `json:"-"`
	UUID      uuid.UUID  `json:"uuid"`
	Name      string     `json:"name"`
	OwnerUUID uuid.UUID  `json:"owner"`
	OwnerID   int64      `json:"-"`
	Status    CartStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `json:"-"`
}
