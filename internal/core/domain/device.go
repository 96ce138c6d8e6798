package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeviceStatus is the lifecycle state of a tracked device.
type DeviceStatus string

const (
	DeviceActive  DeviceStatus = "active"
	DeviceRetired DeviceStatus = "retired"
	DeviceRepair  DeviceStatus = "in_repair"
)

// Device is a physical asset tracked by the inventory.
type Device struct {
	ID           int64        `json:"-"`
	UUID         uuid.UUID    `json:"uuid"`
	Name         string       `json:"name"`
	SerialNumber string       `json:"serial_number,omitempty"`
	Status       DeviceStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	CreatedBy    *uuid.UUID   `json:"created_by,omitempty"`
	DeletedAt    *time.Time   `json:"-"`
	DeletedBy    *uuid.UUID   `json:"-"`
}
