package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// DeviceRepository persists device rows with visibility-filtered reads.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) (*domain.Device, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	List(ctx context.Context) ([]*domain.Device, error)
	Update(ctx context.Context, device *domain.Device) (*domain.Device, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// CreateDeviceInput carries validated fields for device creation.
type CreateDeviceInput struct {
	Name         string
	SerialNumber string
	CreatedBy    *uuid.UUID
}

// UpdateDeviceInput carries the mutable device fields. Nil means unchanged.
type UpdateDeviceInput struct {
	Name   *string
	Status *domain.DeviceStatus
}

// DeviceService implements device CRUD on top of the repository.
type DeviceService interface {
	Create(ctx context.Context, input CreateDeviceInput) (*domain.Device, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	List(ctx context.Context) ([]*domain.Device, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDeviceInput) (*domain.Device, error)
	Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}
