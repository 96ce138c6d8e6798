package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// DeviceService is plain CRUD over the device repository. All authorization
// happens upstream in the gate middleware.
type DeviceService struct {
	repo   ports.DeviceRepository
	logger zerolog.Logger
}

func NewDeviceService(repo ports.DeviceRepository, logger zerolog.Logger) *DeviceService {
	return &DeviceService{repo: repo, logger: logger}
}

func (s *DeviceService) Create(ctx context.Context, input ports.CreateDeviceInput) (*domain.Device, error) {
	device := &domain.Device{
		Name:         input.Name,
		SerialNumber: input.SerialNumber,
		Status:       domain.DeviceActive,
		CreatedBy:    input.CreatedBy,
	}
	created, err := s.repo.Create(ctx, device)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("device", created.UUID.String()).Str("name", created.Name).Msg("device created")
	return created, nil
}

func (s *DeviceService) Get(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return s.repo.FindByUUID(ctx, id)
}

func (s *DeviceService) List(ctx context.Context) ([]*domain.Device, error) {
	return s.repo.List(ctx)
}

func (s *DeviceService) Update(ctx context.Context, id uuid.UUID, input ports.UpdateDeviceInput) (*domain.Device, error) {
	device, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		device.Name = *input.Name
	}
	if input.Status != nil {
		device.Status = *input.Status
	}
	return s.repo.Update(ctx, device)
}

func (s *DeviceService) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id, deletedBy)
}
