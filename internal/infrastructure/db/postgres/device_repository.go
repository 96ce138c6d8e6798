package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// DeviceRepository implements ports.DeviceRepository against Postgres.
type DeviceRepository struct{ db *DB }

func NewDeviceRepository(db *DB) *DeviceRepository { return &DeviceRepository{db: db} }

const deviceColumns = `
d.id, d.uuid, d.name, COALESCE(d.serial_number, ''), d.status,
d.created_at, d.created_by, d.deleted_at, d.deleted_by`

func (r *DeviceRepository) Create(ctx context.Context, device *domain.Device) (*domain.Device, error) {
	const q = `
INSERT INTO devices (uuid, name, serial_number, status, created_by)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
RETURNING id, created_at`

	if device.UUID == uuid.Nil {
		device.UUID = uuid.New()
	}
	err := r.db.Pool.QueryRow(ctx, q,
		device.UUID, device.Name, device.SerialNumber, device.Status, device.CreatedBy).
		Scan(&device.ID, &device.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert device: %w", err)
	}
	return device, nil
}

func (r *DeviceRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	q := `SELECT ` + deviceColumns + ` FROM devices d WHERE d.uuid = $1 AND ` + visible("d")
	return r.scanDevice(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *DeviceRepository) List(ctx context.Context) ([]*domain.Device, error) {
	q := `SELECT ` + deviceColumns + ` FROM devices d WHERE ` + visible("d") + ` ORDER BY d.created_at`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var devices []*domain.Device
	for rows.Next() {
		d, err := r.scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *DeviceRepository) Update(ctx context.Context, device *domain.Device) (*domain.Device, error) {
	q := `
UPDATE devices d SET name = $2, status = $3
WHERE d.uuid = $1 AND ` + visible("d")

	tag, err := r.db.Pool.Exec(ctx, q, device.UUID, device.Name, device.Status)
	if err != nil {
		return nil, fmt.Errorf("update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDeviceNotFound
	}
	return device, nil
}

func (r *DeviceRepository) SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	q := `
UPDATE devices d SET deleted_at = now(), deleted_by = $2
WHERE d.uuid = $1 AND ` + visible("d")

	tag, err := r.db.Pool.Exec(ctx, q, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft-delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeviceNotFound
	}
	return nil
}

func (r *DeviceRepository) scanDevice(row pgx.Row) (*domain.Device, error) {
	var d domain.Device
	err := row.Scan(
		&d.ID, &d.UUID, &d.Name, &d.SerialNumber, &d.Status,
		&d.CreatedAt, &d.CreatedBy, &d.DeletedAt, &d.DeletedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("scan device: %w", err)
	}
	return &d, nil
}
