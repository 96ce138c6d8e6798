package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

type DeviceHandler struct {
	devices ports.DeviceService
}

func NewDeviceHandler(devices ports.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

type createDeviceRequest struct {
	Name         string `json:"name" validate:"required"`
	SerialNumber string `json:"serial_number"`
}

type updateDeviceRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status" validate:"omitempty,oneof=active retired in_repair"`
}

// Create registers a new device.
//
// @Summary      Create a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        body  body      createDeviceRequest  true  "Device details"
// @Success      201   {object}  domain.Device
// @Failure      400   {object}  map[string]string
// @Router       /devices [post]
func (h *DeviceHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	device, err := h.devices.Create(c.Request().Context(), ports.CreateDeviceInput{
		Name:         req.Name,
		SerialNumber: req.SerialNumber,
		CreatedBy:    &identity.UserUUID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, device)
}

// List returns all visible devices.
//
// @Summary      List devices
// @Tags         devices
// @Produce      json
// @Success      200  {array}  domain.Device
// @Router       /devices [get]
func (h *DeviceHandler) List(c echo.Context) error {
	devices, err := h.devices.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, devices)
}

// Get returns one device by UUID.
//
// @Summary      Get a device
// @Tags         devices
// @Produce      json
// @Param        uuid  path      string  true  "Device UUID"
// @Success      200   {object}  domain.Device
// @Failure      404   {object}  map[string]string
// @Router       /devices/{uuid} [get]
func (h *DeviceHandler) Get(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	device, err := h.devices.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, device)
}

// Update mutates name and/or status of a device.
//
// @Summary      Update a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        uuid  path      string               true  "Device UUID"
// @Param        body  body      updateDeviceRequest  true  "Fields to update"
// @Success      200   {object}  domain.Device
// @Failure      404   {object}  map[string]string
// @Router       /devices/{uuid} [put]
func (h *DeviceHandler) Update(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}

	var req updateDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateDeviceInput{Name: req.Name}
	if req.Status != nil {
		status := domain.DeviceStatus(*req.Status)
		input.Status = &status
	}

	device, err := h.devices.Update(c.Request().Context(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, device)
}

// Delete soft-deletes a device.
//
// @Summary      Delete a device
// @Tags         devices
// @Param        uuid  path  string  true  "Device UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /devices/{uuid} [delete]
func (h *DeviceHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.devices.Delete(c.Request().Context(), id, identity.UserUUID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
