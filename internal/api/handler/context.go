package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/api/middleware"
	"github.com/fleetstack/inventory-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the authorization gate.
// Presence proves the gate ran and authorized the request; a handler that
// needs the caller but finds no identity rejects with 401 rather than
// guessing.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	user, ok := c.Get(middleware.ContextUserUUID).(uuid.UUID)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	role, ok := c.Get(middleware.ContextRoleUUID).(uuid.UUID)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return domain.Identity{UserUUID: user, RoleUUID: role}, nil
}

// pathUUID parses the :uuid path parameter.
func pathUUID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid uuid")
	}
	return id, nil
}
