package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all visible users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user by UUID.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        uuid  path      string  true  "User UUID"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Router       /users/{uuid} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete soft-deletes a user, recording who deleted it.
//
// @Summary      Delete a user
// @Tags         users
// @Param        uuid  path  string  true  "User UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{uuid} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), id, identity.UserUUID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
