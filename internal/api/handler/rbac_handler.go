package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
)

// RBACHandler is the admin surface over roles, permissions, endpoints and
// role↔permission grants.
type RBACHandler struct {
	rbac ports.RBACService
}

func NewRBACHandler(rbac ports.RBACService) *RBACHandler {
	return &RBACHandler{rbac: rbac}
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type createEndpointRequest struct {
	Route string `json:"route" validate:"required,startswith=/"`
}

type createPermissionRequest struct {
	Action   string `json:"action" validate:"required,oneof=GET POST PUT DELETE"`
	Endpoint string `json:"endpoint" validate:"required,uuid"`
}

type grantRequest struct {
	Permission string `json:"permission" validate:"required,uuid"`
}

// CreateRole adds a new role.
//
// @Summary      Create a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  domain.Role
// @Failure      409   {object}  map[string]string
// @Router       /roles [post]
func (h *RBACHandler) CreateRole(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.rbac.CreateRole(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, role)
}

// ListRoles returns all visible roles.
//
// @Summary      List roles
// @Tags         rbac
// @Produce      json
// @Success      200  {array}  domain.Role
// @Router       /roles [get]
func (h *RBACHandler) ListRoles(c echo.Context) error {
	roles, err := h.rbac.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// GetRole returns a single visible role.
//
// @Summary      Get a role
// @Tags         rbac
// @Produce      json
// @Param        uuid  path      string  true  "Role UUID"
// @Success      200   {object}  domain.Role
// @Failure      404   {object}  map[string]string
// @Router       /roles/{uuid} [get]
func (h *RBACHandler) GetRole(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	role, err := h.rbac.GetRole(c.Request().Context(), domain.RoleByUUID(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole soft-deletes a role. Permission resolution for a deleted role
// fails closed from that point on.
//
// @Summary      Delete a role
// @Tags         rbac
// @Param        uuid  path  string  true  "Role UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /roles/{uuid} [delete]
func (h *RBACHandler) DeleteRole(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.rbac.DeleteRole(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateEndpoint registers a canonical route name.
//
// @Summary      Create an endpoint
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        body  body      createEndpointRequest  true  "Canonical route pattern"
// @Success      201   {object}  domain.Endpoint
// @Failure      409   {object}  map[string]string
// @Router       /endpoints [post]
func (h *RBACHandler) CreateEndpoint(c echo.Context) error {
	var req createEndpointRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	endpoint, err := h.rbac.CreateEndpoint(c.Request().Context(), req.Route)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, endpoint)
}

// ListEndpoints returns all visible endpoints.
//
// @Summary      List endpoints
// @Tags         rbac
// @Produce      json
// @Success      200  {array}  domain.Endpoint
// @Router       /endpoints [get]
func (h *RBACHandler) ListEndpoints(c echo.Context) error {
	endpoints, err := h.rbac.ListEndpoints(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, endpoints)
}

// DeleteEndpoint soft-deletes an endpoint; permissions referencing it stop
// contributing grants.
//
// @Summary      Delete an endpoint
// @Tags         rbac
// @Param        uuid  path  string  true  "Endpoint UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /endpoints/{uuid} [delete]
func (h *RBACHandler) DeleteEndpoint(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.rbac.DeleteEndpoint(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePermission declares an (action, endpoint) capability.
//
// @Summary      Create a permission
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        body  body      createPermissionRequest  true  "Action and endpoint"
// @Success      201   {object}  domain.Permission
// @Failure      404   {object}  map[string]string
// @Router       /permissions [post]
func (h *RBACHandler) CreatePermission(c echo.Context) error {
	var req createPermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	endpointUUID, err := uuid.Parse(req.Endpoint)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endpoint uuid")
	}

	perm, err := h.rbac.CreatePermission(c.Request().Context(), req.Action, endpointUUID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, perm)
}

// ListPermissions returns all visible permissions.
//
// @Summary      List permissions
// @Tags         rbac
// @Produce      json
// @Success      200  {array}  domain.Permission
// @Router       /permissions [get]
func (h *RBACHandler) ListPermissions(c echo.Context) error {
	perms, err := h.rbac.ListPermissions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, perms)
}

// DeletePermission soft-deletes a permission, revoking it from every role.
//
// @Summary      Delete a permission
// @Tags         rbac
// @Param        uuid  path  string  true  "Permission UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /permissions/{uuid} [delete]
func (h *RBACHandler) DeletePermission(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.rbac.DeletePermission(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Grant attaches a permission to a role.
//
// @Summary      Grant a permission to a role
// @Tags         rbac
// @Accept       json
// @Produce      json
// @Param        uuid  path      string        true  "Role UUID"
// @Param        body  body      grantRequest  true  "Permission UUID"
// @Success      201   {object}  domain.RoleHasPermission
// @Failure      404   {object}  map[string]string
// @Router       /roles/{uuid}/permissions [post]
func (h *RBACHandler) Grant(c echo.Context) error {
	roleUUID, err := pathUUID(c)
	if err != nil {
		return err
	}

	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permUUID, err := uuid.Parse(req.Permission)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid permission uuid")
	}

	grant, err := h.rbac.Grant(c.Request().Context(), roleUUID, permUUID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, grant)
}

// Revoke detaches a permission from a role (soft-deletes the join row).
//
// @Summary      Revoke a permission from a role
// @Tags         rbac
// @Param        uuid        path  string  true  "Role UUID"
// @Param        permission  path  string  true  "Permission UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /roles/{uuid}/permissions/{permission} [delete]
func (h *RBACHandler) Revoke(c echo.Context) error {
	roleUUID, err := pathUUID(c)
	if err != nil {
		return err
	}
	permUUID, err := uuid.Parse(c.Param("permission"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid permission uuid")
	}
	if err := h.rbac.Revoke(c.Request().Context(), roleUUID, permUUID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
