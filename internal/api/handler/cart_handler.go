package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetstack/inventory-api/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type createCartRequest struct {
	Name string `json:"name" validate:"required"`
}

type checkoutRequest struct {
	ForceOverride bool `json:"forceOverride"`
}

// Create opens a new cart owned by the caller.
//
// @Summary      Create a cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        body  body      createCartRequest  true  "Cart details"
// @Success      201   {object}  domain.Cart
// @Failure      400   {object}  map[string]string
// @Router       /carts [post]
func (h *CartHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.carts.Create(c.Request().Context(), req.Name, identity.UserUUID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cart)
}

// List returns all visible carts.
//
// @Summary      List carts
// @Tags         carts
// @Produce      json
// @Success      200  {array}  domain.Cart
// @Router       /carts [get]
func (h *CartHandler) List(c echo.Context) error {
	carts, err := h.carts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, carts)
}

// Get returns one cart by UUID.
//
// @Summary      Get a cart
// @Tags         carts
// @Produce      json
// @Param        uuid  path      string  true  "Cart UUID"
// @Success      200   {object}  domain.Cart
// @Failure      404   {object}  map[string]string
// @Router       /carts/{uuid} [get]
func (h *CartHandler) Get(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	cart, err := h.carts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Checkout moves a cart to checked_out. The route sits behind the
// conditional gate: a plain checkout body runs unauthenticated, while a body
// carrying forceOverride requires full authorization before this handler
// runs.
//
// @Summary      Check out a cart
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        uuid  path      string           true   "Cart UUID"
// @Param        body  body      checkoutRequest  false  "Checkout options"
// @Success      200   {object}  domain.Cart
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /carts/{uuid}/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	cart, err := h.carts.Checkout(c.Request().Context(), id, ports.CheckoutInput{
		ForceOverride: req.ForceOverride,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Delete soft-deletes a cart.
//
// @Summary      Delete a cart
// @Tags         carts
// @Param        uuid  path  string  true  "Cart UUID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /carts/{uuid} [delete]
func (h *CartHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.carts.Delete(c.Request().Context(), id, identity.UserUUID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
