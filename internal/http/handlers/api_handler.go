package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/pricing"
	"storefront/internal/services"
	"storefront/internal/validate"
)

// APIHandler serves the JSON API under /api/v1.
type APIHandler struct {
	Catalog *services.Catalog
	Carts   *services.CartRegistry
	Orders  *services.OrderService
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func apiError(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cartBody(cart domain.Cart) fiber.Map {
	return fiber.Map{"cart": cart, "summary": pricing.Summarize(cart)}
}

func (h *APIHandler) Products(c *fiber.Ctx) error {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid keyword")
	}
	inStock := c.QueryBool("inStock", false)
	prods := h.Catalog.Filter(services.Query{Keyword: q, CategoryID: strings.TrimSpace(c.Query("category")), InStockOnly: inStock})
	return c.JSON(orEmpty(prods))
}

func (h *APIHandler) Product(c *fiber.Ctx) error {
	p, ok := h.Catalog.Product(c.Params("id"))
	if !ok {
		return apiError(c, fiber.StatusNotFound, "product not found")
	}
	return c.JSON(p)
}

func (h *APIHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(orEmpty(h.Catalog.Categories()))
}

func (h *APIHandler) Cart(c *fiber.Ctx) error {
	return c.JSON(cartBody(h.Carts.For(sessionID(c)).Snapshot()))
}

func (h *APIHandler) AddItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid body")
	}
	p, ok := h.Catalog.Product(req.ProductID)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "product not found")
	}
	cart := h.Carts.For(sessionID(c))
	cart.Add(p, req.Quantity)
	applog.Info(c, "cart.add", map[string]any{"product_id": p.ID, "qty": max(req.Quantity, 1)})
	return c.Status(fiber.StatusCreated).JSON(cartBody(cart.Snapshot()))
}

func (h *APIHandler) SetItem(c *fiber.Ctx) error {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid body")
	}
	cart := h.Carts.For(sessionID(c))
	cart.SetQuantity(c.Params("id"), req.Quantity)
	return c.JSON(cartBody(cart.Snapshot()))
}

func (h *APIHandler) RemoveItem(c *fiber.Ctx) error {
	cart := h.Carts.For(sessionID(c))
	cart.Remove(c.Params("id"))
	return c.JSON(cartBody(cart.Snapshot()))
}

func (h *APIHandler) ClearCart(c *fiber.Ctx) error {
	cart := h.Carts.For(sessionID(c))
	cart.Clear()
	return c.JSON(cartBody(cart.Snapshot()))
}

func (h *APIHandler) Checkout(c *fiber.Ctx) error {
	var ci domain.CustomerInfo
	if err := c.BodyParser(&ci); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid body")
	}
	o, err := h.Carts.For(sessionID(c)).Checkout(ci)
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Security(c, "validation.fail", map[string]any{"form": "checkout"})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid customer info", "fields": verr.Fields})
	case errors.Is(err, services.ErrEmptyCart):
		return apiError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		applog.Error(c, "order.place.fail", err, nil)
		return apiError(c, fiber.StatusInternalServerError, "could not place order")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": o.ID, "total": o.Total, "items": len(o.Items)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":   o,
		"summary": pricing.Summarize(domain.Cart{Items: o.Items, Total: o.Total}),
	})
}

// Order is visible to the session that placed it and to fulfillment.
func (h *APIHandler) Order(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, mine := ownOrder(h.Carts.For(sessionID(c)), id); !mine && !hasFulfillmentKey(c, h.Orders) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return apiError(c, fiber.StatusNotFound, "order not found")
	}
	o, err := h.Orders.Get(id)
	if errors.Is(err, services.ErrOrderNotFound) {
		return apiError(c, fiber.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(o)
}

// AdvanceStatus is mounted behind RequireFulfillmentKey.
func (h *APIHandler) AdvanceStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil || !req.Status.Valid() {
		return apiError(c, fiber.StatusBadRequest, "invalid status")
	}
	id := c.Params("id")
	o, err := h.Orders.Advance(id, req.Status)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return apiError(c, fiber.StatusNotFound, "order not found")
	case errors.Is(err, services.ErrInvalidTransition):
		return apiError(c, fiber.StatusConflict, err.Error())
	case err != nil:
		return err
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": string(o.Status)})
	return c.JSON(o)
}
