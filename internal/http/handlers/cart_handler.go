package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/pricing"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Catalog *services.Catalog
	Carts   *services.CartRegistry
}

func (h *CartHandler) cart(c *fiber.Ctx) *services.CartService {
	return h.Carts.For(sessionID(c))
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cart := h.cart(c).Snapshot()
	return render(c, "cart", fiber.Map{
		"Title":     "Cart",
		"Cart":      cart,
		"Summary":   pricing.Summarize(cart),
		"CartCount": cart.ItemCount,
	})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	p, ok := h.Catalog.Product(productID)
	if !ok {
		applog.Security(c, "cart.add.unknown", map[string]any{"product_id": productID})
		return notFound(c, "This item is no longer available")
	}
	if !p.InStock {
		applog.Info(c, "cart.add.out_of_stock", map[string]any{"product_id": p.ID})
		return notFound(c, "This item is out of stock")
	}
	qty := validate.QtyFor(c.FormValue("qty"), p.Quantity)
	h.cart(c).Add(p, qty)
	applog.Info(c, "cart.add", map[string]any{"product_id": p.ID, "qty": qty})
	return c.Redirect("/cart")
}

// Update sets a line's quantity; zero or less removes it.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty, ok := validate.NewQty(c.FormValue("qty"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid quantity")
	}
	if p, found := h.Catalog.Product(productID); found && p.Quantity > 0 && qty > p.Quantity {
		qty = p.Quantity
	}
	h.cart(c).SetQuantity(productID, qty)
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	h.cart(c).Remove(productID)
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.cart(c).Clear()
	return c.Redirect("/cart")
}
