package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/pricing"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Carts  *services.CartRegistry
	Orders *services.OrderService
}

func customerFromForm(c *fiber.Ctx) domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		Email:     c.FormValue("email"),
		Phone:     c.FormValue("phone"),
		Address:   c.FormValue("address"),
		City:      c.FormValue("city"),
		State:     c.FormValue("state"),
		ZipCode:   c.FormValue("zipCode"),
	}
}

func (h *OrderHandler) checkoutPage(c *fiber.Ctx, cart domain.Cart, form domain.CustomerInfo, errs map[string]string, msg string) error {
	return render(c, "checkout", fiber.Map{
		"Title":   "Checkout",
		"Cart":    cart,
		"Summary": pricing.Summarize(cart),
		"Form":    form,
		"Errors":  errs,
		"Err":     msg,
	})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cart := h.Carts.For(sessionID(c)).Snapshot()
	if len(cart.Items) == 0 {
		return c.Redirect("/cart")
	}
	return h.checkoutPage(c, cart, domain.CustomerInfo{}, map[string]string{}, "")
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := sessionID(c)
	cart := h.Carts.For(sid)
	form := customerFromForm(c)

	o, err := cart.Checkout(form)
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		errs := make(map[string]string, len(verr.Fields))
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			errs[f.Field] = f.Message
			fields = append(fields, f.Field)
		}
		applog.Security(c, "validation.fail", map[string]any{"form": "checkout", "fields": fields})
		c.Status(fiber.StatusBadRequest)
		return h.checkoutPage(c, cart.Snapshot(), form, errs, "Please correct the highlighted fields.")
	case errors.Is(err, services.ErrEmptyCart):
		return c.Redirect("/cart")
	case err != nil:
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
		c.Status(fiber.StatusInternalServerError)
		return h.checkoutPage(c, cart.Snapshot(), form, map[string]string{}, "Could not place order. Please try again.")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"total":    o.Total,
		"items":    len(o.Items),
	})
	return c.Redirect("/order/" + o.ID)
}

// ownOrder finds id among the orders placed in this session.
func ownOrder(cart *services.CartService, id string) (domain.Order, bool) {
	for _, o := range cart.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Order not found")
	}
	if _, mine := ownOrder(h.Carts.For(sessionID(c)), oid); !mine {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return notFound(c, "Order not found")
	}

	// the stored copy carries the current fulfillment status
	o, err := h.Orders.Get(oid)
	if err != nil {
		if !errors.Is(err, services.ErrOrderNotFound) {
			applog.Error(c, "order.view.fail", err, map[string]any{"order_id": oid})
		}
		return notFound(c, "Order not found")
	}
	return render(c, "order", fiber.Map{
		"Title":   "Order " + o.ID,
		"Order":   o,
		"Summary": pricing.Summarize(domain.Cart{Items: o.Items, Total: o.Total}),
	})
}
