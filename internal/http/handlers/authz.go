package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// FulfillmentKeyHeader carries the shared secret of the fulfillment system.
const FulfillmentKeyHeader = "X-Fulfillment-Key"

// RequireFulfillmentKey lets a request through only with a valid fulfillment key.
func RequireFulfillmentKey(orders *services.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := orders.Authorize(c.Get(FulfillmentKeyHeader))
		switch {
		case err == nil:
			c.Locals("fulfillment", true)
			return c.Next()
		case errors.Is(err, services.ErrFulfillmentDisabled):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		default:
			applog.Security(c, "access.denied.fulfillment", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid fulfillment key"})
		}
	}
}

func hasFulfillmentKey(c *fiber.Ctx, orders *services.OrderService) bool {
	key := c.Get(FulfillmentKeyHeader)
	return key != "" && orders.Authorize(key) == nil
}
