package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
)

// ErrorHandler logs err and shows a friendly page (or JSON under /api/) without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
		msg = fe.Message
		applog.Warn(c, "request.error", err, nil)
	} else {
		applog.Error(c, "server.error", err, nil)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
