package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"storefront/internal/services"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if n, ok := c.Locals("cartCount").(int); ok {
		data["CartCount"] = n
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}

// sessionID returns the visitor's session id, issuing a cookie on first use.
func sessionID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// CartBadge exposes the item count of the visitor's cart to every page.
func CartBadge(carts *services.CartRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if _, err := uuid.Parse(sid); err == nil {
				c.Locals("cartCount", carts.For(sid).ItemCount())
			}
		}
		return c.Next()
	}
}

// CSRFLocals copies the token of the csrf middleware to where render looks for it.
func CSRFLocals(c *fiber.Ctx) error {
	if tok, ok := c.Locals("csrf").(string); ok {
		c.Locals("CSRFToken", tok)
	}
	return c.Next()
}
