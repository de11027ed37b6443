package handlers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/http/handlers"
	"storefront/web"
)

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/v1/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	s := readBody(t, resp)
	if !strings.Contains(s, "Something went wrong") {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "db timeout") || strings.Contains(s, "secret") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/err", nil))
	if err != nil {
		t.Fatal(err)
	}
	s = readBody(t, resp)
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") || strings.Contains(s, "secret") {
		t.Fatalf("api error should be sanitized JSON; got %q %s", resp.Header.Get("Content-Type"), s)
	}
}

func TestErrorHandlerKeepsClientErrors(t *testing.T) {
	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusGone, "This page has moved")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/gone", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusGone {
		t.Fatalf("expected 410, got %d", resp.StatusCode)
	}
	if s := readBody(t, resp); !strings.Contains(s, "This page has moved") {
		t.Fatalf("message missing; body=%s", s)
	}
}
