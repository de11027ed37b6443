package main

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/serve"
	"storefront/internal/services"
	"storefront/web"
)

func main() {
	cfg := config.Load()
	defer serve.SetupLogging(cfg.LogFile, cfg.LogLevel).Close()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	catalogRepo := repos.NewCatalogRepo(db)
	if cfg.CatalogFile != "" {
		if err := catalogRepo.LoadCatalogFile(cfg.CatalogFile); err != nil {
			log.Fatalf("load catalog %s: %v", cfg.CatalogFile, err)
		}
		log.Printf("[catalog] loaded %s", cfg.CatalogFile)
	}
	catalog, err := services.LoadCatalog(catalogRepo)
	if err != nil {
		log.Fatal(err)
	}

	var slots services.SlotStore = repos.NewSlotRepo(db)
	if cfg.CartStore == "bolt" {
		bs, err := repos.OpenBoltSlots(cfg.CartBoltPath)
		if err != nil {
			log.Fatal(err)
		}
		defer bs.Close()
		slots = bs
		log.Printf("[carts] bolt store at %s", cfg.CartBoltPath)
	}

	orderRepo := repos.NewOrderRepo(db)
	carts := services.NewCartRegistry(slots, orderRepo)
	orders := services.NewOrderService(orderRepo, cfg.FulfillmentKeyHash)
	if cfg.FulfillmentKeyHash == "" {
		log.Printf("[fulfillment] FULFILLMENT_KEY_HASH not set, status updates disabled")
	}

	reg, err := serve.Registry(services.RegisterMetrics)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz" || c.Path() == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(handlers.CSRFLocals)
	app.Use(handlers.CartBadge(carts))

	deps := handlers.NewDeps(catalog, carts, orders)

	// Pages
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/product/:id", deps.CatalogHandler.Detail)

	// Cart & orders
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)

	checkoutLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.checkout.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many attempts. Please try again later."})
		},
	})
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/checkout", checkoutLimiter, deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)

	// API
	api := app.Group("/api/v1")
	api.Get("/products", deps.APIHandler.Products)
	api.Get("/products/:id", deps.APIHandler.Product)
	api.Get("/categories", deps.APIHandler.Categories)
	api.Get("/cart", deps.APIHandler.Cart)
	api.Post("/cart/items", deps.APIHandler.AddItem)
	api.Put("/cart/items/:id", deps.APIHandler.SetItem)
	api.Delete("/cart/items/:id", deps.APIHandler.RemoveItem)
	api.Delete("/cart", deps.APIHandler.ClearCart)
	api.Post("/checkout", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.checkout.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.APIHandler.Checkout)
	api.Get("/orders/:id", deps.APIHandler.Order)
	api.Post("/orders/:id/status", handlers.RequireFulfillmentKey(orders), deps.APIHandler.AdvanceStatus)

	// Health, metrics & 404
	app.Get("/healthz", serve.Healthz)
	app.Get("/metrics", serve.Metrics(reg))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	if err := serve.Run(app, ":"+cfg.Port); err != nil {
		log.Fatal(err)
	}
}
