package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/careerapi"
	"storefront/internal/config"
	"storefront/internal/dashboard"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/serve"
	"storefront/web"
)

func main() {
	cfg := config.Load()
	defer serve.SetupLogging(cfg.LogFile, cfg.LogLevel).Close()

	api := careerapi.New(cfg.CareerAPIURL, cfg.CareerAPITimeout)
	h := handlers.NewDashboardHandler(dashboard.NewRegistry(api))

	reg, err := serve.Registry(careerapi.RegisterMetrics)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    6 << 20, // resume uploads
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz" || c.Path() == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again.", "Nav": true})
		},
	}))
	app.Use(handlers.CSRFLocals)

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/profile") })
	app.Get("/profile", h.Profile)
	app.Post("/profile", h.CreateProfile)
	app.Post("/profile/resume", h.UploadResume)
	app.Post("/profile/linkedin", h.UploadLinkedIn)
	app.Get("/market", h.Market)
	app.Post("/market", h.AnalyzeMarket)
	app.Get("/gaps", h.Gaps)
	app.Post("/gaps", h.LoadGaps)
	app.Get("/roadmap", h.Roadmap)
	app.Post("/roadmap", h.GenerateRoadmap)
	app.Get("/evaluation", h.Evaluation)
	app.Post("/evaluation", h.RunEvaluation)

	app.Get("/healthz", serve.Healthz)
	app.Get("/metrics", serve.Metrics(reg))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found", "Nav": true})
	})

	if err := serve.Run(app, ":"+cfg.NavPort); err != nil {
		log.Fatal(err)
	}
}
