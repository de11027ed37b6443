// Package serve holds the process plumbing shared by the two servers.
package serve

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/tomb.v2"

	applog "storefront/internal/log"
)

const shutdownTimeout = 5 * time.Second

// SetupLogging applies the level and, when path is set, tees every log line
// into that file. The returned closer is never nil.
func SetupLogging(path, level string) io.Closer {
	applog.SetLevel(level)
	if path == "" {
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", path, err)
		return io.NopCloser(nil)
	}
	mw := io.MultiWriter(os.Stdout, f)
	log.SetOutput(mw)
	applog.SetOutput(mw)
	return f
}

// Registry returns a registry with the Go and process collectors plus whatever
// register adds.
func Registry(register ...func(prometheus.Registerer) error) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, fn := range register {
		if err := fn(reg); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return reg, nil
}

// Metrics serves reg in the Prometheus text format.
func Metrics(reg *prometheus.Registry) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func Healthz(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) }

// Run listens on addr until SIGINT/SIGTERM or a listener error, then shuts
// the app down gracefully.
func Run(app *fiber.App, addr string) error {
	var t tomb.Tomb
	t.Go(func() error {
		return app.Listen(addr)
	})
	t.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			log.Printf("[shutdown] %s received", s)
		case <-t.Dying():
		}
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	return t.Wait()
}
