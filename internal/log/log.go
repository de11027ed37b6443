package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout)
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// SetOutput redirects every subsequent entry to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w).Level(logger.GetLevel())
}

// SetLevel sets the minimum level; unknown names leave it unchanged.
func SetLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	var e *zerolog.Event
	switch level {
	case "error":
		e = l.Error()
	case "warn":
		e = l.Warn()
	case "audit":
		// audit entries are never filtered out
		e = l.Log().Str(zerolog.LevelFieldName, "audit")
	default:
		e = l.Info()
	}
	if e == nil {
		return
	}
	e = e.Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
	}
	if err != nil {
		e = e.Err(err)
	}
	if len(fields) > 0 {
		e = e.Dict("fields", zerolog.Dict().Fields(fields))
	}
	e.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Warn(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("warn", c, action, err, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
