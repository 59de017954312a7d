package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"archiv/internal/logging"
)

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields: request_id (set by RequestID), method, path, status, latency (ms), origin, ts.
func Logger(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := statusOf(c, err)
		level := logging.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = logging.LevelError
		case status >= fiber.StatusBadRequest:
			level = logging.LevelWarn
		}

		fields := map[string]any{
			"request_id": RequestIDFromCtx(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if origin := c.Get(fiber.HeaderOrigin); origin != "" {
			fields["origin"] = origin
		}
		log.Log(level, "http_request", fields)

		return err
	}
}
