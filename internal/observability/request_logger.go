package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and feeds the request counters.
// Metrics are keyed by the matched route pattern to keep cardinality bounded.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		metrics.RecordRequest(RouteKey(c), c.Method(), status, duration)

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()))
		return err
	}
}

// UnmatchedRoute is the metrics key shared by requests that no route handled.
const UnmatchedRoute = "<unmatched>"

const unmatchedLocal = "observability.unmatched"

// MarkUnmatched must be registered after every route. Requests only reach it
// when no route handled them.
func MarkUnmatched(c *fiber.Ctx) error {
	c.Locals(unmatchedLocal, true)
	return c.Next()
}

// RouteKey returns the matched route pattern, never the raw path, so metric
// keys stay bounded by the route table.
func RouteKey(c *fiber.Ctx) string {
	if unmatched, _ := c.Locals(unmatchedLocal).(bool); unmatched {
		return UnmatchedRoute
	}
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return UnmatchedRoute
}
