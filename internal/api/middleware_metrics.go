package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request latency labelled by the matched route
// pattern, so ids in paths do not explode label cardinality.
func (handler *Handler) MetricsMiddleware(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	route := "unmatched"
	if matched := c.Route(); matched != nil && matched.Path != "" && matched.Path != "/" {
		route = matched.Path
	}
	handler.metrics.ObserveRequest(c.Method(), route, status, time.Since(started))
	return err
}
