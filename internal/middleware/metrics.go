package middleware

import (
	"strconv"
	"time"

	"smartPriceMarket/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// HTTPMetrics records request latency and counts per route. The route
// pattern is used instead of the raw URL to keep label cardinality low.
func HTTPMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			metrics.HTTPRequestLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()

			return err
		}
	}
}
