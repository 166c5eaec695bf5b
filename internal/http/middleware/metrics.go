package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tdobson/snowy-sub000/internal/observability"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// RequestMetrics records request counts and latency per route. Uses the
// route template, not the raw path, to keep label cardinality bounded.
func RequestMetrics(metrics *observability.Metrics, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.ObserveAPI(c.Request.Method, route, status, time.Since(start))
		if c.Writer.Status() >= 500 {
			log.Error("request failed", "method", c.Request.Method, "route", route, "status", status)
		}
	}
}
