package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/medassist-api/metrics"
)

// metricsMiddleware counts requests per matched route.
func metricsMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	metrics.HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
}
