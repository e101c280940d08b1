package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smartpath-backend/internal/observability"
)

// Metrics instruments HTTP request counts and latency.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		observability.APIInflight.Inc()
		defer observability.APIInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		observability.APIRequests.WithLabelValues(method, route, observability.StatusClass(c.Writer.Status())).Inc()
		observability.APILatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
