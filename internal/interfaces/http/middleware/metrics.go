package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"payportal.backend/pkg/metrics"
)

// MetricsMiddleware records request counts and latency by route template
func MetricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		reg.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
