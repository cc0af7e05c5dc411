package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ideaforge-backend/internal/logger"
)

// RequestLog logs method, path, status and latency for every request.
func RequestLog(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLog")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency_ms", latency.Milliseconds(),
		}
		if status >= 500 {
			reqLog.Error("Request failed", fields...)
			return
		}
		if status >= 400 {
			reqLog.Warn("Request rejected", fields...)
			return
		}
		reqLog.Debug("Request served", fields...)
	}
}
