package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// RequestLogging logs every request on the system channel with its
// request ID, status and duration.
func RequestLogging(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		logger.System().Info("http request",
			"requestId", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"durationMs", time.Since(start).Milliseconds())
	}
}
