package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"postaibot-webapp/internal/common/logger"
)

// Logger writes one access log line per request. init_data is never logged.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.FromContext(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Bool("init_data", InitDataFromContext(c) != "").
			Msg("Request processed")
	}
}
