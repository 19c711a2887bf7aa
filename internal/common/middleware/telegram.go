package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	InitDataCtxKey = "init_data"

	InitDataHeader       = "X-Telegram-Init-Data"
	LegacyInitDataHeader = "init_data"
	InitDataQueryParam   = "init_data"
)

// TelegramInitData stores the raw Mini App init data in the gin context.
// Requests without it are not rejected: the welcome screen renders for
// guests too.
func TelegramInitData() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			raw = c.GetHeader(LegacyInitDataHeader)
		}
		if raw == "" {
			raw = c.Query(InitDataQueryParam)
		}

		if raw != "" {
			c.Set(InitDataCtxKey, raw)
		}
		c.Next()
	}
}

// InitDataFromContext returns the raw init data, or "" if none was sent.
func InitDataFromContext(c *gin.Context) string {
	return c.GetString(InitDataCtxKey)
}
