package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"postaibot-webapp/internal/common/cache"
	apperrors "postaibot-webapp/internal/common/errors"
	"postaibot-webapp/internal/common/logger"
	"postaibot-webapp/internal/common/metrics"
)

type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCache serves anonymous GET pages from the cache. Requests carrying
// init data are personalised and always bypass it. A nil service disables
// caching. Must run after TelegramInitData.
func PageCache(svc *cache.CacheService, locale string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil || c.Request.Method != http.MethodGet || InitDataFromContext(c) != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cache.PageKey(locale, c.Request.URL.Path)

		entry, err := svc.Get(ctx, key)
		switch {
		case err == nil:
			metrics.ObservePageCache(true)
			c.Header("X-Cache", "HIT")
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		case !errors.Is(err, cache.ErrMiss):
			appErr := apperrors.NewCacheError("get", err)
			logger.FromContext(ctx).Warn().Err(err).Str("error_code", string(appErr.Code)).Str("key", key).Msg("page cache read failed")
		}

		metrics.ObservePageCache(false)
		c.Header("X-Cache", "MISS")

		w := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		e := cache.Entry{Status: status, ContentType: w.Header().Get("Content-Type"), Body: w.body.Bytes()}
		if err := svc.Set(ctx, key, e, ttl); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("page cache write failed")
		}
	}
}
