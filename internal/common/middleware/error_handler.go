package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"postaibot-webapp/internal/common/errors"
	"postaibot-webapp/internal/common/logger"
)

const RequestIDCtxKey = "request_id"

// ErrorHandler recovers panics and answers with the JSON error envelope.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := getRequestID(c)

		logger.FromContext(c.Request.Context()).Error().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithRequestID(requestID).
			WithDetail("panic", fmt.Sprintf("%v", recovered))

		sendErrorResponse(c, appErr)
	})
}

// RequestID propagates X-Request-ID and puts a request logger into the
// request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDCtxKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *errors.AppError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
	RequestID string           `json:"request_id"`
	Path      string           `json:"path,omitempty"`
	Method    string           `json:"method,omitempty"`
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError) {
	requestID := getRequestID(c)

	appErr.WithRequestID(requestID).
		WithContext("path", c.Request.URL.Path).
		WithContext("method", c.Request.Method)

	logError(c, appErr)

	c.AbortWithStatusJSON(getHTTPStatusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr,
		Timestamp: time.Now(),
		RequestID: requestID,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

func getHTTPStatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeBadRequest, errors.ErrCodeInitDataInvalid:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCacheError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func logError(c *gin.Context, appErr *errors.AppError) {
	event := logger.FromContext(c.Request.Context()).Warn()
	if appErr.IsInternal() {
		event = logger.FromContext(c.Request.Context()).Error()
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Interface("details", appErr.Details).
		Msg(appErr.Message)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDCtxKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}

// HandleErrorWrapper turns errors pushed with c.Error into the JSON envelope.
func HandleErrorWrapper() func(gin.HandlerFunc) gin.HandlerFunc {
	return func(handler gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			handler(c)

			if len(c.Errors) == 0 || c.Writer.Written() {
				return
			}

			err := c.Errors.Last().Err
			if appErr, ok := errors.AsAppError(err); ok {
				sendErrorResponse(c, appErr)
				return
			}

			sendErrorResponse(c, errors.Wrap(err, errors.ErrCodeInternal, "Handler error occurred"))
		}
	}
}
