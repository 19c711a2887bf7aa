package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode представляет код ошибки
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"

	// Ошибки моста Telegram WebApp
	ErrCodeBridgeRead      ErrorCode = "BRIDGE_READ_FAILED"
	ErrCodeInitDataInvalid ErrorCode = "INIT_DATA_INVALID"

	// Ошибки страницы
	ErrCodeMountTargetMissing ErrorCode = "MOUNT_TARGET_MISSING"
	ErrCodeRender             ErrorCode = "RENDER_FAILED"

	ErrCodeCacheError ErrorCode = "CACHE_ERROR"
)

// AppError представляет типизированную ошибку приложения
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal reports errors that are the server's fault.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeRender ||
		e.Code == ErrCodeMountTargetMissing ||
		e.Code == ErrCodeCacheError
}

// IsBridge reports failures reading the Telegram bridge.
func (e *AppError) IsBridge() bool {
	return e.Code == ErrCodeBridgeRead || e.Code == ErrCodeInitDataInvalid
}

func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New создает новую ошибку приложения
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// NewBridgeReadError marks a failed read of the Telegram bridge at the given stage.
func NewBridgeReadError(stage string, err error) *AppError {
	return Wrap(err, ErrCodeBridgeRead, fmt.Sprintf("Telegram WebApp bridge read failed: %s", stage)).
		WithDetail("stage", stage)
}

func NewMountTargetMissingError(id string, err error) *AppError {
	return Wrap(err, ErrCodeMountTargetMissing, fmt.Sprintf("Mount element #%s not found", id)).
		WithDetail("element_id", id)
}

func NewRenderError(err error) *AppError {
	return Wrap(err, ErrCodeRender, "Failed to render page")
}

func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError finds an AppError anywhere in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil {
		return nil, false
	}
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
