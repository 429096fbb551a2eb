package errorx

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver maps a domain error onto an APIError. It returns nil for errors it
// does not know.
type Resolver func(err error) *APIError

// ErrorHandler renders every failed request the same way and logs it once
type ErrorHandler struct {
	logger  *zap.Logger
	resolve Resolver
}

// NewErrorHandler creates a new error handler. resolve may be nil.
func NewErrorHandler(logger *zap.Logger, resolve Resolver) *ErrorHandler {
	return &ErrorHandler{
		logger:  logger.Named("errorx"),
		resolve: resolve,
	}
}

// HandleError converts err to an APIError and writes the error response
func (h *ErrorHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := h.ConvertToAPIError(err)
	apiErr.TraceID = ExtractTraceID(c)
	apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)

	h.logError(c, apiErr)

	c.Header(cnst.HeaderTraceID, apiErr.TraceID)
	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{
		"success": false,
		"message": i18n.TranslateMessage(c, apiErr.MessageID, nil),
		"error":   apiErr,
	})
}

// ConvertToAPIError always returns a fresh APIError owned by the caller
func (h *ErrorHandler) ConvertToAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Clone()
	}
	if h.resolve != nil {
		if resolved := h.resolve(err); resolved != nil {
			if resolved.Cause == nil {
				resolved.Cause = err
			}
			return resolved
		}
	}
	return ErrInternal.Clone().WithCause(err)
}

func (h *ErrorHandler) logError(c *gin.Context, apiErr *APIError) {
	fields := []zap.Field{
		zap.String("trace_id", apiErr.TraceID),
		zap.String("error_code", apiErr.Code),
		zap.String("category", string(apiErr.Category)),
		zap.Int("http_status", apiErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("client_ip", c.ClientIP()),
	}
	if apiErr.Cause != nil {
		fields = append(fields, zap.Error(apiErr.Cause))
	}
	if len(apiErr.Details) > 0 {
		fields = append(fields, zap.Any("details", apiErr.Details))
	}

	msg := "request failed"
	switch apiErr.Severity {
	case SeverityInfo:
		h.logger.Info(msg, fields...)
	case SeverityWarning:
		h.logger.Warn(msg, fields...)
	case SeverityCritical:
		buf := make([]byte, 1024*4)
		n := runtime.Stack(buf, false)
		h.logger.Error(msg, append(fields, zap.String("stack_trace", string(buf[:n])))...)
	default:
		h.logger.Error(msg, fields...)
	}
}

// ErrorMiddleware renders the last error a handler attached with c.Error
func (h *ErrorHandler) ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			h.HandleError(c, c.Errors.Last().Err)
		}
	}
}

// RecoveryMiddleware turns a panic into a 500 response
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		h.HandleError(c, ErrPanic.Clone().WithCause(fmt.Errorf("panic: %v", err)))
	})
}

// NoRoute answers unknown paths with the standard error body
func (h *ErrorHandler) NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.HandleError(c, ErrRouteNotFound.Clone().WithDetail("path", c.Request.URL.Path))
	}
}

// ExtractTraceID returns the trace id of the request, generating one when
// the client sent none
func ExtractTraceID(c *gin.Context) string {
	if traceID := c.GetString(cnst.CtxKeyTraceID); traceID != "" {
		return traceID
	}
	traceID := c.GetHeader(cnst.HeaderTraceID)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	c.Set(cnst.CtxKeyTraceID, traceID)
	return traceID
}
