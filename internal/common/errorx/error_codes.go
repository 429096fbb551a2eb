package errorx

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/dharashakti/backoffice/internal/i18n"
)

// ErrorCategory groups error codes for clients and logs
type ErrorCategory string

const (
	CategoryValidation     ErrorCategory = "validation"
	CategoryAuthentication ErrorCategory = "authentication"
	CategoryAuthorization  ErrorCategory = "authorization"
	CategoryNotFound       ErrorCategory = "not_found"
	CategoryInternal       ErrorCategory = "internal"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// APIError is the error object of every failed response
type APIError struct {
	Code       string         `json:"code"`
	Category   ErrorCategory  `json:"category"`
	Severity   Severity       `json:"severity"`
	Details    map[string]any `json:"details,omitempty"`
	TraceID    string         `json:"trace_id,omitempty"`
	Timestamp  string         `json:"timestamp,omitempty"`
	HTTPStatus int            `json:"-"`
	// MessageID names the localized message sent next to the error object
	MessageID string `json:"-"`
	Cause     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Category, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Category, e.MessageID)
}

func (e *APIError) Unwrap() error { return e.Cause }

// Clone copies a template so per-request fields never leak between requests
func (e *APIError) Clone() *APIError {
	c := *e
	c.Details = maps.Clone(e.Details)
	return &c
}

// WithDetail adds a detail to the error
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error for logging
func (e *APIError) WithCause(err error) *APIError {
	e.Cause = err
	return e
}

// Error templates. Always Clone before use.
var (
	// Validation Errors (E1000-E1999)
	ErrInvalidRequest = &APIError{
		Code:       "E1001",
		Category:   CategoryValidation,
		Severity:   SeverityWarning,
		HTTPStatus: http.StatusBadRequest,
		MessageID:  i18n.MsgErrInvalidRequest,
	}

	ErrValidation = &APIError{
		Code:       "E1002",
		Category:   CategoryValidation,
		Severity:   SeverityWarning,
		HTTPStatus: http.StatusBadRequest,
		MessageID:  i18n.MsgErrValidation,
	}

	ErrFutureDate = &APIError{
		Code:       "E1003",
		Category:   CategoryValidation,
		Severity:   SeverityWarning,
		HTTPStatus: http.StatusBadRequest,
		MessageID:  i18n.MsgErrFutureDate,
	}

	// Authentication Errors (E2000-E2999)
	ErrInvalidCredentials = &APIError{
		Code:       "E2001",
		Category:   CategoryAuthentication,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusUnauthorized,
		MessageID:  i18n.MsgErrInvalidCredentials,
	}

	ErrUnauthenticated = &APIError{
		Code:       "E2002",
		Category:   CategoryAuthentication,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusUnauthorized,
		MessageID:  i18n.MsgErrUnauthenticated,
	}

	ErrSessionEvicted = &APIError{
		Code:       "E2003",
		Category:   CategoryAuthentication,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusUnauthorized,
		MessageID:  i18n.MsgErrSessionEvicted,
	}

	// Authorization Errors (E3000-E3999)
	ErrAccountBlocked = &APIError{
		Code:       "E3001",
		Category:   CategoryAuthorization,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusForbidden,
		MessageID:  i18n.MsgErrAccountBlocked,
	}

	ErrForbidden = &APIError{
		Code:       "E3002",
		Category:   CategoryAuthorization,
		Severity:   SeverityWarning,
		HTTPStatus: http.StatusForbidden,
		MessageID:  i18n.MsgErrForbidden,
	}

	// Not Found Errors (E4000-E4999)
	ErrNotFound = &APIError{
		Code:       "E4001",
		Category:   CategoryNotFound,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusNotFound,
		MessageID:  i18n.MsgErrNotFound,
	}

	ErrRouteNotFound = &APIError{
		Code:       "E4002",
		Category:   CategoryNotFound,
		Severity:   SeverityInfo,
		HTTPStatus: http.StatusNotFound,
		MessageID:  i18n.MsgErrRouteNotFound,
	}

	// Internal Errors (E5000-E5999)
	ErrPanic = &APIError{
		Code:       "E5000",
		Category:   CategoryInternal,
		Severity:   SeverityCritical,
		HTTPStatus: http.StatusInternalServerError,
		MessageID:  i18n.MsgErrPanic,
	}

	ErrInternal = &APIError{
		Code:       "E5001",
		Category:   CategoryInternal,
		Severity:   SeverityError,
		HTTPStatus: http.StatusInternalServerError,
		MessageID:  i18n.MsgErrInternal,
	}

	ErrStorage = &APIError{
		Code:       "E5002",
		Category:   CategoryInternal,
		Severity:   SeverityError,
		HTTPStatus: http.StatusInternalServerError,
		MessageID:  i18n.MsgErrInternal,
	}
)
