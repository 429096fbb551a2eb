package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/dharashakti/backoffice/internal/apiserver/middleware"
	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/internal/common/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Services bundles what the HTTP layer delegates to
type Services struct {
	Auth       *service.AuthService
	Employees  *service.EmployeeService
	Attendance *service.AttendanceService
	Payroll    *service.PayrollService
	Admin      *service.AdminService
}

// Handler implements every /api route
type Handler struct {
	svc              Services
	allowFutureDates bool
	logger           *zap.Logger
}

func NewHandler(svc Services, cfg config.AttendanceConfig, logger *zap.Logger) *Handler {
	return &Handler{
		svc:              svc,
		allowFutureDates: cfg.AllowFutureDates,
		logger:           logger.Named("handler"),
	}
}

// ResolveError maps service errors onto API errors for errorx.ErrorHandler
func ResolveError(err error) *errorx.APIError {
	var verr *service.ValidationError
	var serr *service.StorageError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return errorx.ErrInvalidCredentials.Clone()
	case errors.Is(err, service.ErrAccountBlocked):
		return errorx.ErrAccountBlocked.Clone()
	case errors.Is(err, service.ErrSessionEvicted):
		return errorx.ErrSessionEvicted.Clone()
	case errors.Is(err, service.ErrUnauthorized):
		return errorx.ErrForbidden.Clone()
	case errors.Is(err, service.ErrNotFound):
		return errorx.ErrNotFound.Clone()
	case errors.As(err, &verr):
		apiErr := errorx.ErrValidation.Clone()
		for field, msg := range verr.FieldErrors {
			apiErr.WithDetail(field, msg)
		}
		return apiErr
	case errors.As(err, &serr):
		return errorx.ErrStorage.Clone()
	}
	return nil
}

// fail hands err to errorx.ErrorHandler.ErrorMiddleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		apiErr := errorx.ErrValidation.Clone().WithCause(err)
		for _, fe := range verrs {
			apiErr.WithDetail(lowerFirst(fe.Field()), fe.Tag())
		}
		return apiErr
	}
	return errorx.ErrInvalidRequest.Clone().WithCause(err)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// actor returns the caller or aborts the request
func actor(c *gin.Context) (service.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		fail(c, errorx.ErrUnauthenticated.Clone())
	}
	return a, ok
}

func param(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}
