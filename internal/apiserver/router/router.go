package router

import (
	"github.com/dharashakti/backoffice/internal/apiserver/handler"
	"github.com/dharashakti/backoffice/internal/apiserver/middleware"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/internal/common/errorx"
	"github.com/dharashakti/backoffice/internal/i18n"
	"github.com/dharashakti/backoffice/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Deps is everything the route table needs
type Deps struct {
	Config  *config.APIServerConfig
	Handler *handler.Handler
	JWT     *jwt.Service
	Auth    middleware.Authenticator
	// Metrics may be nil when metrics are disabled
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// New builds the gin engine with middleware and every route registered
func New(d Deps) *gin.Engine {
	errs := errorx.NewErrorHandler(d.Logger, handler.ResolveError)

	r := gin.New()
	r.Use(errs.RecoveryMiddleware())
	r.Use(otelgin.Middleware(d.Config.Tracing.ServiceName))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(
		middleware.LoggerMiddleware(d.Logger),
		middleware.CORSMiddleware(&d.Config.CORS),
		i18n.LanguageMiddleware(),
		errs.ErrorMiddleware(),
	)
	r.NoRoute(errs.NoRoute())

	h := d.Handler
	r.GET("/healthz", h.Healthz)
	if d.Metrics != nil && d.Config.Metrics.Enabled {
		r.GET(d.Config.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/register-admin", h.RegisterAdmin)

	// signature only: an evicted session can still log out and learn that
	// it was evicted
	signed := api.Group("", middleware.JWTAuthMiddleware(d.JWT))
	signed.POST("/logout", h.Logout)
	signed.GET("/users/session-check/:id", h.SessionCheck)

	session := api.Group("", middleware.JWTAuthMiddleware(d.JWT), middleware.SessionMiddleware(d.Auth))
	{
		session.POST("/employees/register", h.RegisterEmployee)
		session.GET("/employees", h.ListEmployees)
		session.GET("/employees/:id", h.GetEmployee)
		session.DELETE("/employees/:id", h.DeleteEmployee)

		session.POST("/attendance", h.MarkAttendance)
		session.GET("/attendance/history/:employeeId", h.AttendanceHistory)
		session.GET("/attendance/:date", h.AttendanceForDate)

		session.POST("/salary/advance", h.RecordAdvance)
		session.GET("/salary/payments/:employeeId", h.Payments)
		session.GET("/salary/ledger/:employeeId", h.Ledger)
		session.GET("/salary/ledger/:employeeId/export", h.ExportLedger)

		session.PUT("/admin/update-system", h.UpdateSystem)
		session.PUT("/admin/reset-password", h.ResetPassword)
		session.GET("/logs", h.ActivityLogs)
	}

	return r
}
