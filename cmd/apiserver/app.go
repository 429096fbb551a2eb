package main

import (
	"context"
	"fmt"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/handler"
	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/apiserver/router"
	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/internal/i18n"
	"github.com/dharashakti/backoffice/pkg/metrics"
	"github.com/dharashakti/backoffice/pkg/trace"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// app holds the wired server and everything that must be released with it
type app struct {
	engine  *gin.Engine
	closers []func() error
	logger  *zap.Logger
}

func newApp(ctx context.Context, cfg *config.APIServerConfig, lg *zap.Logger) (a *app, err error) {
	a = &app{logger: lg}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	shutdownTracing, err := trace.Setup(ctx, &cfg.Tracing, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.closers = append(a.closers, func() error { return shutdownTracing(context.Background()) })

	if err := i18n.Init(cfg.I18n.DefaultLang); err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	tokens, err := jwt.NewService(jwt.Config{SecretKey: cfg.JWT.SecretKey, Duration: cfg.JWT.Duration})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwt: %w", err)
	}

	n, err := notifier.NewNotifier(ctx, lg, &cfg.Notifier)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}
	if c, ok := n.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	payroll, err := service.NewPayrollService(db, cfg.Payroll, m, lg)
	if err != nil {
		return nil, err
	}
	auth := service.NewAuthService(db, tokens, n, m, lg)
	employees := service.NewEmployeeService(db, cfg.Registration, lg)

	seeded, err := employees.EnsureSuperAdmin(ctx, cfg.SuperAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to seed super admin: %w", err)
	}
	if seeded {
		lg.Info("super admin created", zap.String("employee_id", cfg.SuperAdmin.EmployeeID))
	}

	h := handler.NewHandler(handler.Services{
		Auth:       auth,
		Employees:  employees,
		Attendance: service.NewAttendanceService(db, m, lg),
		Payroll:    payroll,
		Admin:      service.NewAdminService(db, n, m, lg),
	}, cfg.Attendance, lg)

	a.engine = router.New(router.Deps{
		Config:  cfg,
		Handler: h,
		JWT:     tokens,
		Auth:    auth,
		Metrics: m,
		Logger:  lg,
	})
	return a, nil
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}
