package service

import (
	"context"
	"strings"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/auth/password"
	"github.com/dharashakti/backoffice/internal/auth/session"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/pkg/metrics"
	"github.com/dharashakti/backoffice/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// LoginResult is returned by a successful login. Employee still carries the
// password hash; callers must map it to a summary before responding.
type LoginResult struct {
	SessionToken string
	Token        string
	Employee     *database.Employee
	LoginAt      time.Time
}

// SessionStatus is what the watchdog compares its local session against.
type SessionStatus struct {
	ActiveSessionID string
	IsBlocked       bool
}

// AuthService owns login, logout and the session registry.
type AuthService struct {
	db       database.Database
	tokens   *jwt.Service
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	newToken func() (string, error)
	now      func() time.Time
}

// NewAuthService creates an AuthService. n and m may be nil.
func NewAuthService(db database.Database, tokens *jwt.Service, n notifier.Notifier, m *metrics.Metrics, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:       db,
		tokens:   tokens,
		notifier: n,
		metrics:  m,
		logger:   logger.Named("service.auth"),
		newToken: session.NewToken,
		now:      time.Now,
	}
}

// Login verifies the credential and makes a new session the employee's only
// live one.
func (s *AuthService) Login(ctx context.Context, identifier, credential string) (result *LoginResult, err error) {
	identifier = strings.TrimSpace(identifier)
	span := trace.Tracer("service.auth").Start(ctx, "AuthService.Login").
		WithAttrs(attribute.String("employee.id", identifier))
	ctx = span.Ctx
	defer func() {
		span.Fail(err)
		span.End()
		if err != nil {
			s.metrics.Login(ErrorKind(err))
			s.logger.Info("login rejected",
				zap.String("employee_id", identifier),
				zap.String("error_kind", ErrorKind(err)))
			return
		}
		s.metrics.Login("success")
		s.logger.Info("login succeeded", zap.String("employee_id", identifier))
	}()

	if identifier == "" || credential == "" {
		password.Burn(credential)
		return nil, ErrInvalidCredentials
	}

	emp, err := s.db.GetEmployee(ctx, identifier)
	if err != nil {
		if database.IsNotFound(err) {
			password.Burn(credential)
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("get employee", err)
	}
	if !password.Verify(emp.PasswordHash, credential) {
		return nil, ErrInvalidCredentials
	}
	if emp.IsBlocked {
		return nil, ErrAccountBlocked
	}

	sessionToken, err := s.newToken()
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.GenerateToken(emp.EmployeeID, emp.Name, string(emp.Role), sessionToken)
	if err != nil {
		return nil, err
	}

	var prior string
	if emp.CurrentSessionID != nil {
		prior = *emp.CurrentSessionID
	}
	if err := s.db.SetSessionID(ctx, emp.EmployeeID, sessionToken); err != nil {
		return nil, storageErr("set session", err)
	}
	emp.CurrentSessionID = &sessionToken

	if prior != "" && prior != sessionToken {
		s.metrics.ForcedLogout("evicted")
		publish(ctx, s.logger, s.notifier, &notifier.SessionEvent{
			Kind:       notifier.EventSessionEvicted,
			EmployeeID: emp.EmployeeID,
			SessionID:  prior,
		})
	}

	return &LoginResult{
		SessionToken: sessionToken,
		Token:        token,
		Employee:     emp,
		LoginAt:      s.now().UTC(),
	}, nil
}

// Logout ends the actor's session unless a newer login already replaced it.
func (s *AuthService) Logout(ctx context.Context, actor Actor) error {
	cleared, err := s.db.ClearSessionID(ctx, actor.EmployeeID, actor.SessionID)
	if err != nil {
		return storageErr("clear session", err)
	}
	if !cleared {
		s.logger.Debug("logout of a session that is no longer live",
			zap.String("employee_id", actor.EmployeeID))
		return nil
	}
	publish(ctx, s.logger, s.notifier, &notifier.SessionEvent{
		Kind:       notifier.EventSessionLogout,
		EmployeeID: actor.EmployeeID,
		SessionID:  actor.SessionID,
	})
	return nil
}

// SessionStatus reports the live session and blocked flag of employeeID.
// Only the employee themself or an Admin may ask. The route only checks the
// token signature, so for anyone else the caller's stored role and blocked
// flag decide, not the token claims.
func (s *AuthService) SessionStatus(ctx context.Context, actor Actor, employeeID string) (*SessionStatus, error) {
	if actor.EmployeeID != employeeID {
		caller, err := s.db.GetEmployee(ctx, actor.EmployeeID)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, ErrUnauthorized
			}
			return nil, storageErr("get caller", err)
		}
		if caller.IsBlocked || caller.Role != cnst.RoleAdmin {
			return nil, ErrUnauthorized
		}
	}
	emp, err := s.db.GetEmployee(ctx, employeeID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get employee", err)
	}
	status := &SessionStatus{IsBlocked: emp.IsBlocked}
	if emp.CurrentSessionID != nil {
		status.ActiveSessionID = *emp.CurrentSessionID
	}
	return status, nil
}

// Authenticate checks that the token's session is still the live one and the
// account is not blocked. The returned actor carries the stored name and role,
// so role changes apply to tokens issued before them.
func (s *AuthService) Authenticate(ctx context.Context, claims *jwt.Claims) (Actor, error) {
	emp, err := s.db.GetEmployee(ctx, claims.EmployeeID)
	if err != nil {
		if database.IsNotFound(err) {
			return Actor{}, ErrSessionEvicted
		}
		return Actor{}, storageErr("get employee", err)
	}
	if emp.IsBlocked {
		return Actor{}, ErrAccountBlocked
	}
	if emp.CurrentSessionID == nil || *emp.CurrentSessionID != claims.SessionID {
		return Actor{}, ErrSessionEvicted
	}
	return Actor{
		EmployeeID: emp.EmployeeID,
		Name:       emp.Name,
		Role:       emp.Role,
		SessionID:  claims.SessionID,
	}, nil
}
