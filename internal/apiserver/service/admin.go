package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/auth/password"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/pkg/metrics"
	"github.com/dharashakti/backoffice/pkg/utils"

	"go.uber.org/zap"
)

// ActivityLogLimit is how many audit entries ListActivityLogs returns.
const ActivityLogLimit = 50

// UpdateFieldCommand changes one allow-listed attribute of an employee.
type UpdateFieldCommand struct {
	TargetID string
	// Field is matched against the fixed set in cnst.ParseAdminField.
	Field string
	// Value is a decoded JSON value: string, bool or number.
	Value      any
	AdminName  string
	TargetName string
}

// ActivityLogEntry is one audit record.
type ActivityLogEntry struct {
	ID           uint
	AdminName    string
	ActionDetail string
	TargetID     string
	Field        string
	CreatedAt    time.Time
}

// AdminService applies privileged mutations and keeps their audit trail.
type AdminService struct {
	db       database.Database
	notifier notifier.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewAdminService(db database.Database, n notifier.Notifier, m *metrics.Metrics, logger *zap.Logger) *AdminService {
	return &AdminService{
		db:       db,
		notifier: n,
		metrics:  m,
		logger:   logger.Named("service.admin"),
	}
}

// UpdateEmployeeField applies cmd and appends exactly one audit entry in the
// same transaction.
func (s *AdminService) UpdateEmployeeField(ctx context.Context, actor Actor, cmd UpdateFieldCommand) error {
	if !actor.isAdmin() {
		return ErrUnauthorized
	}

	field, ok := cnst.ParseAdminField(cmd.Field)
	if !ok {
		return invalid("field", "must be one of role, blocked, password")
	}

	var (
		role    cnst.Role
		blocked bool
		hash    string
		err     error
	)
	switch field {
	case cnst.FieldRole:
		role, err = parseRoleValue(cmd.Value)
	case cnst.FieldBlocked:
		blocked, err = parseBoolValue(cmd.Value)
	case cnst.FieldPassword:
		hash, err = hashPasswordValue(cmd.Value)
	}
	if err != nil {
		return err
	}

	targetID := strings.TrimSpace(cmd.TargetID)
	if targetID == "" {
		return invalid("targetId", "is required")
	}
	target, err := s.db.GetEmployee(ctx, targetID)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return storageErr("get employee", err)
	}

	entry := &database.ActivityLog{
		AdminName: utils.FirstNonEmpty(actor.Name, cmd.AdminName, actor.EmployeeID),
		ActionDetail: fmt.Sprintf("%s updated for %s",
			strings.ToUpper(strings.TrimSpace(cmd.Field)),
			utils.FirstNonEmpty(strings.TrimSpace(cmd.TargetName), target.Name)),
		TargetID: target.EmployeeID,
		Field:    string(field),
	}

	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		var err error
		switch field {
		case cnst.FieldRole:
			err = s.db.UpdateEmployeeRole(ctx, target.EmployeeID, role)
		case cnst.FieldBlocked:
			err = s.db.UpdateEmployeeBlocked(ctx, target.EmployeeID, blocked)
		case cnst.FieldPassword:
			err = s.db.UpdateEmployeePassword(ctx, target.EmployeeID, hash)
		}
		if err != nil {
			return err
		}
		return s.db.CreateActivityLog(ctx, entry)
	})
	if err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return storageErr("update "+string(field), err)
	}

	s.metrics.AdminMutation(string(field))
	s.logger.Info("employee field updated",
		zap.String("actor", actor.EmployeeID),
		zap.String("target", target.EmployeeID),
		zap.String("field", string(field)))

	if kind, ok := eventFor(field, blocked); ok {
		publish(ctx, s.logger, s.notifier, &notifier.SessionEvent{
			Kind:       kind,
			EmployeeID: target.EmployeeID,
			Actor:      actor.EmployeeID,
		})
	}
	return nil
}

// ResetPassword is UpdateEmployeeField for the password field.
func (s *AdminService) ResetPassword(ctx context.Context, actor Actor, targetID, newPassword, adminName string) error {
	return s.UpdateEmployeeField(ctx, actor, UpdateFieldCommand{
		TargetID:  targetID,
		Field:     string(cnst.FieldPassword),
		Value:     newPassword,
		AdminName: adminName,
	})
}

// ListActivityLogs returns the latest audit entries. Admin only.
func (s *AdminService) ListActivityLogs(ctx context.Context, actor Actor) ([]ActivityLogEntry, error) {
	if !actor.isAdmin() {
		return nil, ErrUnauthorized
	}
	rows, err := s.db.ListActivityLogs(ctx, ActivityLogLimit)
	if err != nil {
		return nil, storageErr("list activity logs", err)
	}
	out := make([]ActivityLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActivityLogEntry{
			ID:           r.ID,
			AdminName:    r.AdminName,
			ActionDetail: r.ActionDetail,
			TargetID:     r.TargetID,
			Field:        r.Field,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

func eventFor(field cnst.AdminField, blocked bool) (notifier.EventKind, bool) {
	switch field {
	case cnst.FieldBlocked:
		if blocked {
			return notifier.EventAccountBlocked, true
		}
		return notifier.EventAccountUnblocked, true
	case cnst.FieldPassword:
		return notifier.EventPasswordReset, true
	}
	return "", false
}

func parseRoleValue(v any) (cnst.Role, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid("value", "role must be a string")
	}
	role, ok := cnst.ParseRole(s)
	if !ok {
		return "", invalid("value", "unknown role")
	}
	return role, nil
}

// parseBoolValue accepts a JSON bool, "true"/"false", "1"/"0" and 1/0.
func parseBoolValue(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed, nil
		}
	case float64:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	case int:
		if b == 0 || b == 1 {
			return b == 1, nil
		}
	case json.Number:
		if n, err := b.Int64(); err == nil && (n == 0 || n == 1) {
			return n == 1, nil
		}
	}
	return false, invalid("value", "blocked must be true or false")
}

func hashPasswordValue(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid("value", "password must be a string")
	}
	if err := password.Validate(s); err != nil {
		return "", invalid("value", err.Error())
	}
	hash, err := password.Hash(s)
	if err != nil {
		return "", err
	}
	return hash, nil
}
