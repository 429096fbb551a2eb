package service

import (
	"context"
	"strings"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/pkg/metrics"

	"go.uber.org/zap"
)

// AttendanceRecord is one employee's mark for one day.
type AttendanceRecord struct {
	EmployeeID string
	Date       string
	Status     cnst.AttendanceStatus
	MarkedBy   string
}

// AttendanceService maintains the per-day attendance ledger.
type AttendanceService struct {
	db      database.Database
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewAttendanceService(db database.Database, m *metrics.Metrics, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		db:      db,
		metrics: m,
		logger:  logger.Named("service.attendance"),
	}
}

// MarkAttendance sets the status of employeeID on date. A second mark for the
// same day replaces the first; concurrent marks resolve last write wins.
func (s *AttendanceService) MarkAttendance(ctx context.Context, actor Actor, employeeID, date, status string) error {
	if !actor.Role.IsPrivileged() {
		return ErrUnauthorized
	}

	employeeID = strings.TrimSpace(employeeID)
	verr := &ValidationError{}
	if employeeID == "" {
		verr.add("employeeId", "is required")
	}
	day, err := ParseDate(date)
	if err != nil {
		verr.add("date", "must be a date in YYYY-MM-DD form")
	}
	st, ok := cnst.ParseAttendanceStatus(status)
	if !ok {
		verr.add("status", "must be Present, Absent or Half-Day")
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	if _, err := s.db.GetEmployee(ctx, employeeID); err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return storageErr("get employee", err)
	}

	rec := &database.Attendance{
		EmployeeID: employeeID,
		Date:       day.Format(cnst.DateLayout),
		Status:     st,
		MarkedBy:   actor.EmployeeID,
	}
	if err := s.db.UpsertAttendance(ctx, rec); err != nil {
		return storageErr("upsert attendance", err)
	}

	s.metrics.AttendanceMarked(string(st))
	s.logger.Debug("attendance marked",
		zap.String("employee_id", employeeID),
		zap.String("date", rec.Date),
		zap.String("status", string(st)),
		zap.String("marked_by", actor.EmployeeID))
	return nil
}

// GetForDate lists the marks of one day. Non-privileged actors only see
// their own row.
func (s *AttendanceService) GetForDate(ctx context.Context, actor Actor, date string) ([]AttendanceRecord, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, invalid("date", "must be a date in YYYY-MM-DD form")
	}
	rows, err := s.db.ListAttendanceByDate(ctx, day.Format(cnst.DateLayout))
	if err != nil {
		return nil, storageErr("list attendance", err)
	}

	out := make([]AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		if !actor.canRead(r.EmployeeID) {
			continue
		}
		out = append(out, toAttendanceRecord(r))
	}
	return out, nil
}

// GetHistory lists every mark of employeeID, newest first.
func (s *AttendanceService) GetHistory(ctx context.Context, actor Actor, employeeID string) ([]AttendanceRecord, error) {
	if !actor.canRead(employeeID) {
		return nil, ErrUnauthorized
	}
	rows, err := s.db.ListAttendanceByEmployee(ctx, employeeID)
	if err != nil {
		return nil, storageErr("list attendance", err)
	}
	out := make([]AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, toAttendanceRecord(r))
	}
	return out, nil
}

func toAttendanceRecord(r *database.Attendance) AttendanceRecord {
	return AttendanceRecord{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		Status:     r.Status,
		MarkedBy:   r.MarkedBy,
	}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(cnst.DateLayout, strings.TrimSpace(s))
}
