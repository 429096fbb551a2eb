package database

import (
	"context"
	"errors"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"gorm.io/gorm"
)

// Database defines the persistence operations of the back office.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn with a context carrying one transaction. Every
	// method called with that context joins it.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateEmployee(ctx context.Context, e *Employee) error
	// GetEmployee returns gorm.ErrRecordNotFound for unknown or deleted ids.
	GetEmployee(ctx context.Context, employeeID string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	// DeleteEmployee soft deletes the employee. History rows are kept.
	DeleteEmployee(ctx context.Context, employeeID string) error
	CountEmployeesByRole(ctx context.Context, role cnst.Role) (int64, error)

	// SetSessionID makes sessionID the only live session of the employee.
	SetSessionID(ctx context.Context, employeeID, sessionID string) error
	// ClearSessionID ends the session only if it is still the live one and
	// reports whether it did.
	ClearSessionID(ctx context.Context, employeeID, sessionID string) (bool, error)

	UpdateEmployeeRole(ctx context.Context, employeeID string, role cnst.Role) error
	UpdateEmployeeBlocked(ctx context.Context, employeeID string, blocked bool) error
	UpdateEmployeePassword(ctx context.Context, employeeID, passwordHash string) error

	// UpsertAttendance inserts the mark or replaces the status of the
	// existing (employee, date) row in one statement.
	UpsertAttendance(ctx context.Context, a *Attendance) error
	ListAttendanceByDate(ctx context.Context, date string) ([]*Attendance, error)
	// ListAttendanceByEmployee returns the history newest first.
	ListAttendanceByEmployee(ctx context.Context, employeeID string) ([]*Attendance, error)
	// ListAttendanceInRange returns marks with from <= date < to.
	ListAttendanceInRange(ctx context.Context, employeeID, from, to string) ([]*Attendance, error)

	CreateSalaryPayment(ctx context.Context, p *SalaryPayment) error
	// ListSalaryPayments returns payments newest first.
	ListSalaryPayments(ctx context.Context, employeeID string) ([]*SalaryPayment, error)
	// ListSalaryPaymentsInRange returns payments with from <= date < to,
	// oldest first.
	ListSalaryPaymentsInRange(ctx context.Context, employeeID, from, to string) ([]*SalaryPayment, error)

	CreateActivityLog(ctx context.Context, l *ActivityLog) error
	// ListActivityLogs returns the latest entries first.
	ListActivityLogs(ctx context.Context, limit int) ([]*ActivityLog, error)
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
