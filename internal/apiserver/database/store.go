package database

import (
	"context"
	"fmt"
	"time"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the queries shared by every gorm driver.
type store struct {
	db *gorm.DB
}

// openStore connects and migrates. maxOpenConns <= 0 keeps the driver default.
func openStore(dialector gorm.Dialector, maxOpenConns int) (*store, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxOpenConns > 0 {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	if err := gormDB.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &store{db: gormDB}, nil
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type txKey struct{}

// Transaction runs fn in one transaction. Store calls made with the ctx
// passed to fn join it; nested calls reuse the outer transaction.
func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn is the transaction carried by ctx, else the pool
func (s *store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

func (s *store) CreateEmployee(ctx context.Context, e *Employee) error {
	return s.conn(ctx).Create(e).Error
}

func (s *store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	var e Employee
	err := s.conn(ctx).Where("employee_id = ?", employeeID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *store) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	err := s.conn(ctx).Order("name asc, employee_id asc").Find(&employees).Error
	return employees, err
}

func (s *store) DeleteEmployee(ctx context.Context, employeeID string) error {
	res := s.conn(ctx).Where("employee_id = ?", employeeID).Delete(&Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store) CountEmployeesByRole(ctx context.Context, role cnst.Role) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&Employee{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (s *store) SetSessionID(ctx context.Context, employeeID, sessionID string) error {
	return s.updateEmployee(ctx, employeeID, map[string]any{"current_session_id": sessionID})
}

func (s *store) ClearSessionID(ctx context.Context, employeeID, sessionID string) (bool, error) {
	res := s.conn(ctx).Model(&Employee{}).
		Where("employee_id = ? AND current_session_id = ?", employeeID, sessionID).
		Updates(map[string]any{"current_session_id": nil, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) UpdateEmployeeRole(ctx context.Context, employeeID string, role cnst.Role) error {
	return s.updateEmployee(ctx, employeeID, map[string]any{"role": role})
}

func (s *store) UpdateEmployeeBlocked(ctx context.Context, employeeID string, blocked bool) error {
	return s.updateEmployee(ctx, employeeID, map[string]any{"is_blocked": blocked})
}

func (s *store) UpdateEmployeePassword(ctx context.Context, employeeID, passwordHash string) error {
	return s.updateEmployee(ctx, employeeID, map[string]any{"password_hash": passwordHash})
}

// updateEmployee applies columns to one live employee. A map is used so
// false and empty values are written.
func (s *store) updateEmployee(ctx context.Context, employeeID string, columns map[string]any) error {
	columns["updated_at"] = time.Now()
	res := s.conn(ctx).Model(&Employee{}).
		Where("employee_id = ?", employeeID).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store) UpsertAttendance(ctx context.Context, a *Attendance) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
	}).Create(a).Error
}

func (s *store) ListAttendanceByDate(ctx context.Context, date string) ([]*Attendance, error) {
	var rows []*Attendance
	err := s.conn(ctx).
		Where("date = ?", date).
		Order("employee_id asc").
		Find(&rows).Error
	return rows, err
}

func (s *store) ListAttendanceByEmployee(ctx context.Context, employeeID string) ([]*Attendance, error) {
	var rows []*Attendance
	err := s.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("date desc").
		Find(&rows).Error
	return rows, err
}

func (s *store) ListAttendanceInRange(ctx context.Context, employeeID, from, to string) ([]*Attendance, error) {
	var rows []*Attendance
	err := s.conn(ctx).
		Where("employee_id = ? AND date >= ? AND date < ?", employeeID, from, to).
		Order("date asc").
		Find(&rows).Error
	return rows, err
}

func (s *store) CreateSalaryPayment(ctx context.Context, p *SalaryPayment) error {
	return s.conn(ctx).Create(p).Error
}

func (s *store) ListSalaryPayments(ctx context.Context, employeeID string) ([]*SalaryPayment, error) {
	var rows []*SalaryPayment
	err := s.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("date desc, id desc").
		Find(&rows).Error
	return rows, err
}

func (s *store) ListSalaryPaymentsInRange(ctx context.Context, employeeID, from, to string) ([]*SalaryPayment, error) {
	var rows []*SalaryPayment
	err := s.conn(ctx).
		Where("employee_id = ? AND date >= ? AND date < ?", employeeID, from, to).
		Order("date asc, id asc").
		Find(&rows).Error
	return rows, err
}

func (s *store) CreateActivityLog(ctx context.Context, l *ActivityLog) error {
	return s.conn(ctx).Create(l).Error
}

func (s *store) ListActivityLogs(ctx context.Context, limit int) ([]*ActivityLog, error) {
	var rows []*ActivityLog
	q := s.conn(ctx).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}
