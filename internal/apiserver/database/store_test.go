package database

import (
	"context"
	"errors"
	"testing"

	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	dbi, err := NewSQLite(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbi.Close() })
	return dbi.(*SQLite)
}

func seedEmployee(t *testing.T, db Database, id string, role cnst.Role) *Employee {
	t.Helper()
	e := &Employee{
		EmployeeID:   id,
		Name:         "Emp " + id,
		Role:         role,
		PasswordHash: "hash",
		SalaryPerDay: decimal.RequireFromString("500"),
	}
	require.NoError(t, db.CreateEmployee(context.Background(), e))
	return e
}

func TestSQLite_Employees(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	seedEmployee(t, db, "10000001", cnst.RoleAdmin)
	seedEmployee(t, db, "10000002", cnst.RoleWorker)

	got, err := db.GetEmployee(ctx, "10000002")
	require.NoError(t, err)
	assert.Equal(t, "Emp 10000002", got.Name)
	assert.True(t, got.SalaryPerDay.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, got.CurrentSessionID)

	_, err = db.GetEmployee(ctx, "99999999")
	assert.True(t, IsNotFound(err))

	all, err := db.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := db.CountEmployeesByRole(ctx, cnst.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// duplicate employee id
	dup := &Employee{EmployeeID: "10000001", Name: "x", PasswordHash: "h"}
	assert.Error(t, db.CreateEmployee(ctx, dup))

	require.NoError(t, db.DeleteEmployee(ctx, "10000002"))
	_, err = db.GetEmployee(ctx, "10000002")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(db.DeleteEmployee(ctx, "10000002")))

	all, err = db.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// a deleted id can be issued again
	seedEmployee(t, db, "10000002", cnst.RoleWorker)
	got, err = db.GetEmployee(ctx, "10000002")
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleWorker, got.Role)
}

func TestSQLite_SessionRegistry(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	seedEmployee(t, db, "20000001", cnst.RoleWorker)

	require.NoError(t, db.SetSessionID(ctx, "20000001", "s1"))
	e, err := db.GetEmployee(ctx, "20000001")
	require.NoError(t, err)
	require.NotNil(t, e.CurrentSessionID)
	assert.Equal(t, "s1", *e.CurrentSessionID)

	// a newer login replaces the live session
	require.NoError(t, db.SetSessionID(ctx, "20000001", "s2"))

	// the stale session cannot clear the new one
	cleared, err := db.ClearSessionID(ctx, "20000001", "s1")
	require.NoError(t, err)
	assert.False(t, cleared)

	cleared, err = db.ClearSessionID(ctx, "20000001", "s2")
	require.NoError(t, err)
	assert.True(t, cleared)

	e, err = db.GetEmployee(ctx, "20000001")
	require.NoError(t, err)
	assert.Nil(t, e.CurrentSessionID)

	assert.True(t, IsNotFound(db.SetSessionID(ctx, "missing", "s3")))
}

func TestSQLite_FieldUpdates(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	seedEmployee(t, db, "30000001", cnst.RoleWorker)

	require.NoError(t, db.UpdateEmployeeRole(ctx, "30000001", cnst.RoleManager))
	require.NoError(t, db.UpdateEmployeeBlocked(ctx, "30000001", true))
	require.NoError(t, db.UpdateEmployeePassword(ctx, "30000001", "newhash"))

	e, err := db.GetEmployee(ctx, "30000001")
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleManager, e.Role)
	assert.True(t, e.IsBlocked)
	assert.Equal(t, "newhash", e.PasswordHash)

	// false must be written, not skipped as a zero value
	require.NoError(t, db.UpdateEmployeeBlocked(ctx, "30000001", false))
	e, err = db.GetEmployee(ctx, "30000001")
	require.NoError(t, err)
	assert.False(t, e.IsBlocked)

	assert.True(t, IsNotFound(db.UpdateEmployeeRole(ctx, "nope", cnst.RoleAdmin)))
}

func TestSQLite_UpsertAttendance(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertAttendance(ctx, &Attendance{
		EmployeeID: "40000001", Date: "2024-03-05", Status: cnst.StatusPresent, MarkedBy: "m1",
	}))
	require.NoError(t, db.UpsertAttendance(ctx, &Attendance{
		EmployeeID: "40000001", Date: "2024-03-05", Status: cnst.StatusAbsent, MarkedBy: "m2",
	}))
	require.NoError(t, db.UpsertAttendance(ctx, &Attendance{
		EmployeeID: "40000001", Date: "2024-03-06", Status: cnst.StatusHalfDay, MarkedBy: "m1",
	}))
	require.NoError(t, db.UpsertAttendance(ctx, &Attendance{
		EmployeeID: "40000002", Date: "2024-03-05", Status: cnst.StatusPresent, MarkedBy: "m1",
	}))

	day, err := db.ListAttendanceByDate(ctx, "2024-03-05")
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "40000001", day[0].EmployeeID)
	assert.Equal(t, cnst.StatusAbsent, day[0].Status)
	assert.Equal(t, "m2", day[0].MarkedBy)

	hist, err := db.ListAttendanceByEmployee(ctx, "40000001")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2024-03-06", hist[0].Date)

	rng, err := db.ListAttendanceInRange(ctx, "40000001", "2024-03-06", "2024-04-01")
	require.NoError(t, err)
	require.Len(t, rng, 1)
	assert.Equal(t, cnst.StatusHalfDay, rng[0].Status)
}

func TestSQLite_SalaryPayments(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, db.CreateSalaryPayment(ctx, &SalaryPayment{
		EmployeeID: "50000001", Amount: decimal.RequireFromString("1000"), Date: "2024-03-01", Type: "Advance",
	}))
	require.NoError(t, db.CreateSalaryPayment(ctx, &SalaryPayment{
		EmployeeID: "50000001", Amount: decimal.RequireFromString("250.50"), Date: "2024-03-10", Type: "Advance",
	}))

	rows, err := db.ListSalaryPayments(ctx, "50000001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-10", rows[0].Date)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("250.5")))

	rows, err = db.ListSalaryPaymentsInRange(ctx, "50000001", "2024-03-05", "2024-04-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-10", rows[0].Date)

	rows, err = db.ListSalaryPayments(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSQLite_TransactionRollback(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	seedEmployee(t, db, "60000001", cnst.RoleWorker)

	boom := errors.New("boom")
	err := db.Transaction(ctx, func(ctx context.Context) error {
		if err := db.UpdateEmployeeBlocked(ctx, "60000001", true); err != nil {
			return err
		}
		if err := db.CreateActivityLog(ctx, &ActivityLog{AdminName: "a", ActionDetail: "ISBLOCKED updated for x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	e, err := db.GetEmployee(ctx, "60000001")
	require.NoError(t, err)
	assert.False(t, e.IsBlocked)
	logs, err := db.ListActivityLogs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	require.NoError(t, db.Transaction(ctx, func(ctx context.Context) error {
		if err := db.UpdateEmployeeBlocked(ctx, "60000001", true); err != nil {
			return err
		}
		return db.CreateActivityLog(ctx, &ActivityLog{AdminName: "a", ActionDetail: "ISBLOCKED updated for x"})
	}))
	logs, err = db.ListActivityLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSQLite_ActivityLogLimit(t *testing.T) {
	db := newTestSQLite(t)
	ctx := context.Background()
	for _, d := range []string{"first", "second", "third"} {
		require.NoError(t, db.CreateActivityLog(ctx, &ActivityLog{AdminName: "a", ActionDetail: d}))
	}
	logs, err := db.ListActivityLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "third", logs[0].ActionDetail)
}

func TestNewDatabase_Factory(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Type: "unknown"})
	assert.Error(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	assert.NotNil(t, db)
	_ = db.Close()

	_, err = NewDatabase(&config.DatabaseConfig{Type: "mysql", Host: "127.0.0.1", Port: 1, User: "u", Password: "p", DBName: "d"})
	assert.Error(t, err)
}
