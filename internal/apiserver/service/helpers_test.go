package service

import (
	"context"
	"testing"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/auth/password"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

type testEnv struct {
	db       database.Database
	tokens   *jwt.Service
	notifier *notifier.MemoryNotifier
	auth     *AuthService
	att      *AttendanceService
	payroll  *PayrollService
	admin    *AdminService
	emp      *EmployeeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	logger := zap.NewNop()
	n := notifier.NewMemoryNotifier(logger, config.RoleBoth)
	payroll, err := NewPayrollService(db, config.PayrollConfig{TimeZone: "UTC"}, nil, logger)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		tokens:   tokens,
		notifier: n,
		auth:     NewAuthService(db, tokens, n, nil, logger),
		att:      NewAttendanceService(db, nil, logger),
		payroll:  payroll,
		admin:    NewAdminService(db, n, nil, logger),
		emp:      NewEmployeeService(db, config.RegistrationConfig{}, logger),
	}
}

func (e *testEnv) seed(t *testing.T, id, name string, role cnst.Role, plain string, rate int64) *database.Employee {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	emp := &database.Employee{
		EmployeeID:   id,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		SalaryPerDay: decimal.NewFromInt(rate),
	}
	require.NoError(t, e.db.CreateEmployee(context.Background(), emp))
	return emp
}

func actorOf(emp *database.Employee) Actor {
	return Actor{EmployeeID: emp.EmployeeID, Name: emp.Name, Role: emp.Role}
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
