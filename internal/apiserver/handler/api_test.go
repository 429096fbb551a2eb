package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/handler"
	"github.com/dharashakti/backoffice/internal/apiserver/notifier"
	"github.com/dharashakti/backoffice/internal/apiserver/router"
	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/auth/password"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiEnv struct {
	db     database.Database
	engine *gin.Engine
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.APIServerConfig{
		Database: config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"},
		JWT:      config.JWTConfig{SecretKey: "api-test-secret-key-that-is-long-enough", Duration: time.Hour},
		Payroll:  config.PayrollConfig{TimeZone: "UTC"},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "backoffice"},
	}

	db, err := database.NewDatabase(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := jwt.NewService(jwt.Config{SecretKey: cfg.JWT.SecretKey, Duration: cfg.JWT.Duration})
	require.NoError(t, err)

	logger := zap.NewNop()
	m := metrics.New(cfg.Metrics)
	n := notifier.NewMemoryNotifier(logger, config.RoleBoth)
	payroll, err := service.NewPayrollService(db, cfg.Payroll, m, logger)
	require.NoError(t, err)
	auth := service.NewAuthService(db, tokens, n, m, logger)

	h := handler.NewHandler(handler.Services{
		Auth:       auth,
		Employees:  service.NewEmployeeService(db, cfg.Registration, logger),
		Attendance: service.NewAttendanceService(db, m, logger),
		Payroll:    payroll,
		Admin:      service.NewAdminService(db, n, m, logger),
	}, cfg.Attendance, logger)

	engine := router.New(router.Deps{
		Config:  cfg,
		Handler: h,
		JWT:     tokens,
		Auth:    auth,
		Metrics: m,
		Logger:  logger,
	})
	return &apiEnv{db: db, engine: engine}
}

func (e *apiEnv) seed(t *testing.T, id, name string, role cnst.Role, plain string, rate int64) {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	require.NoError(t, e.db.CreateEmployee(context.Background(), &database.Employee{
		EmployeeID:   id,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		SalaryPerDay: decimal.NewFromInt(rate),
	}))
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type loginBody struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	User         map[string]any `json:"user"`
	SessionToken string         `json:"sessionToken"`
	Token        string         `json:"token"`
}

func (e *apiEnv) login(t *testing.T, id, plain string) loginBody {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/login", "", gin.H{"identifier": id, "credential": plain})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestLogin_SingleActiveSession(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000001", "Asha", cnst.RoleWorker, "secret1", 500)

	first := env.login(t, "10000001", "secret1")
	assert.True(t, first.Success)
	assert.Equal(t, "Asha", first.User["name"])
	assert.NotContains(t, first.User, "passwordHash")
	assert.Len(t, first.SessionToken, 64)

	// the older field names still work
	w := env.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "10000001", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var second loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.NotEqual(t, first.SessionToken, second.SessionToken)

	w = env.do(t, http.MethodGet, "/api/employees/10000001", first.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2003", errorCode(t, w))

	w = env.do(t, http.MethodGet, "/api/employees/10000001", second.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the evicted token still passes the signature check and sees the newer session
	w = env.do(t, http.MethodGet, "/api/users/session-check/10000001", first.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		ActiveSessionID *string `json:"activeSessionId"`
		IsBlocked       bool    `json:"isBlocked"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.NotNil(t, status.ActiveSessionID)
	assert.Equal(t, second.SessionToken, *status.ActiveSessionID)
	assert.False(t, status.IsBlocked)

	// logging out the evicted session leaves the newer one alone
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/logout", first.Token, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/employees/10000001", second.Token, nil).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/logout", second.Token, nil).Code)
	w = env.do(t, http.MethodGet, "/api/users/session-check/10000001", second.Token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Nil(t, status.ActiveSessionID)
}

func TestLogin_Failures(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000002", "Ravi", cnst.RoleWorker, "secret1", 500)

	w := env.do(t, http.MethodPost, "/api/login", "", gin.H{"identifier": "10000002", "credential": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2001", errorCode(t, w))

	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"identifier": "99999999", "credential": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "E1001", errorCode(t, rec))
}

func TestBlockedEmployee(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000003", "Chief", cnst.RoleAdmin, "secret1", 0)
	env.seed(t, "10000004", "Kiran", cnst.RoleWorker, "secret1", 500)

	admin := env.login(t, "10000003", "secret1")
	worker := env.login(t, "10000004", "secret1")

	w := env.do(t, http.MethodPut, "/api/admin/update-system", admin.Token, gin.H{
		"targetId": "10000004", "field": "isBlocked", "value": true, "adminName": "Chief",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/employees/10000004", worker.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "E3001", errorCode(t, w))

	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"identifier": "10000004", "credential": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "E3001", errorCode(t, w))

	// a wrong password never reveals the block
	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"identifier": "10000004", "credential": "nope!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/logs", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "Chief", logs[0]["admin_name"])
	assert.Equal(t, "10000004", logs[0]["target_id"])
}

func TestSessionCheck_DemotedAdmin(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000001", "Anil", cnst.RoleAdmin, "secret1", 0)
	env.seed(t, "10000009", "Chief", cnst.RoleAdmin, "secret1", 0)
	env.seed(t, "20000002", "Ravi", cnst.RoleWorker, "secret1", 500)

	former := env.login(t, "10000001", "secret1")
	chief := env.login(t, "10000009", "secret1")
	env.login(t, "20000002", "secret1")

	w := env.do(t, http.MethodGet, "/api/users/session-check/20000002", former.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, change := range []gin.H{
		{"targetId": "10000001", "field": "role", "value": "Worker"},
		{"targetId": "10000001", "field": "blocked", "value": true},
	} {
		w = env.do(t, http.MethodPut, "/api/admin/update-system", chief.Token, change)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/users/session-check/20000002", former.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "activeSessionId")

	// the demoted token can still learn its own state
	w = env.do(t, http.MethodGet, "/api/users/session-check/10000001", former.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isBlocked":true`)
}

func TestPasswordTooLong(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000005", "Chief", cnst.RoleAdmin, "secret1", 0)
	env.seed(t, "10000006", "Kiran", cnst.RoleWorker, "secret1", 500)
	admin := env.login(t, "10000005", "secret1")
	long := strings.Repeat("p", 80)

	w := env.do(t, http.MethodPut, "/api/admin/reset-password", admin.Token, gin.H{"empId": "10000006", "newPass": long})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "E1002", errorCode(t, w))

	w = env.do(t, http.MethodPost, "/api/employees/register", admin.Token, gin.H{
		"name": "Suresh", "designation": "Driver", "password": long,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "E1002", errorCode(t, w))

	env.login(t, "10000006", "secret1")
}

func TestAdminMutations_Rejected(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000005", "Chief", cnst.RoleAdmin, "secret1", 0)
	env.seed(t, "10000006", "Kiran", cnst.RoleWorker, "secret1", 500)
	admin := env.login(t, "10000005", "secret1")
	worker := env.login(t, "10000006", "secret1")

	w := env.do(t, http.MethodPut, "/api/admin/update-system", worker.Token, gin.H{
		"targetId": "10000005", "field": "role", "value": "Worker",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "E3002", errorCode(t, w))

	w = env.do(t, http.MethodPut, "/api/admin/update-system", admin.Token, gin.H{
		"empId": "10000006", "field": "password_hash", "value": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "E1002", errorCode(t, w))

	w = env.do(t, http.MethodPut, "/api/admin/reset-password", admin.Token, gin.H{
		"empId": "00000000", "newPass": "fresh-pass",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, "/api/admin/reset-password", admin.Token, gin.H{
		"empId": "10000006", "newPass": "fresh-pass", "adminName": "Chief",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	env.login(t, "10000006", "fresh-pass")

	w = env.do(t, http.MethodGet, "/api/logs", worker.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "worker session was replaced by the login above")
}

func TestAttendanceAndPayroll(t *testing.T) {
	env := newAPIEnv(t)
	env.seed(t, "10000007", "Mgr", cnst.RoleManager, "secret1", 0)
	env.seed(t, "10000008", "Acct", cnst.RoleAccountant, "secret1", 0)
	env.seed(t, "10000009", "Kiran", cnst.RoleWorker, "secret1", 500)
	mgr := env.login(t, "10000007", "secret1")
	acct := env.login(t, "10000008", "secret1")
	worker := env.login(t, "10000009", "secret1")

	today := time.Now().UTC().Format(cnst.DateLayout)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(cnst.DateLayout)

	w := env.do(t, http.MethodPost, "/api/attendance", worker.Token, gin.H{"employeeId": "10000009", "date": today, "status": "Present"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/attendance", mgr.Token, gin.H{"employee_id": "10000009", "date": today})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "E1002", errorCode(t, w))

	w = env.do(t, http.MethodPost, "/api/attendance", mgr.Token, gin.H{"employeeId": "10000009", "date": tomorrow, "status": "Present"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "E1003", errorCode(t, w))

	for _, status := range []string{"Present", "Absent", "Present"} {
		w = env.do(t, http.MethodPost, "/api/attendance", mgr.Token, gin.H{"employeeId": "10000009", "date": today, "status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/attendance/"+today, mgr.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	require.Len(t, day, 1)
	assert.Equal(t, "Present", day[0]["status"])

	w = env.do(t, http.MethodGet, "/api/attendance/history/10000009", worker.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/salary/advance", mgr.Token, gin.H{"employeeId": "10000009", "amount": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/salary/advance", acct.Token, gin.H{"employeeId": "10000009", "amount": "200.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/salary/payments/10000009", worker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, 200.5, payments[0]["amount"])
	assert.Equal(t, "Advance", payments[0]["type"])

	w = env.do(t, http.MethodGet, "/api/salary/ledger/10000009", worker.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger struct {
		PresentCount int               `json:"presentCount"`
		EarnedSalary float64           `json:"earnedSalary"`
		TotalAdvance float64           `json:"totalAdvance"`
		NetPayable   float64           `json:"netPayable"`
		ByDate       map[string]string `json:"attendanceByDate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ledger))
	assert.Equal(t, 1, ledger.PresentCount)
	assert.Equal(t, 500.0, ledger.EarnedSalary)
	assert.Equal(t, 200.5, ledger.TotalAdvance)
	assert.Equal(t, 299.5, ledger.NetPayable)
	assert.Equal(t, "Present", ledger.ByDate[today])

	w = env.do(t, http.MethodGet, "/api/salary/ledger/10000007", worker.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/salary/ledger/10000009/export", mgr.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="ledger-10000009-`)
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func TestEmployeeRegistration(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/api/register-admin", "", gin.H{"name": "Owner", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Success    bool   `json:"success"`
		EmployeeID string `json:"employeeId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Len(t, created.EmployeeID, 8)

	w = env.do(t, http.MethodPost, "/api/register-admin", "", gin.H{"name": "Intruder", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := env.login(t, created.EmployeeID, "secret1")
	w = env.do(t, http.MethodPost, "/api/employees/register", admin.Token, gin.H{
		"name": "Suresh", "designation": "Driver", "password": "drive1", "salary": 450,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodPost, "/api/employees/register", admin.Token, gin.H{"name": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/employees", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = env.do(t, http.MethodDelete, "/api/employees/"+created.EmployeeID, admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/employees/"+created.EmployeeID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAmbientRoutes(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = env.do(t, http.MethodGet, "/api/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2002", errorCode(t, w))

	w = env.do(t, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "backoffice_http_requests_total")

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"identifier":"1","credential":"2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Lang", "hi")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "कर्मचारी आईडी या पासवर्ड गलत है")
}
