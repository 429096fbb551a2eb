package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/auth/password"
	"github.com/dharashakti/backoffice/internal/auth/session"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/internal/common/dto"
	"github.com/dharashakti/backoffice/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const idAttempts = 5

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// EmployeeService registers, lists and removes employees.
type EmployeeService struct {
	db     database.Database
	cfg    config.RegistrationConfig
	logger *zap.Logger
	newID  func() (string, error)
}

func NewEmployeeService(db database.Database, cfg config.RegistrationConfig, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		db:     db,
		cfg:    cfg,
		logger: logger.Named("service.employee"),
		newID:  session.NewEmployeeID,
	}
}

// RegisterAdmin is the public "become admin" path. It is open only until the
// first Admin exists unless registration.allow_admin_signup is set.
func (s *EmployeeService) RegisterAdmin(ctx context.Context, req *dto.RegisterAdminRequest) (string, error) {
	if !s.cfg.AllowAdminSignup {
		n, err := s.db.CountEmployeesByRole(ctx, cnst.RoleAdmin)
		if err != nil {
			return "", storageErr("count admins", err)
		}
		if n > 0 {
			return "", ErrUnauthorized
		}
	}
	if err := validateStruct(req); err != nil {
		return "", err
	}
	if err := password.Validate(req.Password); err != nil {
		return "", invalid("password", err.Error())
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return "", err
	}
	emp := &database.Employee{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        req.Phone,
		Aadhar:       req.Aadhar,
		Photo:        req.Photo,
		Designation:  string(cnst.RoleAdmin),
		Role:         cnst.RoleAdmin,
		PasswordHash: hash,
		SalaryPerDay: decimal.Zero,
	}
	if err := s.create(ctx, emp); err != nil {
		return "", err
	}
	s.logger.Info("admin registered", zap.String("employee_id", emp.EmployeeID))
	return emp.EmployeeID, nil
}

// Register creates an employee on behalf of an Admin or Manager. The role
// follows the designation unless an Admin names one explicitly; only an
// Admin may create another Admin.
func (s *EmployeeService) Register(ctx context.Context, actor Actor, req *dto.RegisterEmployeeRequest) (string, error) {
	if !actor.Role.In(cnst.RegistrarRoles...) {
		return "", ErrUnauthorized
	}
	verr := &ValidationError{}
	if err := validateStruct(req); err != nil {
		if !errors.As(err, &verr) {
			return "", err
		}
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		verr.add("salary", "must not be negative")
	}
	if _, failed := verr.FieldErrors["password"]; !failed {
		if err := password.Validate(req.Password); err != nil {
			verr.add("password", err.Error())
		}
	}

	role := roleForDesignation(req.Designation)
	if strings.TrimSpace(req.Role) != "" && actor.isAdmin() {
		parsed, ok := cnst.ParseRole(req.Role)
		if !ok {
			verr.add("role", "unknown role")
		}
		role = parsed
	}
	if err := verr.orNil(); err != nil {
		return "", err
	}
	if role == cnst.RoleAdmin && !actor.isAdmin() {
		return "", ErrUnauthorized
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return "", err
	}
	salary := decimal.Zero
	if req.Salary != nil {
		salary = req.Salary.Round(2)
	}
	emp := &database.Employee{
		Name:           strings.TrimSpace(req.Name),
		FatherName:     req.FatherName,
		Email:          req.Email,
		Phone:          req.Phone,
		EmergencyPhone: req.EmergencyPhone,
		Aadhar:         req.Aadhar,
		Address:        req.Address,
		Designation:    utils.FirstNonEmpty(strings.TrimSpace(req.Designation), string(role)),
		Role:           role,
		PasswordHash:   hash,
		SalaryPerDay:   salary,
		JoiningDate:    req.JoiningDate,
		BankName:       req.BankName,
		AccountNo:      req.AccountNo,
		IFSCCode:       req.IFSCCode,
		Photo:          req.Photo,
	}
	if err := s.create(ctx, emp); err != nil {
		return "", err
	}
	s.logger.Info("employee registered",
		zap.String("employee_id", emp.EmployeeID),
		zap.String("role", string(role)),
		zap.String("registered_by", actor.EmployeeID))
	return emp.EmployeeID, nil
}

// List returns every live employee. Privileged roles only.
func (s *EmployeeService) List(ctx context.Context, actor Actor) ([]*database.Employee, error) {
	if !actor.Role.IsPrivileged() {
		return nil, ErrUnauthorized
	}
	emps, err := s.db.ListEmployees(ctx)
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	return emps, nil
}

// Get returns one employee to themself or a privileged actor.
func (s *EmployeeService) Get(ctx context.Context, actor Actor, employeeID string) (*database.Employee, error) {
	if !actor.canRead(employeeID) {
		return nil, ErrUnauthorized
	}
	emp, err := s.db.GetEmployee(ctx, employeeID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get employee", err)
	}
	return emp, nil
}

// Delete soft deletes an employee. Attendance and payment rows are kept.
func (s *EmployeeService) Delete(ctx context.Context, actor Actor, employeeID string) error {
	if !actor.isAdmin() {
		return ErrUnauthorized
	}
	if employeeID == actor.EmployeeID {
		return invalid("employeeId", "cannot delete your own account")
	}
	if err := s.db.DeleteEmployee(ctx, employeeID); err != nil {
		if database.IsNotFound(err) {
			return ErrNotFound
		}
		return storageErr("delete employee", err)
	}
	s.logger.Info("employee deleted",
		zap.String("employee_id", employeeID),
		zap.String("deleted_by", actor.EmployeeID))
	return nil
}

// EnsureSuperAdmin creates the configured Admin when no Admin exists yet.
func (s *EmployeeService) EnsureSuperAdmin(ctx context.Context, cfg config.SuperAdminConfig) (bool, error) {
	if cfg.Password == "" {
		return false, nil
	}
	n, err := s.db.CountEmployeesByRole(ctx, cnst.RoleAdmin)
	if err != nil {
		return false, storageErr("count admins", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := password.Validate(cfg.Password); err != nil {
		return false, invalid("super_admin.password", err.Error())
	}
	hash, err := password.Hash(cfg.Password)
	if err != nil {
		return false, err
	}
	emp := &database.Employee{
		EmployeeID:   strings.TrimSpace(cfg.EmployeeID),
		Name:         utils.FirstNonEmpty(cfg.Name, "Super Admin"),
		Designation:  string(cnst.RoleAdmin),
		Role:         cnst.RoleAdmin,
		PasswordHash: hash,
		SalaryPerDay: decimal.Zero,
	}
	if err := s.create(ctx, emp); err != nil {
		return false, err
	}
	s.logger.Info("super admin seeded", zap.String("employee_id", emp.EmployeeID))
	return true, nil
}

// create assigns a fresh identifier unless one is set and inserts emp.
func (s *EmployeeService) create(ctx context.Context, emp *database.Employee) error {
	if emp.EmployeeID == "" {
		id, err := s.freeID(ctx)
		if err != nil {
			return err
		}
		emp.EmployeeID = id
	}
	if err := s.db.CreateEmployee(ctx, emp); err != nil {
		return storageErr("create employee", err)
	}
	return nil
}

func (s *EmployeeService) freeID(ctx context.Context) (string, error) {
	for i := 0; i < idAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		_, err = s.db.GetEmployee(ctx, id)
		if database.IsNotFound(err) {
			return id, nil
		}
		if err != nil {
			return "", storageErr("get employee", err)
		}
	}
	return "", errors.New("could not allocate a free employee id")
}

func roleForDesignation(designation string) cnst.Role {
	if r, ok := cnst.ParseRole(designation); ok && r.In(cnst.RoleAdmin, cnst.RoleManager) {
		return r
	}
	return cnst.RoleWorker
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be an email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	default:
		return "is invalid"
	}
}
