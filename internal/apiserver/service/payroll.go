package service

import (
	"context"
	"strings"
	"time"

	"github.com/dharashakti/backoffice/internal/apiserver/database"
	"github.com/dharashakti/backoffice/internal/apiserver/report"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"
	"github.com/dharashakti/backoffice/pkg/metrics"
	"github.com/dharashakti/backoffice/pkg/trace"
	"github.com/dharashakti/backoffice/pkg/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultPaymentType is used when an advance is recorded without a type.
const DefaultPaymentType = "Advance"

var two = decimal.NewFromInt(2)

// Payment is one recorded salary payment.
type Payment struct {
	ID         uint
	EmployeeID string
	Amount     decimal.Decimal
	Date       string
	Type       string
	RecordedBy string
}

// Ledger is the payroll view of one employee for the current month. It is
// derived on every call and never stored.
type Ledger struct {
	EmployeeID       string
	Name             string
	Month            string
	DailyRate        decimal.Decimal
	PresentCount     int
	HalfDayCount     int
	AbsentCount      int
	EarnedSalary     decimal.Decimal
	AdvanceScope     string
	TotalAdvance     decimal.Decimal
	NetPayable       decimal.Decimal
	PaymentHistory   []Payment
	AttendanceByDate map[string]cnst.AttendanceStatus
}

// PayrollService derives ledgers and records advances.
type PayrollService struct {
	db           database.Database
	metrics      *metrics.Metrics
	logger       *zap.Logger
	advanceScope string
	loc          *time.Location
	now          func() time.Time
}

// NewPayrollService creates a PayrollService from the payroll config.
func NewPayrollService(db database.Database, cfg config.PayrollConfig, m *metrics.Metrics, logger *zap.Logger) (*PayrollService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	scope := cfg.AdvanceScope
	if scope == "" {
		scope = config.AdvanceScopeLifetime
	}
	return &PayrollService{
		db:           db,
		metrics:      m,
		logger:       logger.Named("service.payroll"),
		advanceScope: scope,
		loc:          loc,
		now:          time.Now,
	}, nil
}

// Today is the current date in the payroll time zone.
func (s *PayrollService) Today() string {
	return s.now().In(s.loc).Format(cnst.DateLayout)
}

// monthWindow returns [first day of this month, first day of next month).
func (s *PayrollService) monthWindow() (month, from, to string) {
	t := s.now().In(s.loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.loc)
	next := start.AddDate(0, 1, 0)
	return start.Format("2006-01"), start.Format(cnst.DateLayout), next.Format(cnst.DateLayout)
}

// ComputeLedger derives the current month's ledger of employeeID.
func (s *PayrollService) ComputeLedger(ctx context.Context, actor Actor, employeeID string) (ledger *Ledger, err error) {
	if !actor.canRead(employeeID) {
		return nil, ErrUnauthorized
	}
	span := trace.Tracer("service.payroll").Start(ctx, "PayrollService.ComputeLedger").
		WithAttrs(attribute.String("employee.id", employeeID))
	ctx = span.Ctx
	defer func() {
		span.Fail(err)
		span.End()
	}()

	emp, err := s.db.GetEmployee(ctx, employeeID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get employee", err)
	}

	month, from, to := s.monthWindow()
	marks, err := s.db.ListAttendanceInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, storageErr("list attendance", err)
	}
	payments, err := s.db.ListSalaryPayments(ctx, employeeID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}

	ledger = &Ledger{
		EmployeeID:       emp.EmployeeID,
		Name:             emp.Name,
		Month:            month,
		DailyRate:        emp.SalaryPerDay,
		AdvanceScope:     s.advanceScope,
		TotalAdvance:     decimal.Zero,
		PaymentHistory:   make([]Payment, 0, len(payments)),
		AttendanceByDate: make(map[string]cnst.AttendanceStatus, len(marks)),
	}
	for _, m := range marks {
		ledger.AttendanceByDate[m.Date] = m.Status
		switch m.Status {
		case cnst.StatusPresent:
			ledger.PresentCount++
		case cnst.StatusHalfDay:
			ledger.HalfDayCount++
		case cnst.StatusAbsent:
			ledger.AbsentCount++
		}
	}
	ledger.EarnedSalary = Earned(emp.SalaryPerDay, ledger.PresentCount, ledger.HalfDayCount)

	for _, p := range payments {
		ledger.PaymentHistory = append(ledger.PaymentHistory, toPayment(p))
		if s.advanceScope == config.AdvanceScopeMonth && (p.Date < from || p.Date >= to) {
			continue
		}
		ledger.TotalAdvance = ledger.TotalAdvance.Add(p.Amount)
	}
	ledger.NetPayable = ledger.EarnedSalary.Sub(ledger.TotalAdvance)
	return ledger, nil
}

// Earned is present*rate + halfDays*rate/2 rounded half away from zero to a
// whole currency unit.
func Earned(rate decimal.Decimal, present, halfDays int) decimal.Decimal {
	full := rate.Mul(decimal.NewFromInt(int64(present)))
	half := rate.Div(two).Mul(decimal.NewFromInt(int64(halfDays)))
	return full.Add(half).Round(0)
}

// RecordAdvance appends a payment dated today. A nil amount is a validation
// error, as is a negative one.
func (s *PayrollService) RecordAdvance(ctx context.Context, actor Actor, employeeID string, amount *decimal.Decimal, paymentType string) error {
	if !actor.Role.In(cnst.PaymentRoles...) {
		return ErrUnauthorized
	}

	employeeID = strings.TrimSpace(employeeID)
	verr := &ValidationError{}
	if employeeID == "" {
		verr.add("employeeId", "is required")
	}
	switch {
	case amount == nil:
		verr.add("amount", "is required")
	case amount.IsNegative():
		verr.add("amount", "must not be negative")
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

	p := &database.SalaryPayment{
		EmployeeID: employeeID,
		Amount:     amount.Round(2),
		Date:       s.Today(),
		Type:       utils.FirstNonEmpty(strings.TrimSpace(paymentType), DefaultPaymentType),
		RecordedBy: actor.EmployeeID,
	}
	if err := s.db.CreateSalaryPayment(ctx, p); err != nil {
		return storageErr("create payment", err)
	}

	s.metrics.AdvanceRecorded()
	s.logger.Info("salary payment recorded",
		zap.String("employee_id", employeeID),
		zap.String("amount", p.Amount.StringFixed(2)),
		zap.String("type", p.Type),
		zap.String("recorded_by", actor.EmployeeID))
	return nil
}

// PaymentHistory lists every payment of employeeID, newest first.
func (s *PayrollService) PaymentHistory(ctx context.Context, actor Actor, employeeID string) ([]Payment, error) {
	if !actor.canRead(employeeID) {
		return nil, ErrUnauthorized
	}
	rows, err := s.db.ListSalaryPayments(ctx, employeeID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	out := make([]Payment, 0, len(rows))
	for _, p := range rows {
		out = append(out, toPayment(p))
	}
	return out, nil
}

// ExportLedger renders the current ledger as an XLSX workbook.
func (s *PayrollService) ExportLedger(ctx context.Context, actor Actor, employeeID string) ([]byte, error) {
	l, err := s.ComputeLedger(ctx, actor, employeeID)
	if err != nil {
		return nil, err
	}

	r := &report.Ledger{
		EmployeeID:   l.EmployeeID,
		Name:         l.Name,
		Month:        l.Month,
		DailyRate:    l.DailyRate,
		PresentCount: l.PresentCount,
		HalfDayCount: l.HalfDayCount,
		AbsentCount:  l.AbsentCount,
		EarnedSalary: l.EarnedSalary,
		AdvanceScope: l.AdvanceScope,
		TotalAdvance: l.TotalAdvance,
		NetPayable:   l.NetPayable,
	}
	for _, date := range sortedKeys(l.AttendanceByDate) {
		r.Attendance = append(r.Attendance, report.Day{Date: date, Status: string(l.AttendanceByDate[date])})
	}
	for _, p := range l.PaymentHistory {
		r.Payments = append(r.Payments, report.Payment{Date: p.Date, Type: p.Type, Amount: p.Amount})
	}
	return report.RenderLedger(r)
}

func toPayment(p *database.SalaryPayment) Payment {
	return Payment{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Amount:     p.Amount,
		Date:       p.Date,
		Type:       p.Type,
		RecordedBy: p.RecordedBy,
	}
}
