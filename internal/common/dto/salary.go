package dto

import (
	"github.com/dharashakti/backoffice/pkg/utils"

	"github.com/shopspring/decimal"
)

// AdvanceRequest records a salary payment. Amount accepts a JSON number or a
// numeric string.
type AdvanceRequest struct {
	EmployeeID      string           `json:"employeeId"`
	EmployeeIDSnake string           `json:"employee_id"`
	Amount          *decimal.Decimal `json:"amount"`
	Type            string           `json:"type"`
}

func (r *AdvanceRequest) TargetID() string {
	return utils.FirstNonEmpty(r.EmployeeID, r.EmployeeIDSnake)
}

type Payment struct {
	ID         uint    `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Type       string  `json:"type"`
	RecordedBy string  `json:"recordedBy,omitempty"`
}

// Ledger is the derived monthly payroll view
type Ledger struct {
	EmployeeID       string            `json:"employeeId"`
	Name             string            `json:"name"`
	Month            string            `json:"month"`
	DailyRate        float64           `json:"dailyRate"`
	PresentCount     int               `json:"presentCount"`
	HalfDayCount     int               `json:"halfDayCount"`
	AbsentCount      int               `json:"absentCount"`
	EarnedSalary     float64           `json:"earnedSalary"`
	AdvanceScope     string            `json:"advanceScope"`
	TotalAdvance     float64           `json:"totalAdvance"`
	NetPayable       float64           `json:"netPayable"`
	PaymentHistory   []Payment         `json:"paymentHistory"`
	AttendanceByDate map[string]string `json:"attendanceByDate"`
}
