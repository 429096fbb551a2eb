package database

import (
	"time"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"github.com/shopspring/decimal"
	"gorm.io/plugin/soft_delete"
)

// Employee is the HR record and the login identity. CurrentSessionID is the
// session registry: at most one live session per employee.
type Employee struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	EmployeeID       string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_employees_employee_id,priority:1"`
	Name             string          `gorm:"type:varchar(120);not null"`
	FatherName       string          `gorm:"type:varchar(120)"`
	Email            string          `gorm:"type:varchar(120)"`
	Phone            string          `gorm:"type:varchar(20)"`
	EmergencyPhone   string          `gorm:"type:varchar(20)"`
	Aadhar           string          `gorm:"type:varchar(20)"`
	Address          string          `gorm:"type:text"`
	Designation      string          `gorm:"type:varchar(60)"`
	Role             cnst.Role       `gorm:"type:varchar(20);not null;default:'Worker';index"`
	PasswordHash     string          `gorm:"not null"`
	IsBlocked        bool            `gorm:"not null;default:false"`
	CurrentSessionID *string         `gorm:"type:varchar(64)"`
	SalaryPerDay     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	JoiningDate      string          `gorm:"type:varchar(10)"`
	BankName         string          `gorm:"type:varchar(120)"`
	AccountNo        string          `gorm:"type:varchar(40)"`
	IFSCCode         string          `gorm:"type:varchar(20)"`
	Photo            string          `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        soft_delete.DeletedAt `gorm:"uniqueIndex:idx_employees_employee_id,priority:2"`
}

// Attendance is one mark per employee and calendar day.
type Attendance struct {
	ID         uint                  `gorm:"primaryKey;autoIncrement"`
	EmployeeID string                `gorm:"type:varchar(20);not null;uniqueIndex:idx_attendance_employee_date,priority:1"`
	Date       string                `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_employee_date,priority:2;index"`
	Status     cnst.AttendanceStatus `gorm:"type:varchar(16);not null"`
	MarkedBy   string                `gorm:"type:varchar(20)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Attendance) TableName() string { return "attendance" }

// SalaryPayment is money paid outside the derived payroll, usually an
// advance. Rows are never updated.
type SalaryPayment struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	EmployeeID string          `gorm:"type:varchar(20);not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date       string          `gorm:"type:varchar(10);not null;index"`
	Type       string          `gorm:"type:varchar(32);not null;default:'Advance'"`
	RecordedBy string          `gorm:"type:varchar(20)"`
	CreatedAt  time.Time
}

// ActivityLog is the audit trail of privileged mutations.
type ActivityLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	AdminName    string    `gorm:"type:varchar(120);not null"`
	ActionDetail string    `gorm:"type:text;not null"`
	TargetID     string    `gorm:"type:varchar(20);index"`
	Field        string    `gorm:"type:varchar(20)"`
	CreatedAt    time.Time `gorm:"index"`
}

func allModels() []any {
	return []any{&Employee{}, &Attendance{}, &SalaryPayment{}, &ActivityLog{}}
}
