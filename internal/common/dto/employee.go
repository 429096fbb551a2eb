package dto

import "github.com/shopspring/decimal"

// EmployeeSummary is an employee without credentials or session state
type EmployeeSummary struct {
	EmployeeID     string  `json:"employeeId"`
	Name           string  `json:"name"`
	FatherName     string  `json:"fatherName,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	EmergencyPhone string  `json:"emergencyPhone,omitempty"`
	Address        string  `json:"address,omitempty"`
	Designation    string  `json:"designation,omitempty"`
	Role           string  `json:"role"`
	IsBlocked      bool    `json:"isBlocked"`
	SalaryPerDay   float64 `json:"salaryPerDay"`
	JoiningDate    string  `json:"joiningDate,omitempty"`
	BankName       string  `json:"bankName,omitempty"`
	AccountNo      string  `json:"accountNo,omitempty"`
	IFSCCode       string  `json:"ifscCode,omitempty"`
	Photo          string  `json:"photo,omitempty"`
}

// RegisterAdminRequest is the public "become admin" form
type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Aadhar   string `json:"aadhar" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=4"`
	Photo    string `json:"photo"`
}

// RegisterEmployeeRequest is the form used by Admins and Managers
type RegisterEmployeeRequest struct {
	Name           string           `json:"name" validate:"required,max=120"`
	FatherName     string           `json:"fatherName" validate:"omitempty,max=120"`
	Email          string           `json:"email" validate:"omitempty,email"`
	Phone          string           `json:"phone" validate:"omitempty,max=20"`
	EmergencyPhone string           `json:"emergencyPhone" validate:"omitempty,max=20"`
	Aadhar         string           `json:"aadhar" validate:"omitempty,max=20"`
	Address        string           `json:"address"`
	Designation    string           `json:"designation" validate:"omitempty,max=60"`
	Role           string           `json:"role"`
	JoiningDate    string           `json:"joiningDate" validate:"omitempty,datetime=2006-01-02"`
	Salary         *decimal.Decimal `json:"salary"`
	BankName       string           `json:"bankName" validate:"omitempty,max=120"`
	AccountNo      string           `json:"accountNo" validate:"omitempty,max=40"`
	IFSCCode       string           `json:"ifscCode" validate:"omitempty,max=20"`
	Photo          string           `json:"photo"`
	Password       string           `json:"password" validate:"required,min=4"`
}

// RegisterResponse carries the generated employee identifier
type RegisterResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	EmployeeID string `json:"employeeId"`
}
