package dto

import "github.com/dharashakti/backoffice/pkg/utils"

// MarkAttendanceRequest accepts employeeId or employee_id
type MarkAttendanceRequest struct {
	EmployeeID      string `json:"employeeId"`
	EmployeeIDSnake string `json:"employee_id"`
	Date            string `json:"date" binding:"required"`
	Status          string `json:"status" binding:"required"`
}

func (r *MarkAttendanceRequest) TargetID() string {
	return utils.FirstNonEmpty(r.EmployeeID, r.EmployeeIDSnake)
}

type AttendanceRecord struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	MarkedBy   string `json:"markedBy,omitempty"`
}
