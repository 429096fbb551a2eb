package dto

import (
	"time"

	"github.com/dharashakti/backoffice/pkg/utils"
)

// UpdateSystemRequest changes one allow-listed field of an employee. Value is
// a string, bool or number depending on the field.
type UpdateSystemRequest struct {
	TargetID   string `json:"targetId"`
	EmpID      string `json:"empId"`
	Field      string `json:"field"`
	Value      any    `json:"value"`
	AdminName  string `json:"adminName"`
	TargetName string `json:"targetName"`
}

func (r *UpdateSystemRequest) Target() string {
	return utils.FirstNonEmpty(r.TargetID, r.EmpID)
}

type ResetPasswordRequest struct {
	EmpID     string `json:"empId"`
	NewPass   string `json:"newPass"`
	AdminName string `json:"adminName"`
}

// ActivityLogEntry keeps the column style names of the audit table
type ActivityLogEntry struct {
	ID           uint      `json:"id"`
	AdminName    string    `json:"admin_name"`
	ActionDetail string    `json:"action_detail"`
	TargetID     string    `json:"target_id,omitempty"`
	Field        string    `json:"field,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SuccessResponse is the body of mutations without a payload
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
