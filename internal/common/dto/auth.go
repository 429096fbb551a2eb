package dto

import (
	"time"

	"github.com/dharashakti/backoffice/pkg/utils"
)

// LoginRequest accepts identifier/credential and the older username/password
// field names.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Credential string `json:"credential"`
	Password   string `json:"password"`
}

// ID returns the employee identifier under either field name
func (r *LoginRequest) ID() string {
	return utils.FirstNonEmpty(r.Identifier, r.Username)
}

// Secret returns the credential under either field name
func (r *LoginRequest) Secret() string {
	if r.Credential != "" {
		return r.Credential
	}
	return r.Password
}

// LoginResponse represents a login response
type LoginResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message,omitempty"`
	User         EmployeeSummary `json:"user"`
	SessionToken string          `json:"sessionToken"`
	Token        string          `json:"token"`
	LoginAt      time.Time       `json:"loginAt"`
}

// SessionCheckResponse is polled by the session watchdog
type SessionCheckResponse struct {
	ActiveSessionID *string `json:"activeSessionId"`
	IsBlocked       bool    `json:"isBlocked"`
}
