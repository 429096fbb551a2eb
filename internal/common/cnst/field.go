package cnst

import "strings"

// AdminField names an employee attribute an administrator may change through
// the system update endpoint.
type AdminField string

const (
	FieldRole     AdminField = "role"
	FieldBlocked  AdminField = "blocked"
	FieldPassword AdminField = "password"
)

// ParseAdminField resolves a client supplied field name. Only the fixed set
// above is accepted; isBlocked and is_blocked are aliases of blocked.
func ParseAdminField(s string) (AdminField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "role":
		return FieldRole, true
	case "blocked", "isblocked", "is_blocked":
		return FieldBlocked, true
	case "password":
		return FieldPassword, true
	}
	return "", false
}
