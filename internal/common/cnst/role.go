package cnst

import "strings"

// Role is an employee's job role. It doubles as the permission level.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleManager    Role = "Manager"
	RoleWorker     Role = "Worker"
	RoleAccountant Role = "Accountant"
	RoleOperator   Role = "Operator"
	RoleDriver     Role = "Driver"
	RoleHelper     Role = "Helper"
)

var allRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleWorker,
	RoleAccountant,
	RoleOperator,
	RoleDriver,
	RoleHelper,
}

// Roles returns every known role in display order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole matches s against the known roles ignoring case and surrounding
// whitespace.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range allRoles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// In reports whether r is one of roles, ignoring case.
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if strings.EqualFold(string(r), string(candidate)) {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether r may read and mark data of other employees.
func (r Role) IsPrivileged() bool {
	return r.In(PrivilegedRoles...)
}

var (
	// PrivilegedRoles may mark attendance and read any employee's data
	PrivilegedRoles = []Role{RoleAdmin, RoleManager, RoleAccountant}
	// PaymentRoles may record salary advances
	PaymentRoles = []Role{RoleAdmin, RoleAccountant}
	// RegistrarRoles may register new employees
	RegistrarRoles = []Role{RoleAdmin, RoleManager}
)
