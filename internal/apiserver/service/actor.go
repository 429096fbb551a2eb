package service

import (
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/common/cnst"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	EmployeeID string
	Name       string
	Role       cnst.Role
	SessionID  string
}

// ActorFromClaims builds an actor from token claims alone, without the
// freshness checks of AuthService.Authenticate.
func ActorFromClaims(claims *jwt.Claims) Actor {
	role, ok := cnst.ParseRole(claims.Role)
	if !ok {
		role = cnst.Role(claims.Role)
	}
	return Actor{
		EmployeeID: claims.EmployeeID,
		Name:       claims.Name,
		Role:       role,
		SessionID:  claims.SessionID,
	}
}

// canRead reports whether the actor may read data belonging to employeeID.
func (a Actor) canRead(employeeID string) bool {
	return a.EmployeeID == employeeID || a.Role.IsPrivileged()
}

func (a Actor) isAdmin() bool {
	return a.Role.In(cnst.RoleAdmin)
}
