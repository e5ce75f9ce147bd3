package auth

import "github.com/campusperks/points-services/pointsgateway/internal/model"

// Principal is the authenticated caller every service operation receives.
// The transport layer fills it from the verified token claims.
type Principal struct {
	AccountID int64
	Role      model.Role
}

func (p Principal) IsCashier() bool {
	return p.Role.AtLeast(model.RoleCashier)
}

func (p Principal) IsManager() bool {
	return p.Role.AtLeast(model.RoleManager)
}

func (p Principal) IsSuperuser() bool {
	return p.Role.AtLeast(model.RoleSuperuser)
}
