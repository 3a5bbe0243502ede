package services

import "tienda/internal/models"

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID uint
	Email  string
	Role   models.Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}
