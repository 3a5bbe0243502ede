package models

import "time"

// Role is the authorisation role carried in the access token.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CLIENTE"
)

// User represents an account of the store.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nombre" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Email     string    `json:"correo" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email,max=100"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialised
	Role      Role      `json:"rol" gorm:"type:varchar(20);not null"`
	Phone     string    `json:"telefono,omitempty" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Active    bool      `json:"activo" gorm:"not null"`
	CreatedAt time.Time `json:"fechaRegistro"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
