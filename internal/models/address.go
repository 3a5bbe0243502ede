package models

import (
	"strings"
	"time"
)

// DefaultCountry is stored when an address omits its country.
const DefaultCountry = "Chile"

// ShippingAddress is a delivery address owned by a user.
type ShippingAddress struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"usuarioId" gorm:"not null;index"`
	Alias      string    `json:"alias" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	FullName   string    `json:"nombreCompleto" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Phone      string    `json:"telefono" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	Street     string    `json:"calle" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Number     string    `json:"numero" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	Apartment  string    `json:"departamento,omitempty" gorm:"type:varchar(50)" validate:"omitempty,max=50"`
	City       string    `json:"ciudad" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Region     string    `json:"region" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	PostalCode string    `json:"codigoPostal" gorm:"type:varchar(10);not null" validate:"required,max=10"`
	Country    string    `json:"pais" gorm:"type:varchar(50);not null" validate:"omitempty,max=50"`
	IsPrimary  bool      `json:"esPrincipal" gorm:"not null"`
	CreatedAt  time.Time `json:"fechaCreacion"`
}

// StreetLine joins street, number and apartment into the single line stored on orders.
func (a *ShippingAddress) StreetLine() string {
	line := strings.TrimSpace(a.Street + " " + a.Number)
	if a.Apartment != "" {
		line += ", " + a.Apartment
	}
	return line
}
