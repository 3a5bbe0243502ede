package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax percentage applied when a product does not declare one.
var DefaultTaxRate = decimal.NewFromInt(19)

// DefaultMinStock is the low-stock threshold used when none is supplied.
const DefaultMinStock = 5

// Product represents a catalog item and its stock counter.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"nombre" gorm:"type:varchar(200);not null"`
	Description  string          `json:"descripcion,omitempty" gorm:"type:text"`
	BasePrice    decimal.Decimal `json:"precioBase" gorm:"type:decimal(10,2);not null"`
	TaxRate      decimal.Decimal `json:"iva" gorm:"type:decimal(5,2);not null"`
	PriceWithTax decimal.Decimal `json:"precioConIva" gorm:"type:decimal(10,2);not null"`
	Stock        int             `json:"stockActual" gorm:"not null;check:stock >= 0"`
	MinStock     int             `json:"stockMinimo" gorm:"not null"`
	ImagePath    string          `json:"rutaImagen,omitempty" gorm:"type:varchar(500)"`
	Active       bool            `json:"activo" gorm:"not null;index"`
	CreatedAt    time.Time       `json:"fechaCreacion"`
	UpdatedAt    time.Time       `json:"fechaActualizacion"`
}

// LowStock reports whether the remaining stock reached the minimum threshold.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
