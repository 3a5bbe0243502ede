package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDIENTE"
	OrderStatusConfirmed OrderStatus = "CONFIRMADO"
	OrderStatusPreparing OrderStatus = "PREPARANDO"
	OrderStatusShipped   OrderStatus = "ENVIADO"
	OrderStatusDelivered OrderStatus = "ENTREGADO"
	OrderStatusCancelled OrderStatus = "CANCELADO"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentTransfer   PaymentMethod = "TRANSFERENCIA"
	PaymentCreditCard PaymentMethod = "TARJETA_CREDITO"
	PaymentDebitCard  PaymentMethod = "TARJETA_DEBITO"
	PaymentCash       PaymentMethod = "EFECTIVO"
)

// Order is a customer purchase. Totals are frozen at creation time.
type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Number        string          `json:"numeroPedido" gorm:"uniqueIndex;type:varchar(50);not null"`
	CreatedAt     time.Time       `json:"fechaHora" gorm:"index"`
	UpdatedAt     time.Time       `json:"fechaActualizacion"`
	Status        OrderStatus     `json:"estado" gorm:"type:varchar(20);not null;index"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	TotalTax      decimal.Decimal `json:"totalIva" gorm:"type:decimal(10,2);not null"`
	ShippingCost  decimal.Decimal `json:"costoEnvio" gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentMethod PaymentMethod   `json:"metodoPago" gorm:"type:varchar(30);not null"`
	CustomerNotes string          `json:"notasCliente,omitempty" gorm:"type:text"`
	AdminNotes    string          `json:"notasAdmin,omitempty" gorm:"type:text"`

	ConfirmedAt *time.Time `json:"fechaConfirmacion,omitempty"`
	ShippedAt   *time.Time `json:"fechaEnvio,omitempty"`
	DeliveredAt *time.Time `json:"fechaEntrega,omitempty"`

	TrackingNumber string `json:"numeroSeguimiento,omitempty" gorm:"type:varchar(100)"`

	// Recipient snapshot taken from the shipping address at creation.
	RecipientName string `json:"nombreDestinatario" gorm:"type:varchar(100);not null"`
	Phone         string `json:"telefono" gorm:"type:varchar(20);not null"`
	AddressLine   string `json:"direccion" gorm:"type:varchar(300);not null"`
	City          string `json:"ciudad" gorm:"type:varchar(100);not null"`
	Region        string `json:"region" gorm:"type:varchar(100);not null"`

	UserID            uint             `json:"usuarioId" gorm:"not null;index"`
	User              *User            `json:"usuario,omitempty"`
	ShippingAddressID *uint            `json:"direccionEnvioId,omitempty" gorm:"index"`
	ShippingAddress   *ShippingAddress `json:"direccionEnvio,omitempty" gorm:"constraint:OnDelete:SET NULL"`

	Lines   []OrderLine          `json:"detalles" gorm:"constraint:OnDelete:CASCADE"`
	History []OrderStatusHistory `json:"historialEstados,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// OrderLine is the immutable price snapshot of one product inside an order.
type OrderLine struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	OrderID          uint            `json:"pedidoId" gorm:"not null;index"`
	ProductID        uint            `json:"productoId" gorm:"not null;index"`
	Product          *Product        `json:"producto,omitempty"`
	Quantity         int             `json:"cantidad" gorm:"not null"`
	UnitBasePrice    decimal.Decimal `json:"precioUnitarioBase" gorm:"type:decimal(10,2);not null"`
	TaxRate          decimal.Decimal `json:"iva" gorm:"type:decimal(5,2);not null"`
	UnitPriceWithTax decimal.Decimal `json:"precioUnitarioConIva" gorm:"type:decimal(10,2);not null"`
	Subtotal         decimal.Decimal `json:"subtotalSinIva" gorm:"type:decimal(10,2);not null"`
	TaxAmount        decimal.Decimal `json:"subtotalIva" gorm:"type:decimal(10,2);not null"`
	Total            decimal.Decimal `json:"subtotalConIva" gorm:"type:decimal(10,2);not null"`
}

// OrderStatusHistory is one append-only audit row per status change.
type OrderStatusHistory struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	OrderID        uint         `json:"pedidoId" gorm:"not null;index"`
	PreviousStatus *OrderStatus `json:"estadoAnterior" gorm:"type:varchar(20)"`
	NewStatus      OrderStatus  `json:"estadoNuevo" gorm:"type:varchar(20);not null"`
	ActorID        *uint        `json:"usuarioId"`
	Actor          *User        `json:"usuario,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
	Comment        string       `json:"comentario,omitempty" gorm:"type:text"`
	CreatedAt      time.Time    `json:"fechaCambio"`
}

// TableName keeps the audit table name singular.
func (OrderStatusHistory) TableName() string { return "order_status_history" }
