package models

import "time"

// CartItem is one product line in a user's cart. (UserID, ProductID) is unique.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"usuarioId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"productoId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Product   *Product  `json:"producto,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"cantidad" gorm:"not null"`
	AddedAt   time.Time `json:"fechaAgregado" gorm:"autoCreateTime"`
}
