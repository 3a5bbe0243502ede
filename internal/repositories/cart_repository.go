package repositories

import (
	"context"

	"tienda/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByUser returns the user's lines with their products, most recently added first.
	ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error)
	GetForUser(ctx context.Context, id, userID uint) (*models.CartItem, error)
	GetByProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uint, qty int) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
