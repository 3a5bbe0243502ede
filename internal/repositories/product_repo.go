package repositories

import (
	"context"

	"tienda/internal/models"
)

// ProductRepository defines the interface for product and stock data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update saves a product. stock is only written when withStock is set.
	Update(ctx context.Context, product *models.Product, withStock bool) error
	Delete(ctx context.Context, id uint) error

	// DecrementStock subtracts qty only if at least qty units are available.
	DecrementStock(ctx context.Context, id uint, qty int) error
	// IncrementStock adds qty units back.
	IncrementStock(ctx context.Context, id uint, qty int) error
}
