package repositories

import (
	"context"

	"tienda/internal/models"
)

// OrderFilter narrows order listings. Nil fields do not filter.
type OrderFilter struct {
	UserID *uint
	Status *models.OrderStatus
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order row only; lines are written with CreateLines.
	Create(ctx context.Context, order *models.Order) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	// GetByID loads the order with lines, products, history, actors, address and user.
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateStatus persists the mutable status fields if the stored status still equals expected.
	UpdateStatus(ctx context.Context, order *models.Order, expected models.OrderStatus) error
}

// OrderHistoryRepository is the append-only status audit log.
type OrderHistoryRepository interface {
	Append(ctx context.Context, entry *models.OrderStatusHistory) error
}
