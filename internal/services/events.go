package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tienda/internal/models"
)

// Routing keys of the order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// OrderEvent is the message published after an order is created or changes status.
type OrderEvent struct {
	ID             string              `json:"id"`
	Type           string              `json:"type"`
	OrderID        uint                `json:"orderId"`
	OrderNumber    string              `json:"orderNumber"`
	UserID         uint                `json:"userId"`
	Status         models.OrderStatus  `json:"status"`
	PreviousStatus *models.OrderStatus `json:"previousStatus,omitempty"`
	Total          decimal.Decimal     `json:"total"`
	Lines          []OrderEventLine    `json:"lines"`
	OccurredAt     time.Time           `json:"occurredAt"`
}

// OrderEventLine is the product and quantity of one order line.
type OrderEventLine struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

func newOrderEvent(eventType string, order *models.Order, previous *models.OrderStatus, at time.Time) OrderEvent {
	return OrderEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		OrderID:        order.ID,
		OrderNumber:    order.Number,
		UserID:         order.UserID,
		Status:         order.Status,
		PreviousStatus: previous,
		Total:          order.Total,
		Lines: lo.Map(order.Lines, func(l models.OrderLine, _ int) OrderEventLine {
			return OrderEventLine{ProductID: l.ProductID, Quantity: l.Quantity}
		}),
		OccurredAt: at.UTC(),
	}
}
