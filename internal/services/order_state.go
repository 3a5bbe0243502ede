package services

import (
	"slices"
	"time"

	"tienda/internal/models"
)

// orderStateTransitions lists the statuses reachable from each status.
var orderStateTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	return slices.Contains(orderStateTransitions[from], to)
}

// AllowedTransitions returns the statuses reachable from status.
func AllowedTransitions(status models.OrderStatus) []models.OrderStatus {
	return slices.Clone(orderStateTransitions[status])
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status models.OrderStatus) bool {
	_, ok := orderStateTransitions[status]
	return ok
}

// stampMilestone records when the order first reached a milestone status.
// Timestamps that are already set are kept.
func stampMilestone(order *models.Order, status models.OrderStatus, now time.Time) {
	var slot **time.Time
	switch status {
	case models.OrderStatusConfirmed:
		slot = &order.ConfirmedAt
	case models.OrderStatusShipped:
		slot = &order.ShippedAt
	case models.OrderStatusDelivered:
		slot = &order.DeliveredAt
	default:
		return
	}
	if *slot == nil {
		ts := now
		*slot = &ts
	}
}
