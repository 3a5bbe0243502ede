package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPreparing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]models.OrderStatus]bool{
		{models.OrderStatusPending, models.OrderStatusConfirmed}:   true,
		{models.OrderStatusPending, models.OrderStatusCancelled}:   true,
		{models.OrderStatusConfirmed, models.OrderStatusPreparing}: true,
		{models.OrderStatusConfirmed, models.OrderStatusCancelled}: true,
		{models.OrderStatusPreparing, models.OrderStatusShipped}:   true,
		{models.OrderStatusPreparing, models.OrderStatusCancelled}: true,
		{models.OrderStatusShipped, models.OrderStatusDelivered}:   true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]models.OrderStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("PERDIDO", models.OrderStatusConfirmed))
	assert.False(t, CanTransition(models.OrderStatusPending, "PERDIDO"))
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusCancelled},
		AllowedTransitions(models.OrderStatusPending))
	assert.Empty(t, AllowedTransitions(models.OrderStatusDelivered))
	assert.Empty(t, AllowedTransitions(models.OrderStatusCancelled))

	got := AllowedTransitions(models.OrderStatusShipped)
	got[0] = models.OrderStatusCancelled
	assert.False(t, CanTransition(models.OrderStatusShipped, models.OrderStatusCancelled), "returned slice must be a copy")
}

func TestStampMilestone(t *testing.T) {
	first := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	order := &models.Order{}
	stampMilestone(order, models.OrderStatusConfirmed, first)
	require.NotNil(t, order.ConfirmedAt)
	assert.Equal(t, first, *order.ConfirmedAt)

	stampMilestone(order, models.OrderStatusConfirmed, later)
	assert.Equal(t, first, *order.ConfirmedAt, "first transition wins")

	stampMilestone(order, models.OrderStatusShipped, later)
	stampMilestone(order, models.OrderStatusDelivered, later)
	require.NotNil(t, order.ShippedAt)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, later, *order.DeliveredAt)

	untouched := &models.Order{}
	stampMilestone(untouched, models.OrderStatusPreparing, later)
	stampMilestone(untouched, models.OrderStatusCancelled, later)
	assert.Nil(t, untouched.ConfirmedAt)
	assert.Nil(t, untouched.ShippedAt)
	assert.Nil(t, untouched.DeliveredAt)
}

func TestFormatOrderNumber(t *testing.T) {
	at := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "PED-202603-00001", formatOrderNumber(at, 1))
	assert.Equal(t, "PED-202603-12345", formatOrderNumber(at, 12345))
	assert.Equal(t, "PED-202603-123456", formatOrderNumber(at, 123456))
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Entregar después de las 18:00  ", "Entregar después de las 18:00"},
		{`<script>alert("x")</script>Tocar timbre`, "Tocar timbre"},
		{"<b>Frágil</b> & urgente", "Frágil & urgente"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Tocar timbre", "Tocar timbre"},
		{"&lt;b&gt;Frágil&lt;/b&gt;", "Frágil"},
		{"&amp;lt;i&amp;gt;doble&amp;lt;/i&amp;gt;", "doble"},
		{"5 &lt; 6", "5 < 6"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeText(tt.in))
	}
}
