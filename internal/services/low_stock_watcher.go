package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"
)

// LowStockWatcher consumes order events and warns about products that ran low.
type LowStockWatcher struct {
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewLowStockWatcher creates a new LowStockWatcher.
func NewLowStockWatcher(products repositories.ProductRepository, logger *zap.Logger) *LowStockWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockWatcher{products: products, logger: logger}
}

// HandleOrderEvent is a rabbitmq.Handler. Undecodable messages are rejected.
func (w *LowStockWatcher) HandleOrderEvent(ctx context.Context, body []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: decode order event: %v", rabbitmq.ErrReject, err)
	}
	if event.Type != EventOrderCreated {
		return nil
	}

	ids := lo.Uniq(lo.Map(event.Lines, func(l OrderEventLine, _ int) uint { return l.ProductID }))
	if len(ids) == 0 {
		return nil
	}
	products, err := w.products.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load products of order %s: %w", event.OrderNumber, err)
	}

	for _, p := range products {
		if !p.LowStock() {
			continue
		}
		w.logger.Warn("product stock at or below minimum",
			zap.Uint("product_id", p.ID),
			zap.String("product", p.Name),
			zap.Int("stock", p.Stock),
			zap.Int("min_stock", p.MinStock),
			zap.String("order_number", event.OrderNumber),
		)
	}
	return nil
}
