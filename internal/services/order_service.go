package services

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
)

const orderSequence = "order_number"

// OrderService handles business logic related to orders.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, publisher EventPublisher, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// OrderItemInput is one requested product line.
type OrderItemInput struct {
	ProductID uint `json:"productoId" validate:"required"`
	Quantity  int  `json:"cantidad" validate:"required,gt=0"`
}

// CreateOrderInput is the payload for placing an order.
type CreateOrderInput struct {
	ShippingAddressID uint                 `json:"direccionEnvioId" validate:"required"`
	Items             []OrderItemInput     `json:"items" validate:"required,min=1,dive"`
	PaymentMethod     models.PaymentMethod `json:"metodoPago" validate:"required,oneof=TRANSFERENCIA TARJETA_CREDITO TARJETA_DEBITO EFECTIVO"`
	CustomerNotes     string               `json:"notasCliente" validate:"omitempty,max=1000"`
}

// UpdateStatusInput is the payload for moving an order through its lifecycle.
type UpdateStatusInput struct {
	Status         models.OrderStatus `json:"estado" validate:"required,oneof=PENDIENTE CONFIRMADO PREPARANDO ENVIADO ENTREGADO CANCELADO"`
	Comment        string             `json:"comentario" validate:"omitempty,max=1000"`
	AdminNotes     string             `json:"notasAdmin" validate:"omitempty,max=1000"`
	TrackingNumber string             `json:"numeroSeguimiento" validate:"omitempty,max=100"`
}

// CreateOrder prices the requested lines, stores the order with its lines, reserves
// stock and records the initial history entry, all inside one transaction.
// No stock is touched when any line fails validation.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrBadRequest)
	}

	var orderID uint
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		address, err := tx.Addresses().GetForUser(ctx, in.ShippingAddressID, userID)
		if err != nil {
			return fmt.Errorf("shipping address %d: %w", in.ShippingAddressID, fromRepo(err))
		}

		products := NewProductService(tx.Products())
		lines := make([]models.OrderLine, 0, len(in.Items))
		priced := make([]pricing.Line, 0, len(in.Items))
		for _, item := range in.Items {
			if item.Quantity <= 0 {
				return ErrInvalidQuantity
			}
			product, err := products.GetProductByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return fmt.Errorf("%w: %s", ErrProductNotAvailable, product.Name)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w for %s (requested %d, available %d)",
					ErrInsufficientStock, product.Name, item.Quantity, product.Stock)
			}

			line := pricing.PriceLine(product.BasePrice, product.TaxRate, item.Quantity)
			priced = append(priced, line)
			lines = append(lines, models.OrderLine{
				ProductID:        product.ID,
				Quantity:         item.Quantity,
				UnitBasePrice:    product.BasePrice,
				TaxRate:          product.TaxRate,
				UnitPriceWithTax: line.UnitPriceWithTax,
				Subtotal:         line.Subtotal,
				TaxAmount:        line.Tax,
				Total:            line.Total,
			})
		}
		totals := pricing.Sum(priced, decimal.Zero)

		seq, err := tx.Sequences().Next(ctx, orderSequence)
		if err != nil {
			return err
		}

		order := &models.Order{
			Number:            formatOrderNumber(s.now(), seq),
			Status:            models.OrderStatusPending,
			Subtotal:          totals.Subtotal,
			TotalTax:          totals.Tax,
			ShippingCost:      totals.Shipping,
			Total:             totals.Total,
			PaymentMethod:     in.PaymentMethod,
			CustomerNotes:     sanitizeText(in.CustomerNotes),
			RecipientName:     address.FullName,
			Phone:             address.Phone,
			AddressLine:       address.StreetLine(),
			City:              address.City,
			Region:            address.Region,
			UserID:            userID,
			ShippingAddressID: lo.ToPtr(address.ID),
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fromRepo(err)
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Orders().CreateLines(ctx, lines); err != nil {
			return err
		}

		for _, line := range lines {
			if err := products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := tx.History().Append(ctx, &models.OrderStatusHistory{
			OrderID:   order.ID,
			NewStatus: models.OrderStatusPending,
			ActorID:   lo.ToPtr(userID),
		}); err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.Uint("user_id", userID),
		zap.String("total", order.Total.StringFixed(pricing.Places)),
	)
	s.publish(ctx, EventOrderCreated, order, nil)
	return order, nil
}

// UpdateStatus moves order orderID to a new status on behalf of actorID.
// Cancelling returns every line's quantity to stock.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, actorID uint, in UpdateStatusInput) (*models.Order, error) {
	var previous models.OrderStatus
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(ctx, orderID)
		if err != nil {
			return fromRepo(err)
		}

		previous = order.Status
		if !CanTransition(previous, in.Status) {
			return fmt.Errorf("%w from %s to %s", ErrInvalidTransition, previous, in.Status)
		}

		order.Status = in.Status
		stampMilestone(order, in.Status, s.now())
		if notes := sanitizeText(in.AdminNotes); notes != "" {
			order.AdminNotes = notes
		}
		if tracking := sanitizeText(in.TrackingNumber); tracking != "" {
			order.TrackingNumber = tracking
		}

		if err := tx.Orders().UpdateStatus(ctx, order, previous); err != nil {
			return fromRepo(err)
		}

		if in.Status == models.OrderStatusCancelled {
			products := NewProductService(tx.Products())
			for _, line := range order.Lines {
				if err := products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return err
				}
			}
		}

		return tx.History().Append(ctx, &models.OrderStatusHistory{
			OrderID:        order.ID,
			PreviousStatus: lo.ToPtr(previous),
			NewStatus:      in.Status,
			ActorID:        lo.ToPtr(actorID),
			Comment:        sanitizeText(in.Comment),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)),
		zap.Uint("actor_id", actorID),
	)
	s.publish(ctx, EventOrderStatusChanged, order, &previous)
	return order, nil
}

// GetOrder returns the order with lines, history, address and user.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return order, nil
}

// GetOrderForPrincipal returns the order to its owner or to an admin.
// Anyone else gets ErrNotFound so order ids cannot be probed.
func (s *OrderService) GetOrderForPrincipal(ctx context.Context, id uint, p Principal) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != p.UserID && !p.IsAdmin() {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	return order, nil
}

// ListOrders returns every order, optionally only those in status.
func (s *OrderService) ListOrders(ctx context.Context, status *models.OrderStatus) ([]models.Order, error) {
	if status != nil && !IsValidOrderStatus(*status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrBadRequest, *status)
	}
	return s.store.Orders().List(ctx, repositories.OrderFilter{Status: status})
}

// ListUserOrders returns the orders placed by userID, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.store.Orders().List(ctx, repositories.OrderFilter{UserID: lo.ToPtr(userID)})
}

// publish sends an order event. Failures are logged and never reach the caller.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, previous *models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	event := newOrderEvent(eventType, order, previous, s.now())
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event", eventType),
			zap.Uint("order_id", order.ID),
			zap.Error(err),
		)
	}
}

// formatOrderNumber renders PED-YYYYMM-NNNNN.
func formatOrderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("PED-%04d%02d-%05d", at.Year(), int(at.Month()), seq)
}
