package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return translate(err, "failed to create order %s", order.Number)
	}
	return nil
}

func (r *GORMOrderRepository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&lines).Error; err != nil {
		return translate(err, "failed to create order lines")
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", orderByID).
		Preload("Lines.Product").
		Preload("History", orderByID).
		Preload("History.Actor").
		Preload("ShippingAddress").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err, "order with ID %d", id)
	}
	return &order, nil
}

// List returns matching orders newest first, without lines or history.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("ShippingAddress")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	} else {
		query = query.Preload("User")
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, order *models.Order, expected models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, expected).
		Updates(map[string]any{
			"status":          order.Status,
			"admin_notes":     order.AdminNotes,
			"tracking_number": order.TrackingNumber,
			"confirmed_at":    order.ConfirmedAt,
			"shipped_at":      order.ShippedAt,
			"delivered_at":    order.DeliveredAt,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error, "failed to update status of order %d", order.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", order.ID, expected, ErrStaleWrite)
	}
	return nil
}

// GORMOrderHistoryRepository is a GORM implementation of OrderHistoryRepository.
type GORMOrderHistoryRepository struct {
	db *gorm.DB
}

// NewGORMOrderHistoryRepository creates a new instance of GORMOrderHistoryRepository.
func NewGORMOrderHistoryRepository(db *gorm.DB) *GORMOrderHistoryRepository {
	return &GORMOrderHistoryRepository{db: db}
}

func (r *GORMOrderHistoryRepository) Append(ctx context.Context, entry *models.OrderStatusHistory) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return translate(err, "failed to append history of order %d", entry.OrderID)
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
