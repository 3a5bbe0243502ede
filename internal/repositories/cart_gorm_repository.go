package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/models"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) ListByUser(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "failed to list cart of user %d", userID)
	}
	return items, nil
}

func (r *GORMCartRepository) GetForUser(ctx context.Context, id, userID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translate(err, "cart item with ID %d", id)
	}
	return &item, nil
}

func (r *GORMCartRepository) GetByProduct(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		return nil, translate(err, "cart item for product %d", productID)
	}
	return &item, nil
}

func (r *GORMCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return translate(err, "failed to add product %d to cart of user %d", item.ProductID, item.UserID)
	}
	return nil
}

func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", qty)
	if res.Error != nil {
		return translate(res.Error, "failed to update cart item %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "cart item with ID %d", id)
	}
	return nil
}

func (r *GORMCartRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete cart item %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "cart item with ID %d", id)
	}
	return nil
}

func (r *GORMCartRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return translate(err, "failed to clear cart of user %d", userID)
	}
	return nil
}
