package repositories

import (
	"context"

	"gorm.io/gorm"

	"tienda/internal/models"
)

// AddressRepository defines the interface for shipping address data access.
type AddressRepository interface {
	Create(ctx context.Context, address *models.ShippingAddress) error
	ListByUser(ctx context.Context, userID uint) ([]models.ShippingAddress, error)
	GetForUser(ctx context.Context, id, userID uint) (*models.ShippingAddress, error)
	ClearPrimary(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id, userID uint) error
}

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

// NewGORMAddressRepository creates a new instance of GORMAddressRepository.
func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.ShippingAddress) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return translate(err, "failed to create address for user %d", address.UserID)
	}
	return nil
}

// ListByUser returns the primary address first, then newest first.
func (r *GORMAddressRepository) ListByUser(ctx context.Context, userID uint) ([]models.ShippingAddress, error) {
	var addresses []models.ShippingAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at DESC, id DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, translate(err, "failed to list addresses of user %d", userID)
	}
	return addresses, nil
}

// GetForUser only finds addresses owned by userID.
func (r *GORMAddressRepository) GetForUser(ctx context.Context, id, userID uint) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	if err := r.db.WithContext(ctx).First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translate(err, "address with ID %d", id)
	}
	return &address, nil
}

func (r *GORMAddressRepository) ClearPrimary(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Model(&models.ShippingAddress{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
	if err != nil {
		return translate(err, "failed to clear primary address of user %d", userID)
	}
	return nil
}

func (r *GORMAddressRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ShippingAddress{}, id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete address %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "address with ID %d", id)
	}
	return nil
}
