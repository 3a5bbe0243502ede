package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tienda/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// GetAll retrieves all products, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err, "product with ID %d", id)
	}
	return &product, nil
}

// GetByIDs retrieves the products matching ids. Missing ids are skipped.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products %v: %w", ids, err)
	}
	return products, nil
}

// Create creates a new product.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translate(err, "failed to create product")
	}
	return nil
}

// Update saves every column of an existing product. stock is written only when
// withStock is set; otherwise it keeps whatever concurrent reservations left.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product, withStock bool) error {
	omit := []string{"created_at"}
	if !withStock {
		omit = append(omit, "stock")
	}
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit(omit...).Updates(product)
	if res.Error != nil {
		return translate(res.Error, "failed to update product %d", product.ID)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product with ID %d not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete product %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product with ID %d not found for deletion", id)
	}
	return nil
}

// DecrementStock is a compare-and-swap on the stock column.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error, "failed to decrement stock of product %d", id)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("product %d, requested %d: %w", id, qty, ErrInsufficientStock)
	}
	return nil
}

// IncrementStock adds qty units to the stock column.
func (r *GORMProductRepository) IncrementStock(ctx context.Context, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error, "failed to increment stock of product %d", id)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "product with ID %d", id)
	}
	return nil
}
