package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
)

// ProductService owns the catalog entries and their stock counters.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string           `json:"nombre" validate:"required,max=200"`
	Description string           `json:"descripcion" validate:"omitempty"`
	BasePrice   decimal.Decimal  `json:"precioBase" validate:"gt=0"`
	TaxRate     *decimal.Decimal `json:"iva" validate:"omitempty,gte=0,lte=100"`
	Stock       int              `json:"stockActual" validate:"gte=0"`
	MinStock    *int             `json:"stockMinimo" validate:"omitempty,gte=0"`
	ImagePath   string           `json:"rutaImagen" validate:"omitempty,max=500"`
	Active      *bool            `json:"activo"`
}

// ProductUpdate carries the fields to change. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"descripcion"`
	BasePrice   *decimal.Decimal `json:"precioBase" validate:"omitempty,gt=0"`
	TaxRate     *decimal.Decimal `json:"iva" validate:"omitempty,gte=0,lte=100"`
	Stock       *int             `json:"stockActual" validate:"omitempty,gte=0"`
	MinStock    *int             `json:"stockMinimo" validate:"omitempty,gte=0"`
	ImagePath   *string          `json:"rutaImagen" validate:"omitempty,max=500"`
	Active      *bool            `json:"activo"`
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return product, nil
}

// CreateProduct stores a new product, filling defaults and the tax-inclusive price.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: sanitizeText(in.Description),
		BasePrice:   pricing.Round(in.BasePrice),
		TaxRate:     models.DefaultTaxRate,
		Stock:       in.Stock,
		MinStock:    models.DefaultMinStock,
		ImagePath:   in.ImagePath,
		Active:      true,
	}
	if in.TaxRate != nil {
		product.TaxRate = pricing.Round(*in.TaxRate)
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrBadRequest)
	}
	product.PriceWithTax = pricing.PriceWithTax(product.BasePrice, product.TaxRate)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", fromRepo(err))
	}
	return product, nil
}

// UpdateProduct applies upd to product id. The tax-inclusive price is recomputed
// whenever the base price or the tax rate is supplied.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, upd ProductUpdate) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		product.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		product.Description = sanitizeText(*upd.Description)
	}
	if upd.Stock != nil {
		if *upd.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrBadRequest)
		}
		product.Stock = *upd.Stock
	}
	if upd.MinStock != nil {
		product.MinStock = *upd.MinStock
	}
	if upd.ImagePath != nil {
		product.ImagePath = *upd.ImagePath
	}
	if upd.Active != nil {
		product.Active = *upd.Active
	}
	if upd.BasePrice != nil || upd.TaxRate != nil {
		if upd.BasePrice != nil {
			product.BasePrice = pricing.Round(*upd.BasePrice)
		}
		if upd.TaxRate != nil {
			product.TaxRate = pricing.Round(*upd.TaxRate)
		}
		product.PriceWithTax = pricing.PriceWithTax(product.BasePrice, product.TaxRate)
	}

	if err := s.repo.Update(ctx, product, upd.Stock != nil); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, fromRepo(err))
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. Products referenced by orders cannot be deleted.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, fromRepo(err))
	}
	return nil
}

// VerifyStock reports whether at least qty units of product id are available.
func (s *ProductService) VerifyStock(ctx context.Context, id uint, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrInvalidQuantity
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return false, err
	}
	return product.Stock >= qty, nil
}

// DecrementStock removes qty units, failing with ErrInsufficientStock when fewer are available.
func (s *ProductService) DecrementStock(ctx context.Context, id uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.repo.DecrementStock(ctx, id, qty); err != nil {
		return fmt.Errorf("failed to decrement stock of product %d: %w", id, fromRepo(err))
	}
	return nil
}

// IncrementStock returns qty units to stock.
func (s *ProductService) IncrementStock(ctx context.Context, id uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.repo.IncrementStock(ctx, id, qty); err != nil {
		return fmt.Errorf("failed to increment stock of product %d: %w", id, fromRepo(err))
	}
	return nil
}
