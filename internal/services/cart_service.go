package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
)

// CartService maintains per-user carts priced from the live catalog.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// CartLine is a cart item priced with the product's current price.
type CartLine struct {
	models.CartItem
	UnitPriceWithTax decimal.Decimal `json:"precioUnitarioConIva"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Tax              decimal.Decimal `json:"iva"`
	Total            decimal.Decimal `json:"total"`
}

// CartSummary aggregates a cart. ItemCount counts lines, ProductCount counts units.
type CartSummary struct {
	ItemCount    int             `json:"cantidadItems"`
	ProductCount int             `json:"cantidadProductos"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TotalTax     decimal.Decimal `json:"totalIva"`
	Total        decimal.Decimal `json:"total"`
}

// Cart is the priced content of a user's cart.
type Cart struct {
	Items   []CartLine  `json:"items"`
	Summary CartSummary `json:"resumen"`
}

// AddItem puts qty units of productID in the cart, accumulating onto an existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fromRepo(err)
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: %s", ErrProductNotAvailable, product.Name)
	}

	existing, err := s.carts.GetByProduct(ctx, userID, productID)
	switch {
	case err == nil:
		wanted := existing.Quantity + qty
		if product.Stock < wanted {
			return nil, fmt.Errorf("%w for %s (requested %d, available %d)", ErrInsufficientStock, product.Name, wanted, product.Stock)
		}
		if err := s.carts.UpdateQuantity(ctx, existing.ID, wanted); err != nil {
			return nil, fromRepo(err)
		}
		existing.Quantity = wanted
		existing.Product = product
		return existing, nil
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, err
	}

	if product.Stock < qty {
		return nil, fmt.Errorf("%w for %s (requested %d, available %d)", ErrInsufficientStock, product.Name, qty, product.Stock)
	}
	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := s.carts.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", fromRepo(err))
	}
	item.Product = product
	return item, nil
}

// GetCart prices every line from the current product prices and sums them up.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &Cart{Items: make([]CartLine, 0, len(items))}
	priced := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		line := pricing.PriceLine(item.Product.BasePrice, item.Product.TaxRate, item.Quantity)
		priced = append(priced, line)
		cart.Items = append(cart.Items, CartLine{
			CartItem:         item,
			UnitPriceWithTax: line.UnitPriceWithTax,
			Subtotal:         line.Subtotal,
			Tax:              line.Tax,
			Total:            line.Total,
		})
	}

	totals := pricing.Sum(priced, decimal.Zero)
	cart.Summary = CartSummary{
		ItemCount:    len(cart.Items),
		ProductCount: lo.SumBy(cart.Items, func(l CartLine) int { return l.Quantity }),
		Subtotal:     totals.Subtotal,
		TotalTax:     totals.Tax,
		Total:        totals.Total,
	}
	return cart, nil
}

// UpdateItem sets the quantity of line id owned by userID.
func (s *CartService) UpdateItem(ctx context.Context, id, userID uint, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	item, err := s.carts.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, fromRepo(err)
	}
	product := item.Product
	if product == nil {
		if product, err = s.products.GetByID(ctx, item.ProductID); err != nil {
			return nil, fromRepo(err)
		}
	}
	if product.Stock < qty {
		return nil, fmt.Errorf("%w for %s (requested %d, available %d)", ErrInsufficientStock, product.Name, qty, product.Stock)
	}

	if err := s.carts.UpdateQuantity(ctx, item.ID, qty); err != nil {
		return nil, fromRepo(err)
	}
	item.Quantity = qty
	item.Product = product
	return item, nil
}

// RemoveItem deletes line id owned by userID.
func (s *CartService) RemoveItem(ctx context.Context, id, userID uint) error {
	item, err := s.carts.GetForUser(ctx, id, userID)
	if err != nil {
		return fromRepo(err)
	}
	return fromRepo(s.carts.Delete(ctx, item.ID))
}

// ClearCart deletes every line of userID.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return s.carts.DeleteByUser(ctx, userID)
}
