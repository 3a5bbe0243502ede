package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/models"
	"tienda/internal/services"
)

func newCartService(t *testing.T) (*services.CartService, *models.User, func(base int64, stock int, active bool) *models.Product) {
	t.Helper()
	store := newTestStore(t)
	user := createUser(t, store, models.RoleCustomer)
	newProduct := func(base int64, stock int, active bool) *models.Product {
		return createProduct(t, store, base, stock, active)
	}
	return services.NewCartService(store.Carts(), store.Products()), user, newProduct
}

func TestCartService_EmptyCart(t *testing.T) {
	service, user, _ := newCartService(t)

	cart, err := service.GetCart(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Summary.ItemCount)
	assert.Zero(t, cart.Summary.ProductCount)
	assertMoney(t, "0", cart.Summary.Subtotal)
	assertMoney(t, "0", cart.Summary.TotalTax)
	assertMoney(t, "0", cart.Summary.Total)
}

func TestCartService_AddItemAccumulates(t *testing.T) {
	service, user, newProduct := newCartService(t)
	ctx := context.Background()
	product := newProduct(1000, 5, true)

	first, err := service.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	second, err := service.AddItem(ctx, user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	_, err = service.AddItem(ctx, user.ID, product.ID, 1)
	assert.ErrorIs(t, err, services.ErrInsufficientStock, "existing quantity counts against stock")

	cart, err := service.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assertMoney(t, "5000", cart.Items[0].Subtotal)
	assertMoney(t, "950", cart.Items[0].Tax)
	assertMoney(t, "5950", cart.Items[0].Total)
}

func TestCartService_AddItemRules(t *testing.T) {
	service, user, newProduct := newCartService(t)
	ctx := context.Background()

	_, err := service.AddItem(ctx, user.ID, newProduct(100, 5, false).ID, 1)
	assert.ErrorIs(t, err, services.ErrProductNotAvailable)

	_, err = service.AddItem(ctx, user.ID, newProduct(100, 5, true).ID, 6)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = service.AddItem(ctx, user.ID, 999, 1)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = service.AddItem(ctx, user.ID, newProduct(100, 5, true).ID, 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestCartService_SummaryUsesLivePrices(t *testing.T) {
	store := newTestStore(t)
	user := createUser(t, store, models.RoleCustomer)
	service := services.NewCartService(store.Carts(), store.Products())
	ctx := context.Background()

	a := createProduct(t, store, 1000, 10, true)
	b := createProduct(t, store, 250, 10, true)
	_, err := service.AddItem(ctx, user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, user.ID, b.ID, 3)
	require.NoError(t, err)

	products := services.NewProductService(store.Products())
	_, err = products.UpdateProduct(ctx, a.ID, services.ProductUpdate{BasePrice: decimalPtr("1500")})
	require.NoError(t, err)

	cart, err := service.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Summary.ItemCount)
	assert.Equal(t, 5, cart.Summary.ProductCount)
	assertMoney(t, "3750", cart.Summary.Subtotal) // 1500*2 + 250*3
	assertMoney(t, "712.5", cart.Summary.TotalTax)
	assertMoney(t, "4462.5", cart.Summary.Total)
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, models.RoleCustomer)
	other := createUser(t, store, models.RoleCustomer)
	service := services.NewCartService(store.Carts(), store.Products())
	ctx := context.Background()

	product := createProduct(t, store, 100, 4, true)
	item, err := service.AddItem(ctx, owner.ID, product.ID, 1)
	require.NoError(t, err)

	updated, err := service.UpdateItem(ctx, item.ID, owner.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = service.UpdateItem(ctx, item.ID, owner.ID, 5)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = service.UpdateItem(ctx, item.ID, other.ID, 1)
	assert.ErrorIs(t, err, services.ErrNotFound, "lines of other users are invisible")

	assert.ErrorIs(t, service.RemoveItem(ctx, item.ID, other.ID), services.ErrNotFound)
	require.NoError(t, service.RemoveItem(ctx, item.ID, owner.ID))
	assert.ErrorIs(t, service.RemoveItem(ctx, item.ID, owner.ID), services.ErrNotFound)

	_, err = service.AddItem(ctx, owner.ID, product.ID, 1)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, other.ID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, service.ClearCart(ctx, owner.ID))
	require.NoError(t, service.ClearCart(ctx, owner.ID), "clearing an empty cart succeeds")

	cart, err := service.GetCart(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	cart, err = service.GetCart(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}
