package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
)

// newTestStore opens a private in-memory SQLite database with the full schema.
func newTestStore(t *testing.T) *repositories.GORMStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := repositories.Open(repositories.DriverSQLite, dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMStore(db)
}

func createUser(t *testing.T, store repositories.Store, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    uuid.NewString() + "@" + gofakeit.DomainName(),
		Password: "hash",
		Role:     role,
		Active:   true,
	}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createProduct(t *testing.T, store repositories.Store, base int64, stock int, active bool) *models.Product {
	t.Helper()
	price := decimal.NewFromInt(base)
	product := &models.Product{
		Name:         gofakeit.ProductName(),
		BasePrice:    price,
		TaxRate:      models.DefaultTaxRate,
		PriceWithTax: pricing.PriceWithTax(price, models.DefaultTaxRate),
		Stock:        stock,
		MinStock:     models.DefaultMinStock,
		Active:       active,
	}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product
}

func createAddress(t *testing.T, store repositories.Store, userID uint) *models.ShippingAddress {
	t.Helper()
	address := &models.ShippingAddress{
		UserID:     userID,
		Alias:      "Casa",
		FullName:   gofakeit.Name(),
		Phone:      "+56912345678",
		Street:     gofakeit.Street(),
		Number:     "123",
		City:       gofakeit.City(),
		Region:     "Metropolitana",
		PostalCode: "8320000",
		Country:    models.DefaultCountry,
	}
	require.NoError(t, store.Addresses().Create(context.Background(), address))
	return address
}

func stockOf(t *testing.T, store repositories.Store, productID uint) int {
	t.Helper()
	product, err := store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
