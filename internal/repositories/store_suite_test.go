package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tienda/internal/models"
	"tienda/internal/pricing"
	"tienda/internal/repositories"
)

// storeSuite runs the same repository cases against every supported database.
type storeSuite struct {
	suite.Suite

	connect func(t *testing.T) *gorm.DB
	db      *gorm.DB
	store   *repositories.GORMStore
}

func suiteRun(t *testing.T, connect func(t *testing.T) *gorm.DB) {
	suite.Run(t, &storeSuite{connect: connect})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suiteRun(t, func(t *testing.T) *gorm.DB {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
		db, err := repositories.Open(repositories.DriverSQLite, dsn, zap.NewNop())
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
		return db
	})
}

// before all tests in the suite
func (s *storeSuite) SetupSuite() {
	s.db = s.connect(s.T())
	s.Require().NoError(repositories.Migrate(s.db))
	s.store = repositories.NewGORMStore(s.db)
}

// before each test
func (s *storeSuite) SetupTest() {
	s.deleteAll()
}

func (s *storeSuite) deleteAll() {
	for _, table := range []string{
		"order_status_history", "order_lines", "cart_items", "orders",
		"shipping_addresses", "products", "users", "sequences",
	} {
		s.Require().NoError(s.db.Exec("DELETE FROM " + table).Error)
	}
}

func (s *storeSuite) newUser() *models.User {
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
		Role:     models.RoleCustomer,
		Active:   true,
	}
	s.Require().NoError(s.store.Users().Create(context.Background(), user))
	return user
}

func (s *storeSuite) newProduct(stock int) *models.Product {
	base := decimal.NewFromInt(int64(gofakeit.IntRange(100, 5000)))
	product := &models.Product{
		Name:         gofakeit.ProductName(),
		BasePrice:    base,
		TaxRate:      models.DefaultTaxRate,
		PriceWithTax: pricing.PriceWithTax(base, models.DefaultTaxRate),
		Stock:        stock,
		MinStock:     models.DefaultMinStock,
		Active:       true,
	}
	s.Require().NoError(s.store.Products().Create(context.Background(), product))
	return product
}

func (s *storeSuite) newOrder(user *models.User, product *models.Product, qty int) *models.Order {
	ctx := context.Background()
	line := pricing.PriceLine(product.BasePrice, product.TaxRate, qty)
	order := &models.Order{
		Number:        "PED-TEST-" + uuid.NewString()[:8],
		Status:        models.OrderStatusPending,
		Subtotal:      line.Subtotal,
		TotalTax:      line.Tax,
		ShippingCost:  decimal.Zero,
		Total:         line.Total,
		PaymentMethod: models.PaymentCash,
		RecipientName: user.Name,
		Phone:         "+56911111111",
		AddressLine:   "Av. Siempre Viva 742",
		City:          "Santiago",
		Region:        "Metropolitana",
		UserID:        user.ID,
	}
	s.Require().NoError(s.store.Orders().Create(ctx, order))
	s.Require().NoError(s.store.Orders().CreateLines(ctx, []models.OrderLine{{
		OrderID:          order.ID,
		ProductID:        product.ID,
		Quantity:         qty,
		UnitBasePrice:    product.BasePrice,
		TaxRate:          product.TaxRate,
		UnitPriceWithTax: line.UnitPriceWithTax,
		Subtotal:         line.Subtotal,
		TaxAmount:        line.Tax,
		Total:            line.Total,
	}}))
	s.Require().NoError(s.store.History().Append(ctx, &models.OrderStatusHistory{
		OrderID:   order.ID,
		NewStatus: models.OrderStatusPending,
		ActorID:   lo.ToPtr(user.ID),
	}))
	return order
}

func (s *storeSuite) TestDecrementStock() {
	ctx := context.Background()
	product := s.newProduct(10)

	tests := []struct {
		name      string
		id        uint
		qty       int
		wantErr   error
		wantStock int
	}{
		{name: "decrement: ok", id: product.ID, qty: 4, wantStock: 6},
		{name: "decrement exact remainder: ok", id: product.ID, qty: 6, wantStock: 0},
		{name: "decrement below zero: fail", id: product.ID, qty: 1, wantErr: repositories.ErrInsufficientStock, wantStock: 0},
		{name: "decrement unknown product: fail", id: product.ID + 1000, qty: 1, wantErr: repositories.ErrNotFound, wantStock: 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.store.Products().DecrementStock(ctx, tt.id, tt.qty)
			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)
			} else {
				s.NoError(err)
			}
			got, err := s.store.Products().GetByID(ctx, product.ID)
			s.Require().NoError(err)
			s.Equal(tt.wantStock, got.Stock)
		})
	}

	s.NoError(s.store.Products().IncrementStock(ctx, product.ID, 7))
	got, err := s.store.Products().GetByID(ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(7, got.Stock)
	s.ErrorIs(s.store.Products().IncrementStock(ctx, product.ID+1000, 1), repositories.ErrNotFound)
}

func (s *storeSuite) TestProductUpdateAndGetByIDs() {
	ctx := context.Background()
	a := s.newProduct(1)
	b := s.newProduct(2)

	a.Name = "Renamed"
	a.Active = false
	a.BasePrice = decimal.RequireFromString("10.50")
	s.Require().NoError(s.store.Products().Update(ctx, a, false))

	got, err := s.store.Products().GetByIDs(ctx, []uint{b.ID, a.ID, a.ID + b.ID + 1000})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(a.ID, got[0].ID)
	s.Equal("Renamed", got[0].Name)
	s.False(got[0].Active)
	s.True(decimal.RequireFromString("10.5").Equal(got[0].BasePrice))

	missing := &models.Product{ID: a.ID + b.ID + 1000, Name: "ghost"}
	s.ErrorIs(s.store.Products().Update(ctx, missing, false), repositories.ErrNotFound)
}

func (s *storeSuite) TestProductUpdateKeepsConcurrentStock() {
	ctx := context.Background()
	product := s.newProduct(10)

	// An order reserves stock after the product was read for editing.
	s.Require().NoError(s.store.Products().DecrementStock(ctx, product.ID, 4))
	product.Name = "Edited"
	s.Require().NoError(s.store.Products().Update(ctx, product, false))

	got, err := s.store.Products().GetByID(ctx, product.ID)
	s.Require().NoError(err)
	s.Equal("Edited", got.Name)
	s.Equal(6, got.Stock)

	// An explicit stock change is written.
	got.Stock = 25
	s.Require().NoError(s.store.Products().Update(ctx, got, true))
	got, err = s.store.Products().GetByID(ctx, product.ID)
	s.Require().NoError(err)
	s.Equal(25, got.Stock)
}

func (s *storeSuite) TestProductDeleteInUse() {
	ctx := context.Background()
	user := s.newUser()
	product := s.newProduct(5)
	s.newOrder(user, product, 1)

	s.ErrorIs(s.store.Products().Delete(ctx, product.ID), repositories.ErrInUse)

	spare := s.newProduct(5)
	s.NoError(s.store.Products().Delete(ctx, spare.ID))
	s.ErrorIs(s.store.Products().Delete(ctx, spare.ID), repositories.ErrNotFound)
}

func (s *storeSuite) TestUserUniqueEmail() {
	ctx := context.Background()
	user := s.newUser()

	dup := &models.User{Name: "Dup", Email: user.Email, Password: "hash", Role: models.RoleCustomer, Active: true}
	s.ErrorIs(s.store.Users().Create(ctx, dup), repositories.ErrDuplicate)

	s.Require().NoError(s.store.Users().UpdateRole(ctx, user.ID, models.RoleAdmin))
	got, err := s.store.Users().GetByEmail(ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, got.Role)

	_, err = s.store.Users().GetByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *storeSuite) TestSequenceNext() {
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := s.store.Sequences().Next(ctx, "order_number")
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	other, err := s.store.Sequences().Next(ctx, "invoice_number")
	s.Require().NoError(err)
	s.Equal(int64(1), other, "sequences are independent")
}

func (s *storeSuite) TestTransactionRollback() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Sequences().Next(ctx, "order_number"); err != nil {
			return err
		}
		product := &models.Product{Name: "Temporal", BasePrice: decimal.NewFromInt(1), TaxRate: decimal.Zero, PriceWithTax: decimal.NewFromInt(1), Active: true}
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	products, err := s.store.Products().GetAll(ctx)
	s.Require().NoError(err)
	s.Empty(products)

	next, err := s.store.Sequences().Next(ctx, "order_number")
	s.Require().NoError(err)
	s.Equal(int64(1), next)
}

func (s *storeSuite) TestOrderGetAndList() {
	ctx := context.Background()
	user := s.newUser()
	other := s.newUser()
	product := s.newProduct(10)
	first := s.newOrder(user, product, 2)
	second := s.newOrder(user, product, 1)
	s.newOrder(other, product, 1)

	got, err := s.store.Orders().GetByID(ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(first.Number, got.Number)
	s.Require().Len(got.Lines, 1)
	s.Require().NotNil(got.Lines[0].Product)
	s.Equal(product.ID, got.Lines[0].Product.ID)
	s.Require().Len(got.History, 1)
	s.Require().NotNil(got.History[0].Actor)
	s.Equal(user.ID, got.History[0].Actor.ID)
	s.Require().NotNil(got.User)
	s.Equal(user.Email, got.User.Email)

	wantTotals := pricing.PriceLine(product.BasePrice, product.TaxRate, 2)
	moneyCmp := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	s.Empty(cmp.Diff(wantTotals.Total, got.Total, moneyCmp))
	s.Empty(cmp.Diff(
		models.OrderLine{OrderID: first.ID, ProductID: product.ID, Quantity: 2, UnitBasePrice: product.BasePrice, TaxRate: product.TaxRate,
			UnitPriceWithTax: wantTotals.UnitPriceWithTax, Subtotal: wantTotals.Subtotal, TaxAmount: wantTotals.Tax, Total: wantTotals.Total},
		got.Lines[0],
		moneyCmp, cmpopts.IgnoreFields(models.OrderLine{}, "ID", "Product"),
	))

	mine, err := s.store.Orders().List(ctx, repositories.OrderFilter{UserID: lo.ToPtr(user.ID)})
	s.Require().NoError(err)
	s.Equal([]uint{second.ID, first.ID}, lo.Map(mine, func(o models.Order, _ int) uint { return o.ID }))

	all, err := s.store.Orders().List(ctx, repositories.OrderFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	_, err = s.store.Orders().GetByID(ctx, first.ID+second.ID+1000)
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *storeSuite) TestOrderUpdateStatusCompareAndSwap() {
	ctx := context.Background()
	user := s.newUser()
	order := s.newOrder(user, s.newProduct(10), 1)

	order.Status = models.OrderStatusConfirmed
	order.ConfirmedAt = lo.ToPtr(order.CreatedAt)
	order.AdminNotes = "ok"
	s.Require().NoError(s.store.Orders().UpdateStatus(ctx, order, models.OrderStatusPending))

	// A second writer that still believes the order is pending loses.
	order.Status = models.OrderStatusCancelled
	s.ErrorIs(s.store.Orders().UpdateStatus(ctx, order, models.OrderStatusPending), repositories.ErrStaleWrite)

	got, err := s.store.Orders().GetByID(ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusConfirmed, got.Status)
	s.Equal("ok", got.AdminNotes)
	s.NotNil(got.ConfirmedAt)
}

func (s *storeSuite) TestAddresses() {
	ctx := context.Background()
	user := s.newUser()
	other := s.newUser()

	mk := func(userID uint, primary bool) *models.ShippingAddress {
		a := &models.ShippingAddress{
			UserID: userID, Alias: "Casa", FullName: gofakeit.Name(), Phone: "+56900000000",
			Street: gofakeit.Street(), Number: "1", City: "Talca", Region: "Maule",
			PostalCode: "3460000", Country: models.DefaultCountry, IsPrimary: primary,
		}
		s.Require().NoError(s.store.Addresses().Create(ctx, a))
		return a
	}
	primary := mk(user.ID, true)
	mk(other.ID, true)

	s.Require().NoError(s.store.Addresses().ClearPrimary(ctx, user.ID))
	got, err := s.store.Addresses().GetForUser(ctx, primary.ID, user.ID)
	s.Require().NoError(err)
	s.False(got.IsPrimary)

	others, err := s.store.Addresses().ListByUser(ctx, other.ID)
	s.Require().NoError(err)
	s.Require().Len(others, 1)
	s.True(others[0].IsPrimary, "other users keep their primary address")

	_, err = s.store.Addresses().GetForUser(ctx, primary.ID, other.ID)
	s.ErrorIs(err, repositories.ErrNotFound)
	s.ErrorIs(s.store.Addresses().Delete(ctx, primary.ID, other.ID), repositories.ErrNotFound)
	s.NoError(s.store.Addresses().Delete(ctx, primary.ID, user.ID))
}

func (s *storeSuite) TestCart() {
	ctx := context.Background()
	user := s.newUser()
	a := s.newProduct(5)
	b := s.newProduct(5)

	itemA := &models.CartItem{UserID: user.ID, ProductID: a.ID, Quantity: 1}
	s.Require().NoError(s.store.Carts().Create(ctx, itemA))
	s.Require().NoError(s.store.Carts().Create(ctx, &models.CartItem{UserID: user.ID, ProductID: b.ID, Quantity: 2}))

	dup := &models.CartItem{UserID: user.ID, ProductID: a.ID, Quantity: 1}
	s.ErrorIs(s.store.Carts().Create(ctx, dup), repositories.ErrDuplicate)

	s.Require().NoError(s.store.Carts().UpdateQuantity(ctx, itemA.ID, 3))
	got, err := s.store.Carts().GetByProduct(ctx, user.ID, a.ID)
	s.Require().NoError(err)
	s.Equal(3, got.Quantity)

	items, err := s.store.Carts().ListByUser(ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	for _, item := range items {
		s.NotNil(item.Product)
	}

	// Deleting a product removes it from carts.
	s.Require().NoError(s.store.Products().Delete(ctx, b.ID))
	items, err = s.store.Carts().ListByUser(ctx, user.ID)
	s.Require().NoError(err)
	s.Len(items, 1)

	s.Require().NoError(s.store.Carts().Delete(ctx, itemA.ID))
	s.ErrorIs(s.store.Carts().Delete(ctx, itemA.ID), repositories.ErrNotFound)
	s.NoError(s.store.Carts().DeleteByUser(ctx, user.ID))
}

func (s *storeSuite) TestSeedDemoProducts() {
	ctx := context.Background()
	n, err := repositories.SeedDemoProducts(ctx, s.db)
	s.Require().NoError(err)
	s.Equal(3, n)

	n, err = repositories.SeedDemoProducts(ctx, s.db)
	s.Require().NoError(err)
	s.Zero(n, "a non-empty catalog is left alone")

	products, err := s.store.Products().GetAll(ctx)
	s.Require().NoError(err)
	for _, p := range products {
		s.True(pricing.PriceWithTax(p.BasePrice, p.TaxRate).Equal(p.PriceWithTax))
	}
	s.NoError(s.store.Ping(ctx))
}
