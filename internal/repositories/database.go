package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tienda/internal/logging"
	"tienda/internal/models"
	"tienda/internal/pricing"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured database and tunes its connection pool.
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logging.NewPrintfAdapter(logger), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB handle: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; one connection also keeps in-memory databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Migrate creates or updates every table owned by the application.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ShippingAddress{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderStatusHistory{},
		&models.CartItem{},
		&models.Sequence{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedDemoProducts fills an empty catalog with a few products.
func SeedDemoProducts(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	products := []models.Product{
		demoProduct("Laptop Inspiron 15", "Intel i5, 8GB RAM, 256GB SSD", 500000, 10),
		demoProduct("Teclado mecánico", "Switches rojos, layout latinoamericano", 45000, 25),
		demoProduct("Mouse inalámbrico", "Ergonómico, 2.4GHz", 15000, 50),
	}
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}

func demoProduct(name, description string, price int64, stock int) models.Product {
	base := decimal.NewFromInt(price)
	return models.Product{
		Name:         name,
		Description:  description,
		BasePrice:    base,
		TaxRate:      models.DefaultTaxRate,
		PriceWithTax: pricing.PriceWithTax(base, models.DefaultTaxRate),
		Stock:        stock,
		MinStock:     models.DefaultMinStock,
		Active:       true,
	}
}
