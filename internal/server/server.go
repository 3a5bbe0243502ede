// Package server assembles the HTTP application from the store and its services.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"tienda/internal/handlers"
	"tienda/internal/middleware"
	"tienda/internal/repositories"
	"tienda/internal/services"
)

// Options carries everything New needs to wire the application.
type Options struct {
	Store     repositories.Store
	JWTSecret string
	JWTTTL    time.Duration
	// Publisher receives order events. Nil disables publishing.
	Publisher services.EventPublisher
	Logger    *zap.Logger
	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// New builds the Fiber app with every route under /api/v1 plus /health.
func New(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	authService := services.NewAuthService(opts.Store.Users(), opts.JWTSecret, opts.JWTTTL)
	productService := services.NewProductService(opts.Store.Products())
	addressService := services.NewAddressService(opts.Store)
	orderService := services.NewOrderService(opts.Store, opts.Publisher, log)
	cartService := services.NewCartService(opts.Store.Carts(), opts.Store.Products())

	app := fiber.New(fiber.Config{
		AppName:      "tienda",
		ErrorHandler: handlers.ErrorHandler(log),
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}

	authRequired := middleware.AuthRequired(authService, log)
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1, authRequired)
	handlers.NewProductHandler(productService, log).RegisterRoutes(apiV1, authRequired)
	handlers.NewAddressHandler(addressService, log).RegisterRoutes(apiV1, authRequired)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(apiV1, authRequired)
	handlers.NewCartHandler(cartService, log).RegisterRoutes(apiV1, authRequired)

	handlers.NewHealthHandler(opts.Store, log).RegisterRoutes(app)

	return app
}
