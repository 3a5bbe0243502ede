package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tienda/internal/config"
	"tienda/internal/logging"
	"tienda/internal/repositories"
	"tienda/internal/server"
	"tienda/internal/services"
	"tienda/pkg/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tienda: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.DatabaseAutoMigrate {
		if err := repositories.Migrate(db); err != nil {
			return err
		}
	}
	if cfg.SeedDemoData {
		n, err := repositories.SeedDemoProducts(ctx, db)
		if err != nil {
			return err
		}
		logger.Info("seeded demo catalog", zap.Int("products", n))
	}
	store := repositories.NewGORMStore(db)

	// --- Message broker ---
	var publisher services.EventPublisher
	if cfg.RabbitMQEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExchange,
			Queue:    cfg.RabbitMQQueue,
		}, logger)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient

		watcher := services.NewLowStockWatcher(store.Products(), logger)
		if err := mqClient.Consume(ctx, watcher.HandleOrderEvent); err != nil {
			return err
		}
	} else {
		logger.Info("RabbitMQ disabled, order events will not be published")
	}

	// --- HTTP server ---
	app := newApp(cfg, store, publisher, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		errCh <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

// newApp wires the HTTP application for cfg.
func newApp(cfg config.Config, store repositories.Store, publisher services.EventPublisher, logger *zap.Logger) *fiber.App {
	return server.New(server.Options{
		Store:     store,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Publisher: publisher,
		Logger:    logger,
		AccessLog: true,
	})
}
