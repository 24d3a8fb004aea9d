package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sku-tracker/internal/core/cache"
	"sku-tracker/internal/core/config"
	"sku-tracker/internal/core/database"
	"sku-tracker/internal/core/logger"
	"sku-tracker/internal/core/server"
	connectorhandler "sku-tracker/internal/features/connectors/handler"
	"sku-tracker/internal/features/connectors/registry"
	connectorservice "sku-tracker/internal/features/connectors/service"
	skuadapters "sku-tracker/internal/features/skus/adapters"
	skuhandler "sku-tracker/internal/features/skus/handler"
	skuports "sku-tracker/internal/features/skus/ports"
	skuservice "sku-tracker/internal/features/skus/service"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	srv := server.New(cfg)

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		srv.AddHealthCheck("database", db.PingContext)
	}

	tokenCache, err := cache.New(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to configure token cache: %w", err)
	}
	defer tokenCache.Close()

	if cfg.Redis.URL != "" {
		srv.AddHealthCheck("redis", tokenCache.Ping)
		l.Info("Shared OAuth token cache enabled")
	}

	var publisher skuports.EventPublisher
	ingestOpts := []connectorservice.Option{connectorservice.WithConcurrency(cfg.Ingest.Concurrency)}
	if cfg.NATS.URL != "" {
		natsPublisher, err := skuadapters.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer natsPublisher.Close()

		publisher = natsPublisher
		ingestOpts = append(ingestOpts, connectorservice.WithPublisher(natsPublisher))
		l.Info("Event publishing enabled", zap.String("subject", cfg.NATS.Subject))
	}

	dispatcher := registry.NewRegistry(cfg.Providers, cfg.Proxy, registry.WithTokenCache(tokenCache))

	skuSvc := skuservice.NewSkuService(store, publisher)
	ingestionSvc := connectorservice.NewIngestionService(dispatcher, store, ingestOpts...)

	api := srv.API()
	skuhandler.NewSkuHandler(skuSvc).Register(api)
	connectorhandler.NewConnectorHandler(ingestionSvc).Register(api)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCtx.Done():
	}

	l.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore returns the Postgres store when DATABASE_URL is set and the in-memory store otherwise.
// The returned db is nil for the in-memory store.
func openStore(ctx context.Context, cfg *config.AppConfig) (skuports.Store, *sqlx.DB, error) {
	l := logger.Get()

	if cfg.Database.URL == "" {
		l.Warn("DATABASE_URL not set, using in-memory store")
		return skuadapters.NewMemoryRepository(), nil, nil
	}

	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.MigrateOnStart {
		n, err := database.Migrate(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		l.Info("Migrations applied", zap.Int("count", n))
	}

	return skuadapters.NewPostgresRepository(db), db, nil
}
