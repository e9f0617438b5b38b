// Package inventory boots the inventory service process.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogclient "github.com/Apurer/go-order-saga/internal/clients/http/catalog"
	inventoryhttp "github.com/Apurer/go-order-saga/internal/domains/inventory/adapters/http"
	inventorymemory "github.com/Apurer/go-order-saga/internal/domains/inventory/adapters/memory"
	inventorypostgres "github.com/Apurer/go-order-saga/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/Apurer/go-order-saga/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/go-order-saga/internal/domains/inventory/ports"
	platformobservability "github.com/Apurer/go-order-saga/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-saga/internal/platform/postgres"
)

// Run boots the inventory HTTP service with observability, a repository,
// and the catalog gateway wired from the environment.
func Run(ctx context.Context) error {
	const serviceName = "inventory-service"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	cfg := LoadConfig()

	repo, cleanup := buildRepository(ctx, cfg, logger)
	defer cleanup()
	catalog, err := catalogclient.NewClient(cfg.CatalogURL, nil)
	if err != nil {
		return fmt.Errorf("build catalog client: %w", err)
	}
	service := inventoryapp.NewService(repo, catalog, inventoryapp.WithLogger(logger))

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	inventoryhttp.NewStockAPI(service).RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("inventory service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("inventory service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (inventoryports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return inventorymemory.NewRepository(), cleanup
	}
	logger.Info("stock repository configured with postgres")
	return inventorypostgres.NewRepository(db), cleanup
}
