// Package payment boots the payment service process.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogclient "github.com/Apurer/go-order-saga/internal/clients/http/catalog"
	inventoryclient "github.com/Apurer/go-order-saga/internal/clients/http/inventory"
	paymenthttp "github.com/Apurer/go-order-saga/internal/domains/payments/adapters/http"
	paymentmemory "github.com/Apurer/go-order-saga/internal/domains/payments/adapters/memory"
	paymentpostgres "github.com/Apurer/go-order-saga/internal/domains/payments/adapters/persistence/postgres"
	paymentapp "github.com/Apurer/go-order-saga/internal/domains/payments/application"
	paymentports "github.com/Apurer/go-order-saga/internal/domains/payments/ports"
	platformobservability "github.com/Apurer/go-order-saga/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-saga/internal/platform/postgres"
)

// Run boots the payment HTTP service with observability, a repository,
// and the catalog and inventory gateways wired from the environment.
func Run(ctx context.Context) error {
	const serviceName = "payment-service"
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
	inventory, err := inventoryclient.NewClient(cfg.InventoryURL, nil)
	if err != nil {
		return fmt.Errorf("build inventory client: %w", err)
	}
	service := paymentapp.NewService(repo, catalog, inventory, paymentapp.WithLogger(logger))

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	paymenthttp.NewPaymentAPI(service).RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("payment service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("payment service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (paymentports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return paymentmemory.NewRepository(), cleanup
	}
	logger.Info("payment repository configured with postgres")
	return paymentpostgres.NewRepository(db), cleanup
}
