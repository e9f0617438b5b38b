// Package purchase boots the purchase record service process.
package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	purchasehttp "github.com/Apurer/go-order-saga/internal/domains/purchases/adapters/http"
	purchasememory "github.com/Apurer/go-order-saga/internal/domains/purchases/adapters/memory"
	purchasepostgres "github.com/Apurer/go-order-saga/internal/domains/purchases/adapters/persistence/postgres"
	purchaseapp "github.com/Apurer/go-order-saga/internal/domains/purchases/application"
	purchaseports "github.com/Apurer/go-order-saga/internal/domains/purchases/ports"
	platformobservability "github.com/Apurer/go-order-saga/internal/platform/observability"
)

// Run boots the purchase HTTP service with observability and a
// repository wired from the environment.
func Run(ctx context.Context) error {
	const serviceName = "purchase-service"
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
	service := purchaseapp.NewService(repo, purchaseapp.WithLogger(logger))

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	purchasehttp.NewPurchaseAPI(service).RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("purchase service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("purchase service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (purchaseports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory purchase repository")
		return purchasememory.NewRepository(), func() {}
	}
	repo, err := purchasepostgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to in-memory purchase repository", slog.String("error", err.Error()))
		return purchasememory.NewRepository(), func() {}
	}
	logger.Info("purchase repository configured with postgres")
	return repo, func() { _ = repo.Close() }
}
