// Package catalog boots the catalog service process.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/Apurer/go-order-saga/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/Apurer/go-order-saga/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-order-saga/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-order-saga/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-order-saga/internal/domains/catalog/ports"
	platformobservability "github.com/Apurer/go-order-saga/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-saga/internal/platform/postgres"
)

// Run boots the catalog HTTP service with observability and a repository
// wired from the environment.
func Run(ctx context.Context) error {
	const serviceName = "catalog-service"
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
	service := catalogapp.NewService(repo)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	cataloghttp.NewProductAPI(service).RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("catalog service listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("catalog service exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return catalogmemory.NewRepository(), cleanup
	}
	logger.Info("product repository configured with postgres")
	return catalogpostgres.NewRepository(db), cleanup
}
