// Package orchestrator boots the order saga coordinator process.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogclient "github.com/Apurer/go-order-saga/internal/clients/http/catalog"
	inventoryclient "github.com/Apurer/go-order-saga/internal/clients/http/inventory"
	paymentclient "github.com/Apurer/go-order-saga/internal/clients/http/payment"
	purchaseclient "github.com/Apurer/go-order-saga/internal/clients/http/purchase"
	cachememory "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/cache/memory"
	cacheredis "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/cache/redis"
	ordershttp "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/http"
	ordersobs "github.com/Apurer/go-order-saga/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/go-order-saga/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-saga/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-order-saga/internal/platform/observability"
)

// Run boots the orchestrator HTTP API with observability, the stock and
// price cache, and the four collaborator clients wired.
func Run(ctx context.Context) error {
	const serviceName = "order-orchestrator"
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
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	clients, err := buildClients(cfg)
	if err != nil {
		return err
	}
	cache, cleanupCache := buildCache(ctx, cfg, logger)
	defer cleanupCache()

	options := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if cfg.CacheTTL > 0 {
		options = append(options, ordersapp.WithCacheTTL(cfg.CacheTTL))
	}
	if cfg.MutationTimeout > 0 {
		options = append(options, ordersapp.WithMutationTimeout(cfg.MutationTimeout))
	}
	coreService := ordersapp.NewService(clients, cache, options...)
	service := ordersobs.New(
		coreService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	ordershttp.NewOrderAPI(service).RegisterRoutes(router)

	addr := ":" + cfg.Port
	logger.Info("order orchestrator listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("order orchestrator exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildClients(cfg Config) (ordersapp.Clients, error) {
	catalog, err := catalogclient.NewClient(cfg.CatalogURL, nil)
	if err != nil {
		return ordersapp.Clients{}, fmt.Errorf("build catalog client: %w", err)
	}
	inventory, err := inventoryclient.NewClient(cfg.InventoryURL, nil)
	if err != nil {
		return ordersapp.Clients{}, fmt.Errorf("build inventory client: %w", err)
	}
	payments, err := paymentclient.NewClient(cfg.PaymentURL, nil)
	if err != nil {
		return ordersapp.Clients{}, fmt.Errorf("build payment client: %w", err)
	}
	purchases, err := purchaseclient.NewClient(cfg.PurchaseURL, nil)
	if err != nil {
		return ordersapp.Clients{}, fmt.Errorf("build purchase client: %w", err)
	}
	return ordersapp.Clients{
		Catalog:   catalog,
		Inventory: inventory,
		Payments:  payments,
		Purchases: purchases,
	}, nil
}

// buildCache prefers Redis when REDIS_ADDR is set and reachable,
// falling back to the in-process cache otherwise.
func buildCache(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.Cache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-process cache")
		return cachememory.NewCache(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process cache", slog.String("error", err.Error()))
		_ = client.Close()
		return cachememory.NewCache(), func() {}
	}
	logger.Info("stock and price cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return cacheredis.NewCache(client), func() { _ = client.Close() }
}
