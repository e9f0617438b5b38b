package orchestrator

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries environment-driven settings for the orchestrator
// process.
type Config struct {
	Port            string
	CatalogURL      string
	InventoryURL    string
	PaymentURL      string
	PurchaseURL     string
	RedisAddr       string
	RedisPassword   string
	CacheTTL        time.Duration
	MutationTimeout time.Duration
}

// LoadConfig reads environment variables, applies defaults, and
// validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		CatalogURL:    envDefault("CATALOG_URL", "http://localhost:8081"),
		InventoryURL:  envDefault("INVENTORY_URL", "http://localhost:8082"),
		PaymentURL:    envDefault("PAYMENT_URL", "http://localhost:8083"),
		PurchaseURL:   envDefault("PURCHASE_URL", "http://localhost:8084"),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
	ttl, err := envSeconds("CACHE_TTL_SECONDS")
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL = ttl
	timeout, err := envSeconds("MUTATION_TIMEOUT_SECONDS")
	if err != nil {
		return Config{}, err
	}
	cfg.MutationTimeout = timeout
	return cfg, nil
}

func envSeconds(key string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(seconds) * time.Second, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
