package payment

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the payment process.
type Config struct {
	Port         string
	PostgresDSN  string
	CatalogURL   string
	InventoryURL string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:         envDefault("PORT", "8083"),
		PostgresDSN:  strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogURL:   envDefault("CATALOG_URL", "http://localhost:8081"),
		InventoryURL: envDefault("INVENTORY_URL", "http://localhost:8082"),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
