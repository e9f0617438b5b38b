package inventory

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the inventory process.
type Config struct {
	Port        string
	PostgresDSN string
	CatalogURL  string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() Config {
	return Config{
		Port:        envDefault("PORT", "8082"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogURL:  envDefault("CATALOG_URL", "http://localhost:8081"),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
