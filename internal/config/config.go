package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	Port   string `envconfig:"PORT" default:"8080"`
	DBPath string `envconfig:"DB_PATH" default:"./deck_checker.db"`

	// Shopify Admin API credentials. All three are required before any
	// sync can run; validated at use, not at load, so the read-only
	// endpoints work without them.
	ShopifyDomain       string `envconfig:"SHOPIFY_DOMAIN"`
	ShopifyClientID     string `envconfig:"SHOPIFY_CLIENT_ID"`
	ShopifyClientSecret string `envconfig:"SHOPIFY_CLIENT_SECRET"`
	ShopifyAPIVersion   string `envconfig:"SHOPIFY_API_VERSION" default:"2024-10"`

	SyncSchedule  string `envconfig:"SYNC_SCHEDULE" default:"0 */6 * * *"`
	SyncOnStartup bool   `envconfig:"SYNC_ON_STARTUP" default:"false"`

	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
