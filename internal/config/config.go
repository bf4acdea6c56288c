package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	TablePrefix string `env:"TABLE_PREFIX"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"grimoires.db"`

	// Auth
	JWKSURL   string `env:"AUTH_JWKS_URL"`
	DevUserID string `env:"DEV_USER_ID" envDefault:"00000000-0000-0000-0000-000000000001"`

	// Images: files are served at ImageRoute; ImageBaseURL prefixes the URLs
	// handed to clients and may be absolute (CDN or another host)
	ImageDir     string `env:"IMAGE_DIR" envDefault:"./data/images"`
	ImageRoute   string `env:"IMAGE_ROUTE" envDefault:"/images"`
	ImageBaseURL string `env:"IMAGE_BASE_URL" envDefault:"/images"`

	// Rules override (embedded defaults when empty)
	RulesFile string `env:"RULES_FILE"`

	// Chat
	ChatRatePerMinute int `env:"CHAT_RATE_PER_MINUTE" envDefault:"60"`
	ChatBurst         int `env:"CHAT_BURST" envDefault:"10"`

	// Logging
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Tracing (disabled when endpoint is empty)
	OTelEndpoint    string `env:"OTEL_EXPORTER_ENDPOINT"`
	OTelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"grimoires"`

	// Debug flags
	Debug bool `env:"DEBUG"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown storage driver %q (supported: postgres, sqlite)", cfg.StorageDriver)
	}
	if cfg.StorageDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	cfg.ImageRoute = "/" + strings.Trim(strings.TrimSpace(cfg.ImageRoute), "/")
	if cfg.ImageRoute == "/" || strings.ContainsAny(cfg.ImageRoute, " {}") {
		return nil, fmt.Errorf("IMAGE_ROUTE must be a path such as /images, got %q", cfg.ImageRoute)
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}

	// Debug defaults to on outside production unless set explicitly
	if _, set := os.LookupEnv("DEBUG"); !set {
		cfg.Debug = cfg.Environment != "prod"
	}

	return cfg, nil
}

// ImageRoutePrefix is ImageRoute with a trailing slash, ready for a
// subtree mux pattern
func (c *Config) ImageRoutePrefix() string {
	return c.ImageRoute + "/"
}

// IsDev reports whether the server runs in the dev environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}
