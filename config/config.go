package config

import (
	"os"
	"strings"
	"time"
)

const (
	defaultListingsDBName = "jobboard"
	defaultUserDataDBName = "jobboard_userdata"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - database.go: Listing, user data and Redis connections
//   - http.go: HTTP server configuration
//   - listings.go: Taxonomy catalog and listing store checks
//   - services.go: Service mode and alert digest configuration
//   - observability.go: Logging and metrics
type AppConfig struct {
	// IsDev relaxes production guardrails. Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	// ListingsDB holds the read-mostly listing table.
	ListingsDB DBConfig `envPrefix:"DB_"`
	// UserDataDB holds per-user documents (favorites, tracker, interviews, alerts).
	UserDataDB DBConfig    `envPrefix:"USERDATA_DB_"`
	Redis      RedisConfig `envPrefix:"REDIS_"`

	// UserDataCacheTTL bounds how long a cached user document is served from
	// Redis. Zero reads every document straight from Postgres.
	UserDataCacheTTL time.Duration `env:"USERDATA_CACHE_TTL" envDefault:"5m"`

	HTTP HTTPConfig

	// Services is a comma-delimited list of enabled services.
	Services string `env:"SERVICES" envDefault:"http"`

	Catalog     CatalogConfig
	Listings    ListingsConfig
	AlertDigest AlertDigestConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.ListingsDB.sanitize(defaultListingsDBName)
	c.UserDataDB.sanitize(defaultUserDataDBName)
	if c.UserDataCacheTTL < 0 {
		c.UserDataCacheTTL = 0
	}

	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Catalog.Sanitize()
	c.AlertDigest.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode falls back to NODE_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsAlertDigestEnabled returns true if the scheduled alert digest is enabled.
func (c *AppConfig) IsAlertDigestEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeAlertDigest]
}
