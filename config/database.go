package config

import "strings"

// DBConfig contains PostgreSQL database configuration. The listing store and
// the user data store each get their own copy under a different prefix.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"jobboard"`
	Password string `env:"PASSWORD" envDefault:"jobboard"`
	// Name defaults per database; see AppConfig.Sanitize.
	Name    string `env:"NAME"`
	SSLMode string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// MaxOpenConns caps the pool. Listing searches hold two statements per request.
	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"25"`
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

func (d *DBConfig) sanitize(defaultName string) {
	d.Host = strings.TrimSpace(d.Host)
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port <= 0 || d.Port > 65535 {
		d.Port = 5432
	}
	if d.Name = strings.TrimSpace(d.Name); d.Name == "" {
		d.Name = defaultName
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns < 2 {
		d.MaxOpenConns = 2
	}
}

// RedisConfig contains Redis configuration. Redis holds sessions, the user
// data cache and the alert digest lock.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// KeyPrefix namespaces cache and lock keys. Sessions keep their own "session:" prefix.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"jobboard:"`
}
