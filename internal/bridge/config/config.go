package config

import (
	"fmt"
	"strings"

	"cms-bridge/internal/bridge/router"

	"github.com/caarlos0/env/v6"
)

// LegacyConfig holds connection parameters for the legacy relational store.
type LegacyConfig struct {
	Host        string `env:"LEGACY_DB_HOST" envDefault:"localhost"`
	Port        int    `env:"LEGACY_DB_PORT" envDefault:"3306"`
	User        string `env:"LEGACY_DB_USER" envDefault:"root"`
	Password    string `env:"LEGACY_DB_PASSWORD"`
	Database    string `env:"LEGACY_DB_NAME"`
	TablePrefix string `env:"LEGACY_TABLE_PREFIX" envDefault:"wp_"`
	PoolSize    int    `env:"LEGACY_DB_POOL_SIZE" envDefault:"10"`
}

// DSN builds the MySQL connection string. parseTime is required so the
// legacy timestamp columns scan into time.Time.
func (c LegacyConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// PrimaryConfig holds connection parameters for the primary document store.
type PrimaryConfig struct {
	URI      string `env:"PRIMARY_MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"PRIMARY_MONGODB_DATABASE" envDefault:"cms_bridge"`
}

// RedisConfig holds the optional migration-progress publisher settings.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_PROGRESS_ENABLED" envDefault:"false"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	Database int    `env:"REDIS_DATABASE" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	Channel  string `env:"REDIS_PROGRESS_CHANNEL" envDefault:"bridge:migration:progress"`
}

// Addr returns host:port for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Config holds all configuration for the bridge module.
type Config struct {
	Mode               string `env:"BRIDGE_MODE" envDefault:"dual"`
	CollectionMapping  string `env:"COLLECTION_MAPPING"`
	GlobalMapping      string `env:"GLOBAL_MAPPING"`
	MigrationBatchSize int    `env:"MIGRATION_BATCH_SIZE" envDefault:"100"`

	Legacy  LegacyConfig
	Primary PrimaryConfig
	Redis   RedisConfig
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load bridge configuration from environment: %w", err)
	}
	if err := env.Parse(&cfg.Legacy); err != nil {
		return nil, fmt.Errorf("failed to load legacy store configuration from environment: %w", err)
	}
	if err := env.Parse(&cfg.Primary); err != nil {
		return nil, fmt.Errorf("failed to load primary store configuration from environment: %w", err)
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, fmt.Errorf("failed to load redis configuration from environment: %w", err)
	}

	if !router.ValidMode(router.Mode(cfg.Mode)) {
		return nil, fmt.Errorf("unknown bridge mode %q", cfg.Mode)
	}
	if cfg.MigrationBatchSize <= 0 {
		cfg.MigrationBatchSize = 100
	}
	if cfg.Mode != string(router.ModePrimaryOnly) && cfg.Legacy.Database == "" {
		return nil, fmt.Errorf("LEGACY_DB_NAME is required in %s mode", cfg.Mode)
	}

	return cfg, nil
}

// ParseMapping parses a "collection=backend,collection=backend" mapping
// string into router backend tags. Unknown backend tags are rejected so a
// typo does not silently route a collection to legacy.
func ParseMapping(raw string) (map[string]router.Backend, error) {
	mapping := map[string]router.Backend{}
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed mapping entry %q, want collection=backend", pair)
		}
		name := strings.TrimSpace(parts[0])
		backend := router.Backend(strings.TrimSpace(parts[1]))
		if backend != router.BackendPrimary && backend != router.BackendLegacy {
			return nil, fmt.Errorf("unknown backend %q for collection %q", backend, name)
		}
		mapping[name] = backend
	}
	return mapping, nil
}

// CollectionBackends returns the parsed per-collection mapping.
func (c *Config) CollectionBackends() (map[string]router.Backend, error) {
	return ParseMapping(c.CollectionMapping)
}

// GlobalBackends returns the parsed global-entity mapping.
func (c *Config) GlobalBackends() (map[string]router.Backend, error) {
	return ParseMapping(c.GlobalMapping)
}
