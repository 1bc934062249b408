package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration read from the environment
type Config struct {
	Host string `env:"VERSFLIP_HOST" envDefault:""`
	Port int    `env:"VERSFLIP_PORT" envDefault:"8080"`

	// StorageType selects the account store backend ("memory" or "sqlite")
	StorageType string `env:"VERSFLIP_STORAGE" envDefault:"memory"`
	// SQLitePath is the account database file (used when StorageType is sqlite)
	SQLitePath string `env:"VERSFLIP_DB" envDefault:"versflip.db"`

	// SessionStoreType selects the anonymous balance backend ("memory" or "redis")
	SessionStoreType string `env:"VERSFLIP_SESSION_STORE" envDefault:"memory"`
	// RedisURL is required when SessionStoreType is redis
	RedisURL string `env:"VERSFLIP_REDIS_URL" envDefault:""`
}

// Load parses configuration from environment variables
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
