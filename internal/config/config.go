// Package config holds runtime settings for the MindTrap client.
//
// Sources are layered: built-in defaults, then a JSON file (-c/-config),
// then environment variables, then command-line flags. Later sources win.
package config

import (
	"os"
	"time"
)

type Config struct {
	// BaseURL is the root of the backend REST API, including the version
	// prefix, e.g. http://localhost:8080/api/v1.
	BaseURL string `env:"MINDTRAP_BASE_URL"`

	// DatabaseDSN locates the local SQLite file holding the credential
	// store. Several processes may share it.
	DatabaseDSN string `env:"MINDTRAP_DATABASE_DSN"`

	// WatchInterval is how often the storage watcher polls for writes made
	// by other processes sharing the database.
	WatchInterval time.Duration `env:"MINDTRAP_WATCH_INTERVAL"`

	// HTTPTimeout bounds every backend request.
	HTTPTimeout time.Duration `env:"MINDTRAP_HTTP_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080/api/v1"
	c.DatabaseDSN = "mindtrap.db"
	c.WatchInterval = 2 * time.Second
	c.HTTPTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, environment, and command-line flags, in that order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
