package config

import (
	"time"

	redisclient "github.com/vietddude/tienda/internal/infra/redis"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database DatabaseConfig     `yaml:"database"`
	Redis    redisclient.Config `yaml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DatabaseConfig lists the connection strategies in the order they are tried.
type DatabaseConfig struct {
	Strategies []sqldb.Strategy `yaml:"strategies"`
	Fallback   FallbackConfig   `yaml:"fallback"`
}

// FallbackConfig controls sample data substitution. Enabled is a pointer so
// an absent key keeps the default.
type FallbackConfig struct {
	Enabled    *bool `yaml:"enabled"`
	FailLoudly bool  `yaml:"fail_loudly"`
}

// Active reports whether sample data may be served.
func (f FallbackConfig) Active() bool {
	if f.FailLoudly {
		return false
	}
	return f.Enabled == nil || *f.Enabled
}
