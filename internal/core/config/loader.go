package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

const (
	DefaultPort       = 3000
	DefaultSQLitePath = "./adventureworks.db"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, expanding environment variables first, and fills in
// defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	for _, s := range cfg.Database.Strategies {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid database config: %w", err)
		}
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *AppConfig {
	var cfg AppConfig
	cfg.applyDefaults()
	return &cfg
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if len(c.Database.Strategies) == 0 {
		c.Database.Strategies = []sqldb.Strategy{{
			Name:    "local-sqlite",
			Driver:  sqldb.DriverSQLite,
			Path:    DefaultSQLitePath,
			Migrate: true,
		}}
	}
	for i := range c.Database.Strategies {
		c.Database.Strategies[i] = c.Database.Strategies[i].WithDefaults()
	}
}
