package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	t.Setenv("TEST_REDIS_URL", "redis://localhost:6379/0")

	configContent := `
server:
  port: 8081
database:
  strategies:
    - name: windows-auth
      driver: sqlserver
      auth: integrated
      host: localhost
      instance: SQLEXPRESS
      database: AdventureWorksLT2022
    - name: sql-auth
      driver: sqlserver
      host: localhost
      port: 1433
      user: sa
      password: ${TEST_DB_PASSWORD}
      timeout: 5s
  fallback:
    fail_loudly: true
redis:
  url: ${TEST_REDIS_URL}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Server.Port)
	}
	if len(cfg.Database.Strategies) != 2 {
		t.Fatalf("Expected 2 strategies, got %d", len(cfg.Database.Strategies))
	}
	first, second := cfg.Database.Strategies[0], cfg.Database.Strategies[1]
	if first.Auth != sqldb.AuthIntegrated || first.Timeout != sqldb.DefaultConnectTimeout {
		t.Errorf("Unexpected first strategy %+v", first)
	}
	if second.Password != "s3cret" || second.Timeout != 5*time.Second || second.Auth != sqldb.AuthSQL {
		t.Errorf("Unexpected second strategy %+v", second)
	}
	if cfg.Database.Fallback.Active() {
		t.Error("fail_loudly should disable fallback")
	}
	if !cfg.Redis.Enabled() {
		t.Error("Expected redis to be enabled")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if len(cfg.Database.Strategies) != 1 {
		t.Fatalf("Expected one default strategy, got %d", len(cfg.Database.Strategies))
	}
	s := cfg.Database.Strategies[0]
	if s.Driver != sqldb.DriverSQLite || s.Path != DefaultSQLitePath || !s.Migrate {
		t.Errorf("Unexpected default strategy %+v", s)
	}
	if !cfg.Database.Fallback.Active() {
		t.Error("Fallback should be on by default")
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be off without a URL")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "server: [", "failed to parse"},
		{"unknown driver", "database:\n  strategies:\n    - name: x\n      driver: oracle\n", "unsupported driver"},
		{"missing host", "database:\n  strategies:\n    - name: x\n      driver: postgres\n", "host is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFallbackConfig_Active(t *testing.T) {
	off := false
	if (FallbackConfig{Enabled: &off}).Active() {
		t.Error("Explicitly disabled fallback reported active")
	}
}
