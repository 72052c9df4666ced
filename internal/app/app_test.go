package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/vietddude/tienda/internal/core/config"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

func quiet() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sqliteConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Database.Strategies = []sqldb.Strategy{
		sqldb.Strategy{
			Name:    "local",
			Driver:  sqldb.DriverSQLite,
			Path:    filepath.Join(t.TempDir(), "catalog.db"),
			Migrate: true,
		}.WithDefaults(),
	}
	return cfg
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Total   int    `json:"total"`
}

func getJSON(t *testing.T, h http.Handler, path string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return rec.Code, env
}

func TestApp_ServesLiveData(t *testing.T) {
	a, err := New(sqliteConfig(t), quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	code, env := getJSON(t, a.Handler(), "/api/products")
	if code != http.StatusOK || env.Message != "Products retrieved successfully" {
		t.Fatalf("status %d message %q", code, env.Message)
	}
	if env.Total != 5 {
		t.Errorf("expected 5 products on sale, got %d", env.Total)
	}

	code, _ = getJSON(t, a.Handler(), "/api/health")
	if code != http.StatusOK {
		t.Errorf("health status = %d", code)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := a.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if a.DB().State() != sqldb.StateDisconnected {
		t.Errorf("expected disconnected after Stop, got %s", a.DB().State())
	}
}

func TestApp_FallsBackWithoutDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Strategies = []sqldb.Strategy{unreachableStrategy()}

	a, err := New(cfg, quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Stop(context.Background())

	code, env := getJSON(t, a.Handler(), "/api/customers")
	if code != http.StatusOK || env.Total != 2 {
		t.Fatalf("status %d total %d", code, env.Total)
	}
	if env.Message != "Customers retrieved successfully (sample data)" {
		t.Errorf("message = %q", env.Message)
	}

	code, _ = getJSON(t, a.Handler(), "/api/health")
	if code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d, want 503", code)
	}
}

func unreachableStrategy() sqldb.Strategy {
	return sqldb.Strategy{
		Name:    "unreachable",
		Driver:  sqldb.DriverPostgres,
		Host:    "127.0.0.1",
		Port:    1,
		Timeout: time.Second,
	}.WithDefaults()
}

func TestNew_InvalidRedisURL(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.URL = "not-a-url"
	if _, err := New(cfg, quiet()); err == nil {
		t.Error("expected error for invalid redis url")
	}
}

func TestApp_UnreachableRedisIsNotFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Database.Strategies = []sqldb.Strategy{unreachableStrategy()}
	cfg.Redis.URL = "redis://127.0.0.1:1/0"

	a, err := New(cfg, quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop(context.Background())

	code, env := getJSON(t, a.Handler(), "/api/products")
	if code != http.StatusOK || env.Total != 3 {
		t.Fatalf("status %d total %d", code, env.Total)
	}
	if env.Message != "Products retrieved successfully (sample data)" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestApp_StartFailsWhenPortIsTaken(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	cfg := sqliteConfig(t)
	cfg.Server.Port = ln.Addr().(*net.TCPAddr).Port

	a, err := New(cfg, quiet())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Stop(context.Background())

	if err := a.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail on a bound port")
	}
	if a.DB().State() == sqldb.StateConnected {
		t.Error("database should not be opened when the port cannot be bound")
	}
}
