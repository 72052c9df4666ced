package cli

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

func TestMigrate_PrintsAppliedMigrations(t *testing.T) {
	db := sqldb.New([]sqldb.Strategy{
		sqldb.Strategy{
			Name:   "local",
			Driver: sqldb.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "catalog.db"),
		}.WithDefaults(),
	}, sqldb.WithLogger(slog.New(slog.DiscardHandler)))
	defer db.Close()

	var out bytes.Buffer
	if err := migrate(context.Background(), db, &out); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "local") {
		t.Errorf("missing strategy name in output:\n%s", text)
	}
	if strings.Count(text, "true") != 2 {
		t.Errorf("expected two applied migrations:\n%s", text)
	}

	// The handle stays cached after migrating
	if db.State() != sqldb.StateConnected {
		t.Errorf("state = %s", db.State())
	}
}

func TestMigrate_NoReachableStrategy(t *testing.T) {
	db := sqldb.New(nil, sqldb.WithLogger(slog.New(slog.DiscardHandler)))
	defer db.Close()

	var out bytes.Buffer
	if err := migrate(context.Background(), db, &out); err == nil {
		t.Fatal("expected error without strategies")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
