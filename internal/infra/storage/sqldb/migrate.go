package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

var migrationSets = map[Dialect]struct {
	dir     string
	dialect goose.Dialect
}{
	DialectSQLite:   {dir: "migrations/sqlite", dialect: goose.DialectSQLite3},
	DialectPostgres: {dir: "migrations/postgres", dialect: goose.DialectPostgres},
}

// ErrNoMigrations is returned for dialects whose schema is managed elsewhere.
// SQL Server points at an existing AdventureWorksLT database.
var ErrNoMigrations = errors.New("no migrations for dialect")

func provider(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	set, ok := migrationSets[dialect]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoMigrations, dialect)
	}
	fsys, err := fs.Sub(migrationsFS, set.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	p, err := goose.NewProvider(set.dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

// Migrate applies pending migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	p, err := provider(db, dialect)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}
	return nil
}

// MigrationStatus is one migration and whether it has been applied.
type MigrationStatus struct {
	Version int64
	Path    string
	Applied bool
}

// Migrations lists the migrations known for the dialect and their state.
func Migrations(ctx context.Context, db *sql.DB, dialect Dialect) ([]MigrationStatus, error) {
	p, err := provider(db, dialect)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version: st.Source.Version,
			Path:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return out, nil
}

// MigrateActive runs migrations over the facade's current connection and
// reports the resulting migration state.
func (db *DB) MigrateActive(ctx context.Context) (Strategy, []MigrationStatus, error) {
	conn, s, err := db.handle(ctx)
	if err != nil {
		return Strategy{}, nil, err
	}
	if err := Migrate(ctx, conn.DB, s.Dialect()); err != nil {
		return s, nil, err
	}
	statuses, err := Migrations(ctx, conn.DB, s.Dialect())
	if err != nil {
		return s, nil, err
	}
	return s, statuses, nil
}
