package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the catalog schema and seed data to the first reachable strategy",
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	db := sqldb.New(cfg.Database.Strategies, sqldb.WithLogger(slog.Default()))
	err := migrate(context.Background(), db, os.Stdout)
	if closeErr := db.Close(); closeErr != nil {
		slog.Warn("Failed to close database", "error", closeErr)
	}
	if err != nil {
		slog.Error("Failed to migrate", "error", err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, db *sqldb.DB, out io.Writer) error {
	s, statuses, err := db.MigrateActive(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintf(w, "STRATEGY\t%s\n", s.Name)
	_, _ = fmt.Fprintln(w, "VERSION\tMIGRATION\tAPPLIED")
	for _, m := range statuses {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%v\n", m.Version, m.Path, m.Applied)
	}
	return w.Flush()
}
