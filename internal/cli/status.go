package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe every configured connection strategy",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STRATEGY\tDRIVER\tAUTH\tTARGET\tRESULT\tLATENCY")

	failed := 0
	for _, s := range cfg.Database.Strategies {
		result, elapsed := probe(context.Background(), s)
		if result != "ok" {
			failed++
		}
		info := s.Info()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			info.Name, info.Driver, info.Auth, info.Target, result, elapsed.Round(time.Millisecond))
	}
	_ = w.Flush()

	if failed == len(cfg.Database.Strategies) {
		os.Exit(1)
	}
}

// probe opens the strategy on its own, without the facade's caching.
func probe(ctx context.Context, s sqldb.Strategy) (string, time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	s.Migrate = false
	conn, err := sqldb.OpenStrategy(ctx, s)
	elapsed := time.Since(start)
	if err != nil {
		return err.Error(), elapsed
	}
	_ = conn.Close()
	return "ok", elapsed
}
