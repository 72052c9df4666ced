package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/tienda/internal/api"
	"github.com/vietddude/tienda/internal/catalog"
	"github.com/vietddude/tienda/internal/core/config"
	redisclient "github.com/vietddude/tienda/internal/infra/redis"
	"github.com/vietddude/tienda/internal/infra/storage/memory"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

// App owns the connection facade and everything built on top of it.
type App struct {
	cfg         *config.AppConfig
	db          *sqldb.DB
	redisClient *redisclient.Client
	catalog     *catalog.Service
	server      *api.Server
	log         *slog.Logger
	done        chan struct{}
}

// New wires the application. Nothing connects to the database yet.
func New(cfg *config.AppConfig, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// 1. Connection facade
	db := sqldb.New(cfg.Database.Strategies, sqldb.WithLogger(log))

	// 2. Optional snapshot cache
	var redisClient *redisclient.Client
	if cfg.Redis.Enabled() {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		log.Info("Using Redis snapshot cache")
	}

	// 3. Catalog service over live and sample repositories
	sample := memory.NewDataset(time.Now())
	opts := catalog.Options{
		FailLoudly: !cfg.Database.Fallback.Active(),
		Logger:     log,
	}
	if redisClient != nil {
		opts.Snapshots = redisClient
	}
	svc := catalog.NewService(db,
		catalog.Repositories{
			Products:   sqldb.NewProductRepo(db),
			Customers:  sqldb.NewCustomerRepo(db),
			Categories: sqldb.NewCategoryRepo(db),
		},
		catalog.Repositories{
			Products:   memory.NewProductRepo(sample),
			Customers:  memory.NewCustomerRepo(sample),
			Categories: memory.NewCategoryRepo(sample),
		},
		opts,
	)

	// 4. HTTP server
	server := api.NewServer(api.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, svc, db, sqldb.NewStatsRepo(db), log)

	return &App{
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
		catalog:     svc,
		server:      server,
		log:         log,
	}, nil
}

// Handler exposes the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// DB returns the connection facade.
func (a *App) DB() *sqldb.DB {
	return a.db
}

// Start binds the HTTP port, connects once, then starts background
// collectors and the server. Only a failed bind is fatal: after a failed
// first connect reads fall back until a later request reconnects.
func (a *App) Start(ctx context.Context) error {
	ln, err := a.server.Listen()
	if err != nil {
		return err
	}

	if _, err := a.db.Connect(ctx); err != nil {
		if !a.cfg.Database.Fallback.Active() {
			a.log.Warn("Starting without a database, requests will fail until it is reachable", "error", err)
		} else {
			a.log.Warn("Starting in fallback mode, serving sample data", "error", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Ping(ctx); err != nil {
			a.log.Warn("Redis is not reachable, snapshots unavailable", "error", err)
		}
	}

	a.db.StartMetricsCollector(ctx)

	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := a.server.Serve(ln); err != nil {
			a.log.Error("API server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down and releases the database and Redis.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping Tienda...")

	var errs []error
	if err := a.server.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop api server: %w", err))
	}
	if a.done != nil {
		select {
		case <-a.done:
		case <-ctx.Done():
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
