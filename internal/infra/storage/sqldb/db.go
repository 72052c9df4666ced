package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vietddude/tienda/internal/metrics"
)

// State of the cached connection handle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Opener opens and verifies a pool for one strategy. ctx carries the
// strategy's connect timeout.
type Opener func(ctx context.Context, s Strategy) (*sqlx.DB, error)

// ConnectionStatus is the result of TestConnection.
type ConnectionStatus struct {
	OK                bool   `json:"ok"`
	Strategy          *Info  `json:"strategy,omitempty"`
	ServerInfo        Row    `json:"serverInfo,omitempty"`
	Reason            string `json:"reason,omitempty"`
	FallbackAvailable bool   `json:"fallbackAvailable,omitempty"`
}

// DB is the connection facade: it walks the configured strategies in order,
// caches the first handle that works and drops it again when a statement
// fails. There is no retry loop; the next call starts a fresh walk.
type DB struct {
	strategies []Strategy
	open       Opener
	log        *slog.Logger

	mu     sync.Mutex
	conn   *sqlx.DB
	active Strategy
	state  State
}

// Option configures a DB.
type Option func(*DB)

// WithOpener replaces the driver opener. Tests use it to script failures.
func WithOpener(o Opener) Option {
	return func(db *DB) { db.open = o }
}

// WithLogger sets the logger used for connection events.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.log = l }
}

// New creates a facade over the given strategies. Nothing is opened until
// the first call that needs a connection.
func New(strategies []Strategy, opts ...Option) *DB {
	db := &DB{
		strategies: make([]Strategy, len(strategies)),
		open:       OpenStrategy,
		log:        slog.Default(),
	}
	for i, s := range strategies {
		db.strategies[i] = s.WithDefaults()
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// OpenStrategy opens the driver, applies pool settings, pings and runs
// migrations when the strategy asks for them.
func OpenStrategy(ctx context.Context, s Strategy) (*sqlx.DB, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	conn, err := sqlx.Open(s.Driver, s.DataSourceName())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if s.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(s.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}
	if s.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(s.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if s.Migrate {
		if err := Migrate(ctx, conn.DB, s.Dialect()); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return conn, nil
}

// Connect returns the cached handle, or walks the strategies until one
// connects.
func (db *DB) Connect(ctx context.Context) (*sqlx.DB, error) {
	conn, _, err := db.handle(ctx)
	return conn, err
}

func (db *DB) handle(ctx context.Context) (*sqlx.DB, Strategy, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn != nil {
		return db.conn, db.active, nil
	}
	if err := db.connectLocked(ctx); err != nil {
		return nil, Strategy{}, err
	}
	return db.conn, db.active, nil
}

func (db *DB) connectLocked(ctx context.Context) error {
	if len(db.strategies) == 0 {
		db.log.Error("No connection strategies configured")
		return &AllStrategiesFailedError{Last: ErrNoStrategies}
	}

	db.state = StateConnecting
	attempts := make([]*StrategyConnectError, 0, len(db.strategies))

	for _, s := range db.strategies {
		db.log.Debug("Trying connection strategy",
			"strategy", s.Name,
			"driver", s.Driver,
			"timeout", s.Timeout,
		)

		conn, err := db.attempt(ctx, s)
		if err != nil {
			attempts = append(attempts, &StrategyConnectError{Strategy: s.Name, Err: err})
			metrics.StrategyAttemptsTotal.WithLabelValues(s.Name, "failure").Inc()
			db.log.Warn("Connection strategy failed",
				"strategy", s.Name,
				"driver", s.Driver,
				"error", err,
			)
			continue
		}

		db.conn = conn
		db.active = s
		db.state = StateConnected
		metrics.StrategyAttemptsTotal.WithLabelValues(s.Name, "success").Inc()
		metrics.ActiveStrategy.Reset()
		metrics.ActiveStrategy.WithLabelValues(s.Name).Set(1)
		db.log.Info("Connected to database",
			"strategy", s.Name,
			"dialect", s.Dialect(),
			"attempts", len(attempts)+1,
		)
		return nil
	}

	db.state = StateDisconnected
	last := attempts[len(attempts)-1].Err
	db.log.Error("All connection strategies failed",
		"attempts", len(attempts),
		"error", last,
	)
	return &AllStrategiesFailedError{Attempts: attempts, Last: last}
}

func (db *DB) attempt(ctx context.Context, s Strategy) (*sqlx.DB, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return db.open(attemptCtx, s)
}

// invalidate drops conn if it is still the cached handle. A cancelled
// caller context says nothing about the connection, so it is ignored.
func (db *DB) invalidate(ctx context.Context, conn *sqlx.DB, cause error) {
	if ctx.Err() != nil {
		return
	}

	db.mu.Lock()
	if db.conn != conn {
		db.mu.Unlock()
		return
	}
	name := db.active.Name
	db.conn = nil
	db.active = Strategy{}
	db.state = StateDisconnected
	db.mu.Unlock()

	_ = conn.Close()
	metrics.ActiveStrategy.Reset()
	metrics.ConnectionInvalidationsTotal.WithLabelValues(name).Inc()
	db.log.Warn("Dropped database connection after query failure",
		"strategy", name,
		"error", cause,
	)
}

func (db *DB) observe(s Strategy, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.QueryDuration.WithLabelValues(string(s.Dialect()), result).
		Observe(time.Since(start).Seconds())
}

// Query runs text with :name parameters and returns every row.
func (db *DB) Query(ctx context.Context, text string, params map[string]any) ([]Row, error) {
	conn, s, err := db.handle(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := queryRows(ctx, conn, text, params)
	db.observe(s, start, err)
	if err != nil {
		db.invalidate(ctx, conn, err)
		return nil, &QueryError{Strategy: s.Name, Cause: err}
	}
	return rows, nil
}

func queryRows(ctx context.Context, conn *sqlx.DB, text string, params map[string]any) ([]Row, error) {
	if params == nil {
		params = map[string]any{}
	}
	rows, err := conn.NamedQueryContext(ctx, text, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0)
	for rows.Next() {
		r := make(map[string]any)
		if err := rows.MapScan(r); err != nil {
			return nil, err
		}
		out = append(out, normalize(r))
	}
	return out, rows.Err()
}

// Exec runs a statement that returns no rows.
func (db *DB) Exec(ctx context.Context, text string, params map[string]any) (sql.Result, error) {
	conn, s, err := db.handle(ctx)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]any{}
	}

	start := time.Now()
	res, err := conn.NamedExecContext(ctx, text, params)
	db.observe(s, start, err)
	if err != nil {
		db.invalidate(ctx, conn, err)
		return nil, &QueryError{Strategy: s.Name, Cause: err}
	}
	return res, nil
}

// Select runs the active dialect's text of stmt and scans the rows into dest,
// which must be a pointer to a slice.
func (db *DB) Select(ctx context.Context, dest any, stmt Statement, params map[string]any) error {
	conn, s, err := db.handle(ctx)
	if err != nil {
		return err
	}

	text, ok := stmt[s.Dialect()]
	if !ok {
		return &QueryError{
			Strategy: s.Name,
			Cause:    fmt.Errorf("statement has no %s text", s.Dialect()),
		}
	}
	if params == nil {
		params = map[string]any{}
	}

	start := time.Now()
	err = selectNamed(ctx, conn, dest, text, params)
	db.observe(s, start, err)
	if err != nil {
		db.invalidate(ctx, conn, err)
		return &QueryError{Strategy: s.Name, Cause: err}
	}
	return nil
}

func selectNamed(ctx context.Context, conn *sqlx.DB, dest any, text string, params map[string]any) error {
	query, args, err := sqlx.Named(text, params)
	if err != nil {
		return fmt.Errorf("failed to bind parameters: %w", err)
	}
	return conn.SelectContext(ctx, dest, conn.Rebind(query), args...)
}

// TestConnection connects if needed and runs the dialect's server info probe.
// It reports failures in the status instead of returning them.
func (db *DB) TestConnection(ctx context.Context) ConnectionStatus {
	_, s, err := db.handle(ctx)
	if err != nil {
		return ConnectionStatus{Reason: err.Error(), FallbackAvailable: true}
	}

	rows, err := db.Query(ctx, serverInfo[s.Dialect()], nil)
	if err != nil {
		return ConnectionStatus{Reason: err.Error(), FallbackAvailable: true}
	}

	info := s.Info()
	status := ConnectionStatus{OK: true, Strategy: &info}
	if len(rows) > 0 {
		status.ServerInfo = rows[0]
	}
	return status
}

// Healthy reports whether a trivial query returns a row.
func (db *DB) Healthy(ctx context.Context) bool {
	rows, err := db.Query(ctx, probeQuery, nil)
	return err == nil && len(rows) > 0
}

// Close releases the handle. It is safe to call more than once and before
// any connection was made.
func (db *DB) Close() error {
	db.mu.Lock()
	conn := db.conn
	name := db.active.Name
	db.conn = nil
	db.active = Strategy{}
	db.state = StateDisconnected
	db.mu.Unlock()

	if conn == nil {
		return nil
	}
	metrics.ActiveStrategy.Reset()
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.log.Info("Database connection closed", "strategy", name)
	return nil
}

// ActiveStrategy returns the strategy behind the cached handle.
func (db *DB) ActiveStrategy() (Strategy, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.active, db.conn != nil
}

// Dialect returns the dialect of the cached handle.
func (db *DB) Dialect() (Dialect, bool) {
	s, ok := db.ActiveStrategy()
	return s.Dialect(), ok
}

// State returns the connection state.
func (db *DB) State() State {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state
}

// Stats returns pool statistics, or zero values when disconnected.
func (db *DB) Stats() sql.DBStats {
	db.mu.Lock()
	conn := db.conn
	db.mu.Unlock()
	if conn == nil {
		return sql.DBStats{}
	}
	return conn.Stats()
}

// StartMetricsCollector starts a background goroutine to collect pool metrics.
func (db *DB) StartMetricsCollector(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := db.Stats()
				// MaxOpenConnections is 0 when disconnected or unlimited
				if stats.MaxOpenConnections > 0 {
					usage := float64(stats.OpenConnections) /
						float64(stats.MaxOpenConnections) * 100
					metrics.DBConnectionPoolUsage.Set(usage)
				}
			}
		}
	}()
}
