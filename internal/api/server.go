package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/tienda/internal/catalog"
	"github.com/vietddude/tienda/internal/infra/storage"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

// Database is the part of the connection facade the health endpoints use.
type Database interface {
	TestConnection(ctx context.Context) sqldb.ConnectionStatus
	Healthy(ctx context.Context) bool
	ActiveStrategy() (sqldb.Strategy, bool)
}

// Config holds HTTP server settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the catalog API, health endpoints and metrics.
type Server struct {
	catalog *catalog.Service
	db      Database
	stats   storage.StatsRepository
	log     *slog.Logger
	server  *http.Server
}

// NewServer creates a new API server. log may be nil.
func NewServer(cfg Config, svc *catalog.Service, db Database, stats storage.StatsRepository, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		catalog: svc,
		db:      db,
		stats:   stats,
		log:     log,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = observe(log)(handler)
	handler = requestID(handler)
	handler = cors(handler)
	handler = recoverer(log)(handler)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /api", s.handleIndex)
	mux.HandleFunc("GET /api/{$}", s.handleIndex)

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/search", s.handleSearchProducts)
	mux.HandleFunc("GET /api/products/category/{categoryId}", s.handleProductsByCategory)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)

	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("GET /api/customers/search", s.handleSearchCustomers)
	mux.HandleFunc("GET /api/customers/email/{email}", s.handleCustomerByEmail)
	mux.HandleFunc("GET /api/customers/{id}", s.handleGetCustomer)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/health/database", s.handleDatabaseStatus)
	mux.HandleFunc("GET /api/db-status", s.handleDatabaseStatus)
	mux.HandleFunc("GET /api/health/stats", s.handleStats)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Listen binds the listen address so startup errors surface before serving.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return ln, nil
}

// Serve serves on ln. It blocks until the server stops and returns nil
// after a graceful Stop.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("API server listening", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	failure(w, http.StatusNotFound, "Route not found", fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path))
}
