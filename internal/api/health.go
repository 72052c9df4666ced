package api

import (
	"net/http"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

type healthReport struct {
	Status   string      `json:"status"`
	Database string      `json:"database"`
	Strategy *sqldb.Info `json:"strategy,omitempty"`
	Message  string      `json:"message"`
}

type databaseStatus struct {
	DatabaseInfo *domain.DatabaseInfo `json:"databaseInfo"`
	Strategy     *sqldb.Info          `json:"strategy"`
	ServerInfo   sqldb.Row            `json:"serverInfo,omitempty"`
}

// handleHealth never substitutes sample data: an unreachable database is
// reported as 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.db.Healthy(r.Context()) {
		failure(w, http.StatusServiceUnavailable, "Database health check failed",
			"API is degraded: database is not responding")
		return
	}

	report := healthReport{
		Status:   "healthy",
		Database: "connected",
		Message:  "API and database are working correctly",
	}
	if strategy, ok := s.db.ActiveStrategy(); ok {
		info := strategy.Info()
		report.Strategy = &info
	}
	success(w, report, "Health check passed")
}

func (s *Server) handleDatabaseStatus(w http.ResponseWriter, r *http.Request) {
	status := s.db.TestConnection(r.Context())
	if !status.OK {
		failure(w, http.StatusServiceUnavailable, status.Reason, "Database connection failed")
		return
	}

	info, err := s.stats.DatabaseInfo(r.Context())
	if err != nil {
		writeError(w, r, err, "detailed status", "")
		return
	}
	success(w, databaseStatus{
		DatabaseInfo: info,
		Strategy:     status.Strategy,
		ServerInfo:   status.ServerInfo,
	}, "Database status retrieved successfully")
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "statistics", "")
		return
	}
	success(w, stats, "Database statistics retrieved successfully")
}
