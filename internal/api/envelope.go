package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vietddude/tienda/internal/catalog"
	"github.com/vietddude/tienda/internal/infra/storage"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Total      *int   `json:"total,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Timestamp  string `json:"timestamp"`
}

const dataSourceHeader = "X-Data-Source"

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

func success(w http.ResponseWriter, data any, message string) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

func failure(w http.ResponseWriter, status int, errText, message string) {
	writeJSON(w, status, Envelope{
		Success:    false,
		Message:    message,
		Error:      errText,
		StatusCode: status,
		Timestamp:  timestamp(),
	})
}

// writeResult renders a catalog result, marking degraded data in the message
// and the X-Data-Source header.
func writeResult[T any](w http.ResponseWriter, res catalog.Result[T], message string, list bool) {
	w.Header().Set(dataSourceHeader, string(res.Source))
	if res.Source.Degraded() {
		// sample and cached data must not outlive the outage in client caches
		w.Header().Set("Cache-Control", "no-store")
	}
	env := Envelope{
		Success:   true,
		Message:   res.Source.Annotate(message),
		Data:      any(res.Data),
		Timestamp: timestamp(),
	}
	if list {
		total := res.Total
		env.Total = &total
	}
	writeJSON(w, http.StatusOK, env)
}

// writeError maps err to a status and an error envelope. notFound is the
// detail used for storage.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, what, notFound string) {
	var (
		verr   *catalog.ValidationError
		allErr *sqldb.AllStrategiesFailedError
		qerr   *sqldb.QueryError
	)
	switch {
	case errors.As(err, &verr):
		failure(w, http.StatusBadRequest, verr.Title, verr.Message)
	case errors.Is(err, storage.ErrNotFound):
		failure(w, http.StatusNotFound, what+" not found", notFound)
	case errors.Is(err, catalog.ErrUnavailable),
		errors.Is(err, sqldb.ErrNoStrategies),
		errors.As(err, &allErr):
		failure(w, http.StatusServiceUnavailable, "Database connection refused", "Database server is not available")
	case errors.As(err, &qerr):
		slog.Error("Query failed", "path", r.URL.Path, "strategy", qerr.Strategy, "error", qerr.Cause)
		failure(w, http.StatusInternalServerError, qerr.Cause.Error(), "Failed to perform "+what+" lookup")
	default:
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		failure(w, http.StatusInternalServerError, err.Error(), fmt.Sprintf("Failed to perform %s lookup", what))
	}
}

// writeSourceError is writeError for failures that come with a catalog
// result: the data source header is set and a not-found detail carries the
// degraded marker, as on successful responses.
func writeSourceError(w http.ResponseWriter, r *http.Request, err error, source catalog.Source, what, notFound string) {
	if source != "" {
		w.Header().Set(dataSourceHeader, string(source))
	}
	if notFound != "" {
		notFound = source.Annotate(notFound)
	}
	writeError(w, r, err, what, notFound)
}
