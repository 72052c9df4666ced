package sqldb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoStrategies is wrapped by AllStrategiesFailedError when nothing is configured.
var ErrNoStrategies = errors.New("no connection strategies configured")

// StrategyConnectError records one failed connection attempt. It is logged
// and collected, never returned on its own.
type StrategyConnectError struct {
	Strategy string
	Err      error
}

func (e *StrategyConnectError) Error() string {
	return fmt.Sprintf("strategy %q: %v", e.Strategy, e.Err)
}

func (e *StrategyConnectError) Unwrap() error { return e.Err }

// AllStrategiesFailedError is returned by Connect when every strategy failed.
type AllStrategiesFailedError struct {
	Attempts []*StrategyConnectError
	Last     error
}

func (e *AllStrategiesFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("all connection strategies failed: %v", e.Last)
	}
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Strategy
	}
	return fmt.Sprintf(
		"all connection strategies failed (%s): %v",
		strings.Join(names, ", "),
		e.Last,
	)
}

// Unwrap returns the last underlying error.
func (e *AllStrategiesFailedError) Unwrap() error { return e.Last }

// QueryError wraps a statement failure on an established connection.
type QueryError struct {
	Strategy string
	Cause    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed on %q: %v", e.Strategy, e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }
