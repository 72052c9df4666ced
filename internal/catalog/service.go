package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
	"github.com/vietddude/tienda/internal/metrics"
)

// ErrUnavailable is returned instead of sample data when fallback is disabled.
var ErrUnavailable = errors.New("database unavailable")

// Source says where a result came from.
type Source string

const (
	SourceLive             Source = "live"
	SourceSample           Source = "sample"
	SourceSampleAfterError Source = "sample-after-error"
	SourceSnapshot         Source = "snapshot"
)

// Annotate appends the degraded-mode marker for s to msg.
func (s Source) Annotate(msg string) string {
	switch s {
	case SourceSample:
		return msg + " (sample data)"
	case SourceSampleAfterError:
		return msg + " (sample data - database connection issue)"
	case SourceSnapshot:
		return msg + " (cached data - database connection issue)"
	default:
		return msg
	}
}

// Degraded reports whether the data did not come from a live query.
func (s Source) Degraded() bool {
	return s != SourceLive && s != ""
}

// Result carries data together with its provenance. Total is set for lists.
type Result[T any] struct {
	Data   T
	Total  int
	Source Source
}

// Prober checks the database before each read.
type Prober interface {
	TestConnection(ctx context.Context) sqldb.ConnectionStatus
}

// SnapshotStore keeps the last successful live result per read.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, v any) error
	LoadSnapshot(ctx context.Context, key string, dst any) (time.Time, bool, error)
	ClearSnapshot(ctx context.Context, key string) error
}

// Repositories groups the catalog readers of one backing store.
type Repositories struct {
	Products   storage.ProductRepository
	Customers  storage.CustomerRepository
	Categories storage.CategoryRepository
}

// Options tunes the fallback policy.
type Options struct {
	// FailLoudly returns ErrUnavailable instead of sample data.
	FailLoudly bool
	Snapshots  SnapshotStore
	Logger     *slog.Logger
}

// Service answers catalog reads from the live database and substitutes the
// sample dataset when the database cannot be reached or a query fails.
type Service struct {
	prober     Prober
	live       Repositories
	sample     Repositories
	failLoudly bool
	snapshots  SnapshotStore
	log        *slog.Logger
}

func NewService(prober Prober, live, sample Repositories, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		prober:     prober,
		live:       live,
		sample:     sample,
		failLoudly: opts.FailLoudly,
		snapshots:  opts.Snapshots,
		log:        log,
	}
}

// fetch runs read against the live repositories, degrading to a snapshot or
// the sample repositories when the database is unreachable or the read fails.
func fetch[T any](
	ctx context.Context,
	s *Service,
	resource, key string,
	read func(context.Context, Repositories) (T, error),
) (Result[T], error) {
	status := s.prober.TestConnection(ctx)
	if !status.OK {
		return degrade(ctx, s, resource, key, SourceSample, errors.New(status.Reason), read)
	}

	data, err := read(ctx, s.live)
	if err == nil {
		s.saveSnapshot(ctx, key, data)
		return Result[T]{Data: data, Source: SourceLive}, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		// the record is gone; never serve it from the cache again
		s.clearSnapshot(ctx, key)
		return Result[T]{Source: SourceLive}, err
	}
	if ctx.Err() != nil {
		return Result[T]{Source: SourceLive}, err
	}
	return degrade(ctx, s, resource, key, SourceSampleAfterError, err, read)
}

func degrade[T any](
	ctx context.Context,
	s *Service,
	resource, key string,
	source Source,
	cause error,
	read func(context.Context, Repositories) (T, error),
) (Result[T], error) {
	if s.failLoudly {
		s.log.Error("Database unavailable, fallback disabled",
			"resource", resource,
			"error", cause,
		)
		return Result[T]{Source: source}, fmt.Errorf("%w: %w", ErrUnavailable, cause)
	}

	if s.snapshots != nil && key != "" {
		var data T
		savedAt, found, err := s.snapshots.LoadSnapshot(ctx, key, &data)
		switch {
		case err != nil:
			s.log.Warn("Failed to load snapshot", "key", key, "error", err)
		case found:
			metrics.FallbackResponsesTotal.WithLabelValues(resource, string(SourceSnapshot)).Inc()
			s.log.Warn("Serving cached data",
				"resource", resource,
				"saved_at", savedAt,
				"cause", cause,
			)
			return Result[T]{Data: data, Source: SourceSnapshot}, nil
		}
	}

	metrics.FallbackResponsesTotal.WithLabelValues(resource, string(source)).Inc()
	s.log.Warn("Serving sample data",
		"resource", resource,
		"source", source,
		"cause", cause,
	)
	data, err := read(ctx, s.sample)
	return Result[T]{Data: data, Source: source}, err
}

func (s *Service) saveSnapshot(ctx context.Context, key string, v any) {
	if s.snapshots == nil || key == "" {
		return
	}
	if err := s.snapshots.SaveSnapshot(ctx, key, v); err != nil {
		s.log.Debug("Failed to save snapshot", "key", key, "error", err)
	}
}

func (s *Service) clearSnapshot(ctx context.Context, key string) {
	if s.snapshots == nil || key == "" {
		return
	}
	if err := s.snapshots.ClearSnapshot(ctx, key); err != nil {
		s.log.Debug("Failed to clear snapshot", "key", key, "error", err)
	}
}

func withTotal[T any](res Result[[]T], err error) (Result[[]T], error) {
	res.Total = len(res.Data)
	return res, err
}

func idKey(prefix string, id int) string {
	return prefix + ":" + strconv.Itoa(id)
}

func searchKey(prefix, q string) string {
	return prefix + ":search:" + strings.ToLower(q)
}

// -----------------------------------------------------------------------------
// Products
// -----------------------------------------------------------------------------

func (s *Service) ListProducts(ctx context.Context) (Result[[]*domain.Product], error) {
	return withTotal(fetch(ctx, s, "products", "products:all",
		func(ctx context.Context, r Repositories) ([]*domain.Product, error) {
			return r.Products.List(ctx)
		}))
}

func (s *Service) GetProduct(ctx context.Context, id int) (Result[*domain.Product], error) {
	if err := validateID("product", id); err != nil {
		return Result[*domain.Product]{}, err
	}
	return fetch(ctx, s, "product", idKey("product", id),
		func(ctx context.Context, r Repositories) (*domain.Product, error) {
			return r.Products.GetByID(ctx, id)
		})
}

func (s *Service) ProductsByCategory(ctx context.Context, categoryID int) (Result[[]*domain.Product], error) {
	if err := validateID("category", categoryID); err != nil {
		return Result[[]*domain.Product]{}, err
	}
	return withTotal(fetch(ctx, s, "products", idKey("products:category", categoryID),
		func(ctx context.Context, r Repositories) ([]*domain.Product, error) {
			return r.Products.ListByCategory(ctx, categoryID)
		}))
}

func (s *Service) SearchProducts(ctx context.Context, q string) (Result[[]*domain.Product], error) {
	q, err := validateSearch(q)
	if err != nil {
		return Result[[]*domain.Product]{}, err
	}
	return withTotal(fetch(ctx, s, "products", searchKey("products", q),
		func(ctx context.Context, r Repositories) ([]*domain.Product, error) {
			return r.Products.Search(ctx, q)
		}))
}

// -----------------------------------------------------------------------------
// Customers
// -----------------------------------------------------------------------------

func (s *Service) ListCustomers(ctx context.Context) (Result[[]*domain.Customer], error) {
	return withTotal(fetch(ctx, s, "customers", "customers:all",
		func(ctx context.Context, r Repositories) ([]*domain.Customer, error) {
			return r.Customers.List(ctx)
		}))
}

func (s *Service) GetCustomer(ctx context.Context, id int) (Result[*domain.Customer], error) {
	if err := validateID("customer", id); err != nil {
		return Result[*domain.Customer]{}, err
	}
	return fetch(ctx, s, "customer", idKey("customer", id),
		func(ctx context.Context, r Repositories) (*domain.Customer, error) {
			return r.Customers.GetByID(ctx, id)
		})
}

func (s *Service) GetCustomerByEmail(ctx context.Context, email string) (Result[*domain.Customer], error) {
	email, err := validateEmail(email)
	if err != nil {
		return Result[*domain.Customer]{}, err
	}
	return fetch(ctx, s, "customer", "customer:email:"+strings.ToLower(email),
		func(ctx context.Context, r Repositories) (*domain.Customer, error) {
			return r.Customers.GetByEmail(ctx, email)
		})
}

func (s *Service) SearchCustomers(ctx context.Context, q string) (Result[[]*domain.Customer], error) {
	q, err := validateSearch(q)
	if err != nil {
		return Result[[]*domain.Customer]{}, err
	}
	return withTotal(fetch(ctx, s, "customers", searchKey("customers", q),
		func(ctx context.Context, r Repositories) ([]*domain.Customer, error) {
			return r.Customers.Search(ctx, q)
		}))
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

func (s *Service) ListCategories(ctx context.Context) (Result[[]*domain.Category], error) {
	return withTotal(fetch(ctx, s, "categories", "categories:all",
		func(ctx context.Context, r Repositories) ([]*domain.Category, error) {
			return r.Categories.List(ctx)
		}))
}

func (s *Service) GetCategory(ctx context.Context, id int) (Result[*domain.Category], error) {
	if err := validateID("category", id); err != nil {
		return Result[*domain.Category]{}, err
	}
	return fetch(ctx, s, "category", idKey("category", id),
		func(ctx context.Context, r Repositories) (*domain.Category, error) {
			return r.Categories.GetByID(ctx, id)
		})
}
