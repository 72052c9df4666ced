package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
	"github.com/vietddude/tienda/internal/infra/storage/memory"
	"github.com/vietddude/tienda/internal/infra/storage/sqldb"
)

// =============================================================================
// Stubs
// =============================================================================

type stubProber struct {
	ok    bool
	calls int
}

func (p *stubProber) TestConnection(ctx context.Context) sqldb.ConnectionStatus {
	p.calls++
	if p.ok {
		return sqldb.ConnectionStatus{OK: true}
	}
	return sqldb.ConnectionStatus{Reason: "connection refused", FallbackAvailable: true}
}

type stubProductRepo struct {
	products []*domain.Product
	err      error
}

func (r *stubProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.products, r.err
}
func (r *stubProductRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, storage.ErrNotFound
}
func (r *stubProductRepo) ListByCategory(ctx context.Context, id int) ([]*domain.Product, error) {
	return r.products, r.err
}
func (r *stubProductRepo) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	return r.products, r.err
}

// memorySnapshots is an in-process SnapshotStore.
type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memorySnapshots) SaveSnapshot(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = b
	return nil
}

func (m *memorySnapshots) LoadSnapshot(ctx context.Context, key string, dst any) (time.Time, bool, error) {
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return time.Time{}, false, nil
	}
	return time.Now(), true, json.Unmarshal(b, dst)
}

func (m *memorySnapshots) ClearSnapshot(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func sampleRepos() Repositories {
	ds := memory.NewDataset(time.Now())
	return Repositories{
		Products:   memory.NewProductRepo(ds),
		Customers:  memory.NewCustomerRepo(ds),
		Categories: memory.NewCategoryRepo(ds),
	}
}

func quietOptions() Options {
	return Options{Logger: slog.New(slog.DiscardHandler)}
}

func liveProducts(repo *stubProductRepo) Repositories {
	r := sampleRepos()
	r.Products = repo
	return r
}

// =============================================================================
// Tests
// =============================================================================

func TestService_LiveData(t *testing.T) {
	live := &stubProductRepo{products: []*domain.Product{{ID: 10, Name: "Live Bike"}}}
	svc := NewService(&stubProber{ok: true}, liveProducts(live), sampleRepos(), quietOptions())

	res, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if res.Source != SourceLive || res.Total != 1 || res.Data[0].Name != "Live Bike" {
		t.Errorf("unexpected result %+v", res)
	}
	if msg := res.Source.Annotate("Products retrieved successfully"); msg != "Products retrieved successfully" {
		t.Errorf("live message should not be annotated: %q", msg)
	}
}

func TestService_ConnectionFailureServesSample(t *testing.T) {
	live := &stubProductRepo{products: []*domain.Product{{ID: 10}}}
	svc := NewService(&stubProber{ok: false}, liveProducts(live), sampleRepos(), quietOptions())

	res, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if res.Source != SourceSample || res.Total != 3 {
		t.Errorf("expected 3 sample products, got %d from %s", res.Total, res.Source)
	}
	if msg := res.Source.Annotate("Products retrieved successfully"); !strings.Contains(msg, "sample data") {
		t.Errorf("expected sample marker in %q", msg)
	}
}

func TestService_QueryFailureServesSample(t *testing.T) {
	live := &stubProductRepo{err: &sqldb.QueryError{Strategy: "primary", Cause: errors.New("deadlock")}}
	svc := NewService(&stubProber{ok: true}, liveProducts(live), sampleRepos(), quietOptions())

	res, err := svc.GetProduct(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if res.Source != SourceSampleAfterError || res.Data.ID != 2 {
		t.Errorf("unexpected result %+v", res)
	}
	want := "Product retrieved successfully (sample data - database connection issue)"
	if msg := res.Source.Annotate("Product retrieved successfully"); msg != want {
		t.Errorf("got %q, want %q", msg, want)
	}
}

func TestService_NotFound(t *testing.T) {
	t.Run("live miss does not fall back", func(t *testing.T) {
		live := &stubProductRepo{}
		svc := NewService(&stubProber{ok: true}, liveProducts(live), sampleRepos(), quietOptions())

		res, err := svc.GetProduct(context.Background(), 1)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if res.Source != SourceLive {
			t.Errorf("expected live source, got %s", res.Source)
		}
	})

	t.Run("sample miss keeps the sample source", func(t *testing.T) {
		svc := NewService(&stubProber{ok: false}, sampleRepos(), sampleRepos(), quietOptions())

		res, err := svc.GetProduct(context.Background(), 99)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if res.Source != SourceSample {
			t.Errorf("expected sample source, got %s", res.Source)
		}
	})
}

func TestService_FailLoudly(t *testing.T) {
	opts := quietOptions()
	opts.FailLoudly = true
	svc := NewService(&stubProber{ok: false}, sampleRepos(), sampleRepos(), opts)

	_, err := svc.ListCustomers(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestService_SnapshotBeforeSample(t *testing.T) {
	live := &stubProductRepo{products: []*domain.Product{{ID: 10, Name: "Live Bike"}}}
	prober := &stubProber{ok: true}
	opts := quietOptions()
	opts.Snapshots = &memorySnapshots{}
	svc := NewService(prober, liveProducts(live), sampleRepos(), opts)
	ctx := context.Background()

	if _, err := svc.ListProducts(ctx); err != nil {
		t.Fatalf("ListProducts: %v", err)
	}

	prober.ok = false
	res, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if res.Source != SourceSnapshot || res.Total != 1 || res.Data[0].Name != "Live Bike" {
		t.Errorf("expected cached live data, got %+v", res)
	}
	if msg := res.Source.Annotate("ok"); !strings.Contains(msg, "cached data") {
		t.Errorf("expected cached marker in %q", msg)
	}

	// Reads with no snapshot still get sample data
	cats, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if cats.Source != SourceSample || cats.Total != 4 {
		t.Errorf("expected sample categories, got %d from %s", cats.Total, cats.Source)
	}
}

func TestService_LiveMissClearsSnapshot(t *testing.T) {
	live := &stubProductRepo{products: []*domain.Product{{ID: 10, Name: "Live Bike"}}}
	prober := &stubProber{ok: true}
	opts := quietOptions()
	opts.Snapshots = &memorySnapshots{}
	svc := NewService(prober, liveProducts(live), sampleRepos(), opts)
	ctx := context.Background()

	if _, err := svc.GetProduct(ctx, 10); err != nil {
		t.Fatalf("GetProduct: %v", err)
	}

	// Product 10 is deleted upstream
	live.products = nil
	if _, err := svc.GetProduct(ctx, 10); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	prober.ok = false
	res, err := svc.GetProduct(ctx, 10)
	if res.Source == SourceSnapshot {
		t.Fatal("deleted product was served from the snapshot")
	}
	if !errors.Is(err, storage.ErrNotFound) || res.Source != SourceSample {
		t.Errorf("expected sample miss, got %v from %s", err, res.Source)
	}
}

func TestService_ValidationSkipsDatabase(t *testing.T) {
	prober := &stubProber{ok: true}
	svc := NewService(prober, sampleRepos(), sampleRepos(), quietOptions())
	ctx := context.Background()

	checks := []struct {
		name  string
		call  func() error
		field string
	}{
		{"product id", func() error { _, err := svc.GetProduct(ctx, 0); return err }, "id"},
		{"category id", func() error { _, err := svc.ProductsByCategory(ctx, -1); return err }, "id"},
		{"customer id", func() error { _, err := svc.GetCustomer(ctx, 0); return err }, "id"},
		{"short search", func() error { _, err := svc.SearchProducts(ctx, " a "); return err }, "q"},
		{"empty customer search", func() error { _, err := svc.SearchCustomers(ctx, ""); return err }, "q"},
		{"email", func() error { _, err := svc.GetCustomerByEmail(ctx, "nobody"); return err }, "email"},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			var verr *ValidationError
			if err := c.call(); !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != c.field {
				t.Errorf("field = %q, want %q", verr.Field, c.field)
			}
		})
	}
	if prober.calls != 0 {
		t.Errorf("validation failures reached the database %d times", prober.calls)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID("product", tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v", tt.raw, got, err)
		}
	}

	_, err := ParseID("category", "x")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Title != "Invalid category ID" || verr.Message != "Category ID must be a valid number" {
		t.Errorf("unexpected error %+v", err)
	}
}

// When every strategy fails, customers come from the sample dataset.
func TestService_AllStrategiesFailServesSampleCustomers(t *testing.T) {
	refuse := func(ctx context.Context, s sqldb.Strategy) (*sqlx.DB, error) {
		return nil, syscall.ECONNREFUSED
	}
	db := sqldb.New(
		[]sqldb.Strategy{
			{Name: "windows-auth", Driver: sqldb.DriverSQLServer, Auth: sqldb.AuthIntegrated, Host: "localhost"},
			{Name: "sql-auth", Driver: sqldb.DriverSQLServer, Host: "localhost", User: "sa"},
		},
		sqldb.WithOpener(refuse),
		sqldb.WithLogger(slog.New(slog.DiscardHandler)),
	)
	defer db.Close()

	live := Repositories{
		Products:   sqldb.NewProductRepo(db),
		Customers:  sqldb.NewCustomerRepo(db),
		Categories: sqldb.NewCategoryRepo(db),
	}
	svc := NewService(db, live, sampleRepos(), quietOptions())

	res, err := svc.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if res.Source != SourceSample || len(res.Data) != 2 {
		t.Fatalf("expected 2 sample customers, got %d from %s", len(res.Data), res.Source)
	}
	if res.Data[0].ID != 1 || res.Data[1].ID != 2 {
		t.Errorf("expected customer IDs 1 and 2, got %d and %d", res.Data[0].ID, res.Data[1].ID)
	}
}
