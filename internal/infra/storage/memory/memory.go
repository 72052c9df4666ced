package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
)

// Dataset is the fixed sample catalog served when no database is reachable.
// Records are copied on the way out so callers cannot mutate it.
type Dataset struct {
	products   []domain.Product
	customers  []domain.Customer
	categories []domain.Category
	mu         sync.RWMutex
}

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func intPtr(i int) *int             { return &i }
func timePtr(t time.Time) *time.Time { return &t }

// NewDataset builds the sample records with dates relative to now.
func NewDataset(now time.Time) *Dataset {
	now = now.UTC()
	ds := &Dataset{
		products: []domain.Product{
			{
				ID:                     1,
				Name:                   "Adventure Works Bike - Model 1",
				ProductNumber:          "AW-BIKE-001",
				Color:                  "Red",
				StandardCost:           100,
				Price:                  150,
				Size:                   strPtr("M"),
				Weight:                 floatPtr(1.5),
				CategoryID:             intPtr(1),
				Category:               "Bikes",
				ProductModelID:         intPtr(1),
				ProductModelName:       strPtr("Adventure Bike Model 1"),
				CatalogDescription:     strPtr("High-quality adventure bike for outdoor enthusiasts"),
				Description:            "Perfect for mountain trails and city rides",
				ThumbnailPhotoFileName: strPtr("bike1.jpg"),
				RowGUID:                "sample-guid-1",
			},
			{
				ID:                     2,
				Name:                   "Adventure Works Component - Brake Set",
				ProductNumber:          "AW-COMP-002",
				Color:                  "Black",
				StandardCost:           50,
				Price:                  75,
				Size:                   strPtr("Standard"),
				Weight:                 floatPtr(0.8),
				CategoryID:             intPtr(2),
				Category:               "Components",
				ProductModelID:         intPtr(2),
				ProductModelName:       strPtr("Brake Component Model"),
				CatalogDescription:     strPtr("Professional-grade brake system"),
				Description:            "Reliable braking system for all bike types",
				ThumbnailPhotoFileName: strPtr("brake1.jpg"),
				RowGUID:                "sample-guid-2",
			},
			{
				ID:                     3,
				Name:                   "Adventure Works Jersey - Blue",
				ProductNumber:          "AW-CLOTH-003",
				Color:                  "Blue",
				StandardCost:           25,
				Price:                  45,
				Size:                   strPtr("L"),
				Weight:                 floatPtr(0.3),
				CategoryID:             intPtr(3),
				Category:               "Clothing",
				ProductModelID:         intPtr(3),
				ProductModelName:       strPtr("Sport Jersey"),
				CatalogDescription:     strPtr("Comfortable cycling jersey"),
				Description:            "Breathable fabric perfect for long rides",
				ThumbnailPhotoFileName: strPtr("jersey1.jpg"),
				RowGUID:                "sample-guid-3",
			},
		},
		customers: []domain.Customer{
			{
				ID:           1,
				Title:        strPtr("Mr."),
				FirstName:    "John",
				MiddleName:   strPtr("A"),
				LastName:     "Doe",
				CompanyName:  strPtr("Adventure Sports Inc."),
				SalesPerson:  strPtr(`adventure-works\sales1`),
				EmailAddress: strPtr("john.doe@adventuresports.com"),
				Phone:        strPtr("555-0123"),
				PasswordHash: "sample-hash",
				PasswordSalt: "sample-salt",
				RowGUID:      "sample-customer-guid-1",
				TotalOrders:  5,
				TotalSpent:   1250,
			},
			{
				ID:           2,
				Title:        strPtr("Ms."),
				FirstName:    "Jane",
				LastName:     "Smith",
				SalesPerson:  strPtr(`adventure-works\sales2`),
				EmailAddress: strPtr("jane.smith@email.com"),
				Phone:        strPtr("555-0456"),
				PasswordHash: "sample-hash-2",
				PasswordSalt: "sample-salt-2",
				RowGUID:      "sample-customer-guid-2",
				TotalOrders:  3,
				TotalSpent:   680,
			},
		},
		categories: []domain.Category{
			{ID: 1, Name: "Bikes", RowGUID: "sample-category-guid-1"},
			{ID: 2, Name: "Components", RowGUID: "sample-category-guid-2"},
			{ID: 3, Name: "Clothing", RowGUID: "sample-category-guid-3"},
			{ID: 4, Name: "Accessories", RowGUID: "sample-category-guid-4"},
		},
	}

	for i := range ds.products {
		p := &ds.products[i]
		p.SellStartDate = timePtr(now)
		p.ModifiedDate = timePtr(now)
		p.Derive(now)
	}
	for i := range ds.customers {
		ds.customers[i].ModifiedDate = timePtr(now)
		ds.customers[i].Derive()
	}
	for i := range ds.categories {
		ds.categories[i].ModifiedDate = timePtr(now)
		ds.categories[i].Derive()
	}
	return ds
}

func containsFold(field, term string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), term)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// -----------------------------------------------------------------------------
// Product Repository
// -----------------------------------------------------------------------------

type ProductRepo struct {
	ds *Dataset
}

func NewProductRepo(ds *Dataset) *ProductRepo {
	return &ProductRepo{ds: ds}
}

func (r *ProductRepo) filter(match func(*domain.Product) bool) []*domain.Product {
	r.ds.mu.RLock()
	defer r.ds.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.ds.products))
	for i := range r.ds.products {
		p := r.ds.products[i]
		if p.IsActive && match(&p) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	r.ds.mu.RLock()
	defer r.ds.mu.RUnlock()
	for i := range r.ds.products {
		if r.ds.products[i].ID == id {
			p := r.ds.products[i]
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (r *ProductRepo) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return r.filter(func(p *domain.Product) bool {
		return containsFold(p.Name, term) ||
			containsFold(p.ProductNumber, term) ||
			containsFold(p.Category, term) ||
			containsFold(p.Description, term)
	}), nil
}

// -----------------------------------------------------------------------------
// Customer Repository
// -----------------------------------------------------------------------------

type CustomerRepo struct {
	ds *Dataset
}

func NewCustomerRepo(ds *Dataset) *CustomerRepo {
	return &CustomerRepo{ds: ds}
}

func (r *CustomerRepo) filter(match func(*domain.Customer) bool) []*domain.Customer {
	r.ds.mu.RLock()
	defer r.ds.mu.RUnlock()

	out := make([]*domain.Customer, 0, len(r.ds.customers))
	for i := range r.ds.customers {
		c := r.ds.customers[i]
		if match(&c) {
			out = append(out, &c)
		}
	}
	return out
}

func (r *CustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	return r.filter(func(*domain.Customer) bool { return true }), nil
}

func (r *CustomerRepo) one(match func(*domain.Customer) bool) (*domain.Customer, error) {
	found := r.filter(match)
	if len(found) == 0 {
		return nil, storage.ErrNotFound
	}
	return found[0], nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	return r.one(func(c *domain.Customer) bool { return c.ID == id })
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	email = strings.TrimSpace(email)
	return r.one(func(c *domain.Customer) bool {
		return strings.EqualFold(deref(c.EmailAddress), email)
	})
}

func (r *CustomerRepo) Search(ctx context.Context, term string) ([]*domain.Customer, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	return r.filter(func(c *domain.Customer) bool {
		return containsFold(c.FirstName, term) ||
			containsFold(c.LastName, term) ||
			containsFold(deref(c.CompanyName), term) ||
			containsFold(deref(c.EmailAddress), term)
	}), nil
}

// -----------------------------------------------------------------------------
// Category Repository
// -----------------------------------------------------------------------------

type CategoryRepo struct {
	ds *Dataset
}

func NewCategoryRepo(ds *Dataset) *CategoryRepo {
	return &CategoryRepo{ds: ds}
}

func (r *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.ds.mu.RLock()
	defer r.ds.mu.RUnlock()

	out := make([]*domain.Category, 0, len(r.ds.categories))
	for i := range r.ds.categories {
		c := r.ds.categories[i]
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	r.ds.mu.RLock()
	defer r.ds.mu.RUnlock()
	for i := range r.ds.categories {
		if r.ds.categories[i].ID == id {
			c := r.ds.categories[i]
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}
