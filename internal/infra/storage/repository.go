package storage

import (
	"context"
	"errors"

	"github.com/vietddude/tienda/internal/core/domain"
)

var (
	// ErrNotFound is returned when a record doesn't exist
	ErrNotFound = errors.New("record not found")
)

// ProductRepository handles product reads
type ProductRepository interface {
	// List returns the products currently on sale, ordered by name
	List(ctx context.Context) ([]*domain.Product, error)

	// GetByID returns ErrNotFound when no product has the id
	GetByID(ctx context.Context, id int) (*domain.Product, error)

	// ListByCategory returns the products on sale in a category
	ListByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error)

	// Search matches name, product number, category and description
	Search(ctx context.Context, term string) ([]*domain.Product, error)
}

// CustomerRepository handles customer reads
type CustomerRepository interface {
	// List returns all customers with their order totals
	List(ctx context.Context) ([]*domain.Customer, error)

	// GetByID returns ErrNotFound when no customer has the id
	GetByID(ctx context.Context, id int) (*domain.Customer, error)

	// GetByEmail returns ErrNotFound when no customer has the email
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)

	// Search matches first name, last name, company and email
	Search(ctx context.Context, term string) ([]*domain.Customer, error)
}

// CategoryRepository handles category reads
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id int) (*domain.Category, error)
}

// StatsRepository reports on the live database. There is no fallback
// implementation: these reads only make sense against a real store.
type StatsRepository interface {
	Stats(ctx context.Context) (*domain.CatalogStats, error)
	DatabaseInfo(ctx context.Context) (*domain.DatabaseInfo, error)
}
