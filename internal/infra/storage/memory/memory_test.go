package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/tienda/internal/infra/storage"
)

func TestDataset_Shape(t *testing.T) {
	ds := NewDataset(time.Now())
	ctx := context.Background()

	customers, err := NewCustomerRepo(ds).List(ctx)
	if err != nil {
		t.Fatalf("List customers: %v", err)
	}
	if len(customers) != 2 || customers[0].ID != 1 || customers[1].ID != 2 {
		t.Fatalf("expected customers 1 and 2, got %d", len(customers))
	}
	if customers[0].FullName != "Mr. John A Doe" || customers[0].CustomerType != "Empresa" {
		t.Errorf("unexpected derived fields %q / %q", customers[0].FullName, customers[0].CustomerType)
	}

	products, err := NewProductRepo(ds).List(ctx)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for _, p := range products {
		if !p.IsActive || p.Currency != "USD" || p.ImageURL == "" {
			t.Errorf("product %d missing derived fields: %+v", p.ID, p)
		}
	}

	categories, err := NewCategoryRepo(ds).List(ctx)
	if err != nil {
		t.Fatalf("List categories: %v", err)
	}
	if len(categories) != 4 || categories[0].Name != "Accessories" {
		t.Errorf("unexpected categories %v", categories)
	}
}

func TestDataset_RecordsAreCopies(t *testing.T) {
	ds := NewDataset(time.Now())
	repo := NewProductRepo(ds)
	ctx := context.Background()

	p, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	p.Name = "changed"

	again, _ := repo.GetByID(ctx, 1)
	if again.Name == "changed" {
		t.Error("caller mutation leaked into the dataset")
	}
}

func TestProductRepo_Lookups(t *testing.T) {
	repo := NewProductRepo(NewDataset(time.Now()))
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() (int, error)
		want int
	}{
		{"category 2", func() (int, error) {
			p, err := repo.ListByCategory(ctx, 2)
			return len(p), err
		}, 1},
		{"empty category", func() (int, error) {
			p, err := repo.ListByCategory(ctx, 4)
			return len(p), err
		}, 0},
		{"search name", func() (int, error) {
			p, err := repo.Search(ctx, "JERSEY")
			return len(p), err
		}, 1},
		{"search description", func() (int, error) {
			p, err := repo.Search(ctx, "rides")
			return len(p), err
		}, 2},
		{"search number", func() (int, error) {
			p, err := repo.Search(ctx, "aw-")
			return len(p), err
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d results, want %d", got, tt.want)
			}
		})
	}

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomerRepo_Lookups(t *testing.T) {
	repo := NewCustomerRepo(NewDataset(time.Now()))
	ctx := context.Background()

	c, err := repo.GetByEmail(ctx, " Jane.Smith@EMAIL.com ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if c.ID != 2 || c.CustomerType != "Individual" {
		t.Errorf("unexpected customer %+v", c)
	}

	found, err := repo.Search(ctx, "adventure")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].ID != 1 {
		t.Errorf("expected John by company name, got %d results", len(found))
	}

	if _, err := repo.GetByID(ctx, 3); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
