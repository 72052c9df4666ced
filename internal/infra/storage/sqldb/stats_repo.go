package sqldb

import (
	"context"
	"fmt"

	"github.com/vietddude/tienda/internal/core/domain"
)

// StatsRepo reports catalog statistics and database details. It has no
// fallback: failures are returned to the caller.
type StatsRepo struct {
	db *DB
}

func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// first runs a statement expected to return exactly one row.
func first[T any](ctx context.Context, db *DB, stmt Statement) (T, error) {
	var rows []T
	var zero T
	if err := db.Select(ctx, &rows, stmt, nil); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("statement returned no rows")
	}
	return rows[0], nil
}

func (r *StatsRepo) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	products, err := first[domain.ProductStats](ctx, r.db, productStats)
	if err != nil {
		return nil, err
	}
	customers, err := first[domain.CustomerStats](ctx, r.db, customerStats)
	if err != nil {
		return nil, err
	}
	orders, err := first[domain.OrderStats](ctx, r.db, orderStats)
	if err != nil {
		return nil, err
	}
	return &domain.CatalogStats{
		Products:  products,
		Customers: customers,
		Orders:    orders,
	}, nil
}

type serverInfoRow struct {
	ServerVersion string `db:"server_version"`
	DatabaseName  string `db:"database_name"`
	ServerName    string `db:"server_name"`
	ServerTime    string `db:"server_time"`
}

type tableCountRow struct {
	TableCount int `db:"table_count"`
}

type recordCountRow struct {
	ProductsCount   int `db:"products_count"`
	CustomersCount  int `db:"customers_count"`
	CategoriesCount int `db:"categories_count"`
}

func (r *StatsRepo) DatabaseInfo(ctx context.Context) (*domain.DatabaseInfo, error) {
	info, err := first[serverInfoRow](ctx, r.db, serverInfo)
	if err != nil {
		return nil, err
	}
	tables, err := first[tableCountRow](ctx, r.db, tableCount)
	if err != nil {
		return nil, err
	}
	counts, err := first[recordCountRow](ctx, r.db, recordCounts)
	if err != nil {
		return nil, err
	}
	return &domain.DatabaseInfo{
		ServerVersion:   info.ServerVersion,
		DatabaseName:    info.DatabaseName,
		ServerName:      info.ServerName,
		ServerTime:      info.ServerTime,
		TotalTables:     tables.TableCount,
		ProductsCount:   counts.ProductsCount,
		CustomersCount:  counts.CustomersCount,
		CategoriesCount: counts.CategoriesCount,
	}, nil
}
