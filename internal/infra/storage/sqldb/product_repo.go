package sqldb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
)

type productRow struct {
	ProductID              int64           `db:"product_id"`
	Name                   string          `db:"name"`
	ProductNumber          string          `db:"product_number"`
	Color                  sql.NullString  `db:"color"`
	StandardCost           sql.NullFloat64 `db:"standard_cost"`
	ListPrice              sql.NullFloat64 `db:"list_price"`
	Size                   sql.NullString  `db:"size"`
	Weight                 sql.NullFloat64 `db:"weight"`
	ProductCategoryID      sql.NullInt64   `db:"product_category_id"`
	ProductModelID         sql.NullInt64   `db:"product_model_id"`
	SellStartDate          nullTime        `db:"sell_start_date"`
	SellEndDate            nullTime        `db:"sell_end_date"`
	DiscontinuedDate       nullTime        `db:"discontinued_date"`
	ThumbnailPhotoFileName sql.NullString  `db:"thumbnail_photo_file_name"`
	RowGUID                sql.NullString  `db:"rowguid"`
	ModifiedDate           nullTime        `db:"modified_date"`
	CategoryName           sql.NullString  `db:"category_name"`
	ProductModelName       sql.NullString  `db:"product_model_name"`
	CatalogDescription     sql.NullString  `db:"catalog_description"`
	ProductDescription     sql.NullString  `db:"product_description"`
}

func (r productRow) toDomain(now time.Time) *domain.Product {
	p := &domain.Product{
		ID:                     int(r.ProductID),
		Name:                   r.Name,
		ProductNumber:          r.ProductNumber,
		Color:                  r.Color.String,
		StandardCost:           r.StandardCost.Float64,
		Price:                  r.ListPrice.Float64,
		Size:                   stringPtr(r.Size),
		Weight:                 floatPtr(r.Weight),
		CategoryID:             intPtr(r.ProductCategoryID),
		Category:               r.CategoryName.String,
		ProductModelID:         intPtr(r.ProductModelID),
		ProductModelName:       stringPtr(r.ProductModelName),
		CatalogDescription:     stringPtr(r.CatalogDescription),
		Description:            r.ProductDescription.String,
		ThumbnailPhotoFileName: stringPtr(r.ThumbnailPhotoFileName),
		RowGUID:                strings.ToLower(r.RowGUID.String),
		SellStartDate:          r.SellStartDate.ptr(),
		SellEndDate:            r.SellEndDate.ptr(),
		DiscontinuedDate:       r.DiscontinuedDate.ptr(),
		ModifiedDate:           r.ModifiedDate.ptr(),
	}
	p.Derive(now)
	return p
}

// ProductRepo reads products through the facade.
type ProductRepo struct {
	db *DB
}

func NewProductRepo(db *DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) list(ctx context.Context, stmt Statement, params map[string]any) ([]*domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(ctx, &rows, stmt, params); err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(now))
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, listProducts, nil)
}

func (r *ProductRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	products, err := r.list(ctx, getProduct, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, storage.ErrNotFound
	}
	return products[0], nil
}

func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID int) ([]*domain.Product, error) {
	return r.list(ctx, productsByCategory, map[string]any{"category_id": categoryID})
}

func (r *ProductRepo) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	return r.list(ctx, searchProducts, map[string]any{"term": likePattern(term)})
}

// likePattern lowercases term and wraps it for a substring LIKE match.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
