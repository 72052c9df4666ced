package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
)

type categoryRow struct {
	ProductCategoryID       int64          `db:"product_category_id"`
	ParentProductCategoryID sql.NullInt64  `db:"parent_product_category_id"`
	Name                    string         `db:"name"`
	RowGUID                 sql.NullString `db:"rowguid"`
	ModifiedDate            nullTime       `db:"modified_date"`
	HasSubCategories        sql.NullBool   `db:"has_sub_categories"`
}

func (r categoryRow) toDomain() *domain.Category {
	c := &domain.Category{
		ID:               int(r.ProductCategoryID),
		ParentID:         intPtr(r.ParentProductCategoryID),
		Name:             r.Name,
		RowGUID:          strings.ToLower(r.RowGUID.String),
		ModifiedDate:     r.ModifiedDate.ptr(),
		HasSubCategories: r.HasSubCategories.Bool,
	}
	c.Derive()
	return c
}

type CategoryRepo struct {
	db *DB
}

func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	var rows []categoryRow
	if err := r.db.Select(ctx, &rows, listCategories, nil); err != nil {
		return nil, err
	}
	out := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	var rows []categoryRow
	if err := r.db.Select(ctx, &rows, getCategory, map[string]any{"id": id}); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0].toDomain(), nil
}
