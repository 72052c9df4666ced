package sqldb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vietddude/tienda/internal/core/domain"
	"github.com/vietddude/tienda/internal/infra/storage"
)

type customerRow struct {
	CustomerID   int64           `db:"customer_id"`
	NameStyle    sql.NullBool    `db:"name_style"`
	Title        sql.NullString  `db:"title"`
	FirstName    sql.NullString  `db:"first_name"`
	MiddleName   sql.NullString  `db:"middle_name"`
	LastName     sql.NullString  `db:"last_name"`
	Suffix       sql.NullString  `db:"suffix"`
	CompanyName  sql.NullString  `db:"company_name"`
	SalesPerson  sql.NullString  `db:"sales_person"`
	EmailAddress sql.NullString  `db:"email_address"`
	Phone        sql.NullString  `db:"phone"`
	PasswordHash sql.NullString  `db:"password_hash"`
	PasswordSalt sql.NullString  `db:"password_salt"`
	RowGUID      sql.NullString  `db:"rowguid"`
	ModifiedDate nullTime        `db:"modified_date"`
	TotalOrders  sql.NullInt64   `db:"total_orders"`
	TotalSpent   sql.NullFloat64 `db:"total_spent"`
}

func (r customerRow) toDomain() *domain.Customer {
	c := &domain.Customer{
		ID:           int(r.CustomerID),
		NameStyle:    r.NameStyle.Bool,
		Title:        stringPtr(r.Title),
		FirstName:    r.FirstName.String,
		MiddleName:   stringPtr(r.MiddleName),
		LastName:     r.LastName.String,
		Suffix:       stringPtr(r.Suffix),
		CompanyName:  stringPtr(r.CompanyName),
		SalesPerson:  stringPtr(r.SalesPerson),
		EmailAddress: stringPtr(r.EmailAddress),
		Phone:        stringPtr(r.Phone),
		PasswordHash: r.PasswordHash.String,
		PasswordSalt: r.PasswordSalt.String,
		RowGUID:      strings.ToLower(r.RowGUID.String),
		ModifiedDate: r.ModifiedDate.ptr(),
		TotalOrders:  int(r.TotalOrders.Int64),
		TotalSpent:   r.TotalSpent.Float64,
	}
	c.Derive()
	return c
}

// CustomerRepo reads customers and their order totals through the facade.
type CustomerRepo struct {
	db *DB
}

func NewCustomerRepo(db *DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) list(ctx context.Context, stmt Statement, params map[string]any) ([]*domain.Customer, error) {
	var rows []customerRow
	if err := r.db.Select(ctx, &rows, stmt, params); err != nil {
		return nil, err
	}
	out := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CustomerRepo) one(ctx context.Context, stmt Statement, params map[string]any) (*domain.Customer, error) {
	customers, err := r.list(ctx, stmt, params)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, storage.ErrNotFound
	}
	return customers[0], nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	return r.list(ctx, listCustomers, nil)
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	return r.one(ctx, getCustomer, map[string]any{"id": id})
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.one(ctx, getCustomerByEmail, map[string]any{
		"email": strings.ToLower(strings.TrimSpace(email)),
	})
}

func (r *CustomerRepo) Search(ctx context.Context, term string) ([]*domain.Customer, error) {
	return r.list(ctx, searchCustomers, map[string]any{"term": likePattern(term)})
}
