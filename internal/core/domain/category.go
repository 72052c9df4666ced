package domain

import "time"

// Category represents a product category. Top level categories have no parent.
type Category struct {
	ID               int        `json:"id"`
	ParentID         *int       `json:"parentId"`
	Name             string     `json:"name"`
	RowGUID          string     `json:"rowguid"`
	ModifiedDate     *time.Time `json:"modifiedDate"`
	IsParentCategory bool       `json:"isParentCategory"`
	HasSubCategories bool       `json:"hasSubCategories"`
}

// Derive fills the presentation fields that are computed rather than stored.
func (c *Category) Derive() {
	c.IsParentCategory = c.ParentID == nil
}
