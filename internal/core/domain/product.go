package domain

import (
	"fmt"
	"time"
)

// ProductStatus is the sell state derived from a product's dates.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

const (
	DefaultCurrency = "USD"
	DefaultBrand    = "Adventure Works"
	DefaultCategory = "General"
	UnknownColor    = "Sin especificar"
)

// Product represents a catalog item
type Product struct {
	ID                     int           `json:"id"`
	Name                   string        `json:"name"`
	ProductNumber          string        `json:"productNumber"`
	Color                  string        `json:"color"`
	StandardCost           float64       `json:"standardCost"`
	Price                  float64       `json:"price"`
	Currency               string        `json:"currency"`
	Size                   *string       `json:"size"`
	Weight                 *float64      `json:"weight"`
	CategoryID             *int          `json:"categoryId"`
	Category               string        `json:"category"`
	ProductModelID         *int          `json:"productModelId"`
	ProductModelName       *string       `json:"productModelName"`
	CatalogDescription     *string       `json:"catalogDescription"`
	Description            string        `json:"description"`
	ThumbnailPhotoFileName *string       `json:"thumbnailPhotoFileName"`
	RowGUID                string        `json:"rowguid"`
	SellStartDate          *time.Time    `json:"sellStartDate"`
	SellEndDate            *time.Time    `json:"sellEndDate"`
	DiscontinuedDate       *time.Time    `json:"discontinuedDate"`
	ModifiedDate           *time.Time    `json:"modifiedDate"`
	Stock                  int           `json:"stock"`
	Brand                  string        `json:"brand"`
	ImageURL               string        `json:"imageUrl"`
	Status                 ProductStatus `json:"status"`
	IsActive               bool          `json:"isActive"`
}

var categoryImageTags = map[int]string{
	1: "bike",
	2: "component",
	3: "clothing",
	4: "accessory",
}

// Derive fills the presentation fields that are computed rather than stored.
func (p *Product) Derive(now time.Time) {
	p.Currency = DefaultCurrency
	p.Brand = DefaultBrand
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Color == "" {
		p.Color = UnknownColor
	}
	if p.Description == "" {
		p.Description = p.Name
	}

	p.IsActive = p.SellEndDate == nil || p.SellEndDate.After(now)
	switch {
	case p.DiscontinuedDate != nil:
		p.Status = ProductStatusDiscontinued
	case !p.IsActive:
		p.Status = ProductStatusInactive
	default:
		p.Status = ProductStatusActive
	}

	// Stock is not tracked by the schema; derive a stable figure per product.
	if p.Status == ProductStatusActive {
		p.Stock = 5 + (p.ID*37)%146
	} else {
		p.Stock = 0
	}

	if p.ThumbnailPhotoFileName != nil && *p.ThumbnailPhotoFileName != "" {
		p.ImageURL = fmt.Sprintf("https://picsum.photos/300/300?random=%d", p.ID)
		return
	}
	tag := "product"
	if p.CategoryID != nil {
		if t, ok := categoryImageTags[*p.CategoryID]; ok {
			tag = t
		}
	}
	p.ImageURL = fmt.Sprintf("https://picsum.photos/300/300?random=%d&category=%s", p.ID, tag)
}
