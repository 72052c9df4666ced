package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	CustomerTypeCompany    = "Empresa"
	CustomerTypeIndividual = "Individual"
	AnonymousCustomer      = "Cliente Anónimo"
	DefaultSeller          = "Sistema"
)

// Customer represents a storefront customer account
type Customer struct {
	ID           int        `json:"id"`
	NameStyle    bool       `json:"nameStyle"`
	Title        *string    `json:"title"`
	FirstName    string     `json:"firstName"`
	MiddleName   *string    `json:"middleName"`
	LastName     string     `json:"lastName"`
	Suffix       *string    `json:"suffix"`
	CompanyName  *string    `json:"companyName"`
	SalesPerson  *string    `json:"salesPerson"`
	EmailAddress *string    `json:"email"`
	Phone        *string    `json:"phone"`
	PasswordHash string     `json:"-"`
	PasswordSalt string     `json:"-"`
	RowGUID      string     `json:"rowguid"`
	ModifiedDate *time.Time `json:"modifiedDate"`
	TotalOrders  int        `json:"totalOrders"`
	TotalSpent   float64    `json:"totalSpent"`
	FullName     string     `json:"fullName"`
	DisplayName  string     `json:"displayName"`
	CustomerType string     `json:"customerType"`
	Seller       string     `json:"seller"`
	IsActive     bool       `json:"isActive"`
}

// Derive fills the presentation fields that are computed rather than stored.
func (c *Customer) Derive() {
	var parts []string
	for _, p := range []*string{c.Title, &c.FirstName, c.MiddleName, &c.LastName, c.Suffix} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}

	company := ""
	if c.CompanyName != nil {
		company = *c.CompanyName
	}

	c.FullName = strings.Join(parts, " ")
	if c.FullName == "" {
		c.FullName = company
	}
	if c.FullName == "" {
		c.FullName = AnonymousCustomer
	}

	switch {
	case c.FirstName != "" && c.LastName != "":
		c.DisplayName = c.FirstName + " " + c.LastName
	case company != "":
		c.DisplayName = company
	default:
		c.DisplayName = fmt.Sprintf("Cliente %d", c.ID)
	}

	if company != "" {
		c.CustomerType = CustomerTypeCompany
	} else {
		c.CustomerType = CustomerTypeIndividual
	}

	c.Seller = DefaultSeller
	if c.SalesPerson != nil && *c.SalesPerson != "" {
		c.Seller = *c.SalesPerson
	}
	c.IsActive = true
}
