package domain

// CatalogStats summarizes the catalog for the stats endpoint.
type CatalogStats struct {
	Products  ProductStats  `json:"products"`
	Customers CustomerStats `json:"customers"`
	Orders    OrderStats    `json:"orders"`
}

type ProductStats struct {
	Total        int `json:"total"        db:"total"`
	Active       int `json:"active"       db:"active"`
	Discontinued int `json:"discontinued" db:"discontinued"`
	Categories   int `json:"categories"   db:"categories"`
}

type CustomerStats struct {
	Total      int `json:"total"      db:"total"`
	WithOrders int `json:"withOrders" db:"with_orders"`
}

type OrderStats struct {
	Total    int `json:"total"    db:"total"`
	ThisYear int `json:"thisYear" db:"this_year"`
}

// DatabaseInfo describes the live database behind the active strategy.
type DatabaseInfo struct {
	ServerVersion   string `json:"serverVersion"`
	DatabaseName    string `json:"databaseName"`
	ServerName      string `json:"serverName"`
	ServerTime      string `json:"serverTime"`
	TotalTables     int    `json:"totalTables"`
	ProductsCount   int    `json:"productsCount"`
	CustomersCount  int    `json:"customersCount"`
	CategoriesCount int    `json:"categoriesCount"`
}
