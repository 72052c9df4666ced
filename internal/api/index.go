package api

import "net/http"

const apiVersion = "2.0.0"

type endpointDocs struct {
	Version       string                       `json:"version"`
	Endpoints     map[string]string            `json:"endpoints"`
	Documentation map[string]map[string]string `json:"documentation"`
}

var docs = endpointDocs{
	Version: apiVersion,
	Endpoints: map[string]string{
		"products":   "/api/products",
		"customers":  "/api/customers",
		"categories": "/api/categories",
		"health":     "/api/health",
	},
	Documentation: map[string]map[string]string{
		"products": {
			"GET /api/products":                      "Get all products",
			"GET /api/products/:id":                  "Get product by ID",
			"GET /api/products/category/:categoryId": "Get products by category",
			"GET /api/products/search?q=term":        "Search products",
		},
		"customers": {
			"GET /api/customers":               "Get all customers",
			"GET /api/customers/:id":           "Get customer by ID",
			"GET /api/customers/email/:email":  "Get customer by email",
			"GET /api/customers/search?q=term": "Search customers",
		},
		"categories": {
			"GET /api/categories":     "Get all categories",
			"GET /api/categories/:id": "Get category by ID",
		},
		"health": {
			"GET /api/health":          "Basic health check",
			"GET /api/health/database": "Detailed database status",
			"GET /api/health/stats":    "Database statistics",
		},
	},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	success(w, docs, "Tienda catalog API")
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]string{
		"version": apiVersion,
		"api":     "/api",
		"health":  "/api/health",
		"metrics": "/metrics",
	}, "Tienda catalog API is running")
}
