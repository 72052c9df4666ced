package api

import (
	"fmt"
	"net/http"

	"github.com/vietddude/tienda/internal/catalog"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Products", "")
		return
	}
	writeResult(w, res, "Products retrieved successfully", true)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID("product", r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "Product", "")
		return
	}
	res, err := s.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Product", fmt.Sprintf("No product found with ID: %d", id))
		return
	}
	writeResult(w, res, "Product retrieved successfully", false)
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID("category", r.PathValue("categoryId"))
	if err != nil {
		writeError(w, r, err, "Products", "")
		return
	}
	res, err := s.catalog.ProductsByCategory(r.Context(), id)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Products", "")
		return
	}
	writeResult(w, res, fmt.Sprintf("Products retrieved successfully for category %d", id), true)
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res, err := s.catalog.SearchProducts(r.Context(), q)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Products", "")
		return
	}
	writeResult(w, res, "Search completed for: "+q, true)
}
