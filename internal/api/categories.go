package api

import (
	"fmt"
	"net/http"

	"github.com/vietddude/tienda/internal/catalog"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Categories", "")
		return
	}
	writeResult(w, res, "Categories retrieved successfully", true)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID("category", r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "Category", "")
		return
	}
	res, err := s.catalog.GetCategory(r.Context(), id)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Category", fmt.Sprintf("No category found with ID: %d", id))
		return
	}
	writeResult(w, res, "Category retrieved successfully", false)
}
