package api

import (
	"fmt"
	"net/http"

	"github.com/vietddude/tienda/internal/catalog"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.ListCustomers(r.Context())
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Customers", "")
		return
	}
	writeResult(w, res, "Customers retrieved successfully", true)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseID("customer", r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "Customer", "")
		return
	}
	res, err := s.catalog.GetCustomer(r.Context(), id)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Customer", fmt.Sprintf("No customer found with ID: %d", id))
		return
	}
	writeResult(w, res, "Customer retrieved successfully", false)
}

func (s *Server) handleCustomerByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	res, err := s.catalog.GetCustomerByEmail(r.Context(), email)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Customer", "No customer found with email: "+email)
		return
	}
	writeResult(w, res, "Customer retrieved successfully", false)
}

func (s *Server) handleSearchCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res, err := s.catalog.SearchCustomers(r.Context(), q)
	if err != nil {
		writeSourceError(w, r, err, res.Source, "Customers", "")
		return
	}
	writeResult(w, res, "Search completed for: "+q, true)
}
