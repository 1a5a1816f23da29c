package adapthttp

import (
	"bytes"
	"encoding/json"
	"net/http"

	"acme/internal/app"

	"github.com/gorilla/mux"
)

const defaultListLimit = 50

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	// Only the unfiltered listing is the canonical cached view.
	if query == "" {
		if body, ok := s.cache.Get(app.InvoicesPath); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write(body)
			return
		}
	}

	// Observed before the read so a concurrent invalidation voids the Set.
	gen := s.cache.Generation(app.InvoicesPath)

	items, err := s.invoices.List(r.Context(), query, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]any{"items": items}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if query == "" {
		s.cache.Set(app.InvoicesPath, gen, buf.Bytes())
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.renderResult(w, r, s.invoices.Create(r.Context(), r.PostForm))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if inv == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.renderResult(w, r, s.invoices.Update(r.Context(), mux.Vars(r)["id"], r.PostForm))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	s.renderResult(w, r, s.invoices.Delete(r.Context(), mux.Vars(r)["id"]))
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.invoices.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": customers})
}
