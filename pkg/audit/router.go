package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with the audit API routes. The whole trail
// is admin-only.
func NewRouter(store *Store, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(requireAdmin)
	r.Get("/", listEventsHandler(store))
	return r
}
