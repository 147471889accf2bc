package portfolio

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router exposing the portfolio endpoints. Reads are
// public; mutating verbs and the slug generator are admin-gated.
func NewRouter(store *Store, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", listHandler(store))
	r.Get("/{slug}", getHandler(store))

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/", createHandler(store))
		r.Post("/generate-slug", generateSlugHandler(store))
		r.Put("/{slug}", updateHandler(store))
		r.Delete("/{slug}", deleteHandler(store))
	})

	return r
}
