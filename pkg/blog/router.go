package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router exposing the blog post endpoints. Reads are
// public; create and delete are admin-gated.
func NewRouter(store *Store, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", listPostsHandler(store))
	r.Get("/{slug}", getPostHandler(store))

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/", createPostHandler(store))
		r.Delete("/{slug}", deletePostHandler(store))
	})

	return r
}
