package partner

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router exposing the partner, partner-category, and
// partner-rank endpoints. Reads are public; mutating verbs are wrapped by
// requireAdmin, which must reject before any handler (and thus any data
// access) runs.
func NewRouter(store *Store, lookups *LookupStore, rec CollabRecalculator, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/partners", func(r chi.Router) {
		r.Get("/", listPartnersHandler(store))
		r.Get("/{id}", getPartnerHandler(store))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", createPartnerHandler(store))
			r.Put("/{id}", updatePartnerHandler(store))
			r.Delete("/{id}", deletePartnerHandler(store))
			r.Post("/bulk-recalculate-collab", recalcCollabHandler(rec))
		})
	})

	r.Route("/partner-categories", func(r chi.Router) {
		r.Get("/", listCategoriesHandler(lookups))
		r.Get("/{id}", getCategoryHandler(lookups))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", createCategoryHandler(lookups))
			r.Put("/{id}", updateCategoryHandler(lookups))
			r.Delete("/{id}", deleteCategoryHandler(lookups))
		})
	})

	r.Route("/partner-ranks", func(r chi.Router) {
		r.Get("/", listRanksHandler(lookups))
		r.Get("/{id}", getRankHandler(lookups))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", createRankHandler(lookups))
			r.Put("/{id}", updateRankHandler(lookups))
			r.Delete("/{id}", deleteRankHandler(lookups))
		})
	})

	return r
}
