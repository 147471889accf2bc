package auth

import (
	"github.com/go-chi/chi/v5"

	"github.com/nisaaulia/site-server/pkg/session"
)

// NewRouter creates a chi router with the auth endpoints.
func NewRouter(codec *session.Codec, cfg Config) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", loginHandler(codec, cfg))
	r.Post("/logout", logoutHandler(cfg))
	r.Get("/me", meHandler(codec))
	return r
}
