// Package server assembles the site API: stores, session codec, middleware
// stack, and the full route tree.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/nisaaulia/site-server/pkg/audit"
	"github.com/nisaaulia/site-server/pkg/auth"
	"github.com/nisaaulia/site-server/pkg/blog"
	"github.com/nisaaulia/site-server/pkg/cache"
	"github.com/nisaaulia/site-server/pkg/config"
	"github.com/nisaaulia/site-server/pkg/media"
	"github.com/nisaaulia/site-server/pkg/partner"
	"github.com/nisaaulia/site-server/pkg/portfolio"
	"github.com/nisaaulia/site-server/pkg/session"
)

// Server wires the stores and handlers into one HTTP API. The database
// handle and stores are constructed once at startup and shared for the
// process lifetime; nothing here is lazily re-initialized per request.
type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger

	codec          *session.Codec
	readCache      *cache.Manager
	partnerStore   *partner.Store
	lookupStore    *partner.LookupStore
	portfolioStore *portfolio.Store
	auditStore     *audit.Store
	blogStore      *blog.Store
	mediaStore     *media.Store
}

// Option configures a Server.
type Option func(*Server)

// WithBlogStore sets the file-based blog store. Without it the post
// endpoints are not mounted.
func WithBlogStore(store *blog.Store) Option {
	return func(s *Server) { s.blogStore = store }
}

// WithMediaStore sets the S3-backed media store. Without it the upload
// endpoints answer 503.
func WithMediaStore(store *media.Store) Option {
	return func(s *Server) { s.mediaStore = store }
}

// New creates a Server on an already-open database handle.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:            cfg,
		db:             db,
		logger:         logger,
		codec:          session.NewCodec(cfg.SessionSecret, cfg.AdminUsername),
		partnerStore:   partner.NewStore(db),
		lookupStore:    partner.NewLookupStore(db),
		portfolioStore: portfolio.NewStore(db),
		auditStore:     audit.NewStore(db),
	}
	if cfg.CacheEnabled {
		s.readCache = cache.NewManager(cfg.CacheMaxSize, time.Duration(cfg.CacheTTL)*time.Second)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init migrates the database schema.
func (s *Server) Init() error {
	if err := s.partnerStore.AutoMigrate(); err != nil {
		return fmt.Errorf("init partner store: %w", err)
	}
	if err := s.portfolioStore.AutoMigrate(); err != nil {
		return fmt.Errorf("init portfolio store: %w", err)
	}
	if err := s.auditStore.AutoMigrate(); err != nil {
		return fmt.Errorf("init audit store: %w", err)
	}
	return nil
}

// Router builds the full route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAdmin := auth.RequireAdmin(s.codec)
	authCfg := auth.Config{
		AdminUsername: s.cfg.AdminUsername,
		AdminPassword: s.cfg.AdminPassword,
		SecureCookie:  s.cfg.Production(),
	}

	// The read cache covers only listings that are identical for every
	// caller; session-dependent routes (/auth, /audit-events) stay uncached.
	cached := s.readCache.Middleware()

	r.Route("/api", func(r chi.Router) {
		r.Use(s.readCache.FlushOnWrite)
		r.Use(audit.Middleware(s.auditStore, audit.Config{
			Enabled:   s.cfg.AuditEnabled,
			LogDenied: s.cfg.AuditLogDenied,
		}, s.actorFromCookie, s.logger))

		r.Mount("/auth", auth.NewRouter(s.codec, authCfg))
		r.With(cached).Mount("/portfolio", portfolio.NewRouter(s.portfolioStore, requireAdmin))
		r.Mount("/audit-events", audit.NewRouter(s.auditStore, requireAdmin))

		if s.blogStore != nil {
			r.With(cached).Mount("/posts", blog.NewRouter(s.blogStore, requireAdmin))
		}

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			if s.mediaStore != nil {
				r.Post("/upload", media.UploadPortfolioHandler(s.mediaStore))
				r.Post("/upload-partner-avatar", media.UploadPartnerAvatarHandler(s.mediaStore))
				r.Delete("/upload-delete", media.DeleteHandler(s.mediaStore))
			} else {
				r.Post("/upload", media.UnavailableHandler())
				r.Post("/upload-partner-avatar", media.UnavailableHandler())
				r.Delete("/upload-delete", media.UnavailableHandler())
			}
		})

		// Partner routes register their own path prefixes (/partners,
		// /partner-categories, /partner-ranks).
		r.With(cached).Mount("/", partner.NewRouter(s.partnerStore, s.lookupStore, s.portfolioStore, requireAdmin))
	})

	return r
}

// actorFromCookie resolves the admin identity for audit records without
// requiring the gate to have run first.
func (s *Server) actorFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return ""
	}
	username, ok := s.codec.Verify(cookie.Value)
	if !ok {
		return ""
	}
	return username
}
