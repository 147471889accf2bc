package cache

import (
	"bytes"
	"net/http"
	"time"
)

// Manager owns the read cache and the middleware pair that feed and flush it.
// A nil *Manager is valid and disables caching, so call sites need no
// enabled/disabled branching.
type Manager struct {
	reads *Cache
}

// NewManager creates a Manager with one read cache.
func NewManager(maxSize int, ttl time.Duration) *Manager {
	return &Manager{reads: New(maxSize, ttl)}
}

// Flush clears the read cache.
func (m *Manager) Flush() {
	if m == nil {
		return
	}
	m.reads.Flush()
}

// captureWriter records the status code and body of a response so successful
// reads can be stored.
type captureWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	written    bool
}

func (w *captureWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.statusCode = http.StatusOK
		w.written = true
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches GET responses keyed by request URI (path plus query).
// Only 200 responses are stored; hits are served as JSON with an X-Cache
// header marking HIT or MISS. Mount this only on routes whose responses are
// identical for every caller.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if cached, ok := m.reads.Get(key); ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			}

			cw := &captureWriter{ResponseWriter: w}
			cw.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(cw, r)

			if cw.statusCode == http.StatusOK {
				m.reads.Set(key, cw.body.Bytes())
			}
		})
	}
}

// FlushOnWrite flushes the whole read cache after any mutating request. The
// listings are small and rebuilt in one query each, so a full flush is
// simpler than tracking which mutation touched which listing.
func (m *Manager) FlushOnWrite(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			m.reads.Flush()
		}
	})
}
