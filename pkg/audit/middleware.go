package audit

import (
	"log/slog"
	"net/http"
)

// ActorFunc resolves the acting identity for a request, typically from the
// session cookie. An empty result is recorded as "anonymous".
type ActorFunc func(*http.Request) string

// responseCapture wraps http.ResponseWriter to capture the status code.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

// Middleware records an audit event for every mutating request after the
// handler completes. Recording is best-effort: an audit write failure is
// logged but never fails the request.
func Middleware(store *Store, cfg Config, actor ActorFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || store == nil || !isMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			capture := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			outcome := outcomeFromStatus(capture.statusCode)
			if outcome == "denied" && !cfg.LogDenied {
				return
			}

			who := ""
			if actor != nil {
				who = actor(r)
			}
			if who == "" {
				who = "anonymous"
			}
			event := &Event{
				Actor:      who,
				Method:     r.Method,
				Path:       r.URL.Path,
				Outcome:    outcome,
				StatusCode: capture.statusCode,
			}
			if err := store.Append(r.Context(), event); err != nil {
				logger.Error("audit append failed", "error", err)
			}
		})
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func outcomeFromStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "denied"
	case status >= 400:
		return "failure"
	default:
		return "success"
	}
}
