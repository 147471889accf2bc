package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nisaaulia/site-server/pkg/session"
)

// Config holds the admin credentials and cookie settings.
type Config struct {
	AdminUsername string
	AdminPassword string
	SecureCookie  bool
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginHandler returns a handler that checks the admin credentials and sets
// the session cookie. Credential comparison is constant-time.
func loginHandler(codec *session.Codec, cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
		if !userOK || !passOK {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := codec.Issue(req.Username)
		if err != nil {
			slog.Error("session issue failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		http.SetCookie(w, sessionCookie(token, cfg.SecureCookie))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// logoutHandler returns a handler that clears the session cookie.
func logoutHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, expiredCookie(cfg.SecureCookie))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// meHandler returns a handler reporting whether the caller holds a valid
// admin session.
func meHandler(codec *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		username, ok := codec.Verify(cookie.Value)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": username})
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
