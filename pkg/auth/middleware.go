// Package auth gates the mutating admin endpoints behind a session-cookie
// check and serves the login/logout/me endpoints. Single admin account, no
// revocation list, no refresh: a request either carries a token verifying as
// the configured admin or it is rejected before any data access.
package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nisaaulia/site-server/pkg/session"
)

// CookieName is the session cookie set on login.
const CookieName = "admin_session"

// cookieMaxAge is the session lifetime. The legacy deployment issued 7-day
// cookies from one login route and 24-hour cookies from another; unified here
// at 24 hours, the stricter of the two.
const cookieMaxAge = 24 * 60 * 60

type contextKey struct{}

// UsernameFromContext returns the authenticated admin username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(contextKey{}).(string)
	return name, ok
}

// RequireAdmin returns middleware that rejects requests without a valid admin
// session cookie. Rejection happens before the wrapped handler runs, so no
// write is ever attempted on behalf of an unauthenticated caller.
func RequireAdmin(codec *session.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				unauthorized(w)
				return
			}
			username, ok := codec.Verify(cookie.Value)
			if !ok {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// sessionCookie builds the admin session cookie. Secure is set outside of
// development so the token never travels over plain HTTP in production.
func sessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// expiredCookie builds a cookie that clears the session.
func expiredCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
