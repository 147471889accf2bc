package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisaaulia/site-server/pkg/session"
)

func newTestAuth(t *testing.T) (*session.Codec, http.Handler) {
	t.Helper()
	codec := session.NewCodec("test-secret", "nisaaulia")
	cfg := Config{AdminUsername: "nisaaulia", AdminPassword: "hunter2"}
	return codec, NewRouter(codec, cfg)
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	codec, router := newTestAuth(t)

	w := postLogin(t, router, `{"username":"nisaaulia","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	cookie := sessionCookieFrom(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, cookieMaxAge, cookie.MaxAge)

	username, ok := codec.Verify(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, "nisaaulia", username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, router := newTestAuth(t)

	w := postLogin(t, router, `{"username":"nisaaulia","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(t, router, `{"username":"intruder","password":"hunter2"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(t, router, `{"username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postLogin(t, router, `{broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	_, router := newTestAuth(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookieFrom(t, w)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestMeReportsSessionState(t *testing.T) {
	codec, router := newTestAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)

	token, err := codec.Issue("nisaaulia")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), `"username":"nisaaulia"`)
}

func TestRequireAdminGate(t *testing.T) {
	codec := session.NewCodec("test-secret", "nisaaulia")

	var handlerRan bool
	var seenUsername string
	protected := RequireAdmin(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		seenUsername, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// No cookie: rejected before the handler runs.
	req := httptest.NewRequest(http.MethodPost, "/anything", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)

	// Garbage cookie: same.
	req = httptest.NewRequest(http.MethodPost, "/anything", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)

	// Valid cookie: the handler sees the username.
	token, err := codec.Issue("nisaaulia")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/anything", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, handlerRan)
	assert.Equal(t, "nisaaulia", seenUsername)
}
