package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nisaaulia/site-server/pkg/auth"
	"github.com/nisaaulia/site-server/pkg/blog"
	"github.com/nisaaulia/site-server/pkg/config"
	"github.com/nisaaulia/site-server/pkg/partner"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	blogStore, err := blog.NewStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Listen:        ":0",
		Env:           "development",
		AdminUsername: "nisaaulia",
		AdminPassword: "hunter2",
		SessionSecret: "test-secret",
		CORSOrigins:   []string{"*"},
		AuditEnabled:  true,
	}
	srv := New(cfg, db, nil, WithBlogStore(blogStore))
	require.NoError(t, srv.Init())
	return srv.Router()
}

func request(t *testing.T, router http.Handler, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	w := request(t, router, http.MethodPost, "/api/auth/login",
		`{"username":"nisaaulia","password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func TestHealthz(t *testing.T) {
	router := newTestServer(t)
	w := request(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestMutationsRequireSession(t *testing.T) {
	router := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/api/partners", `{"name":"X"}`},
		{http.MethodPost, "/api/portfolio", `{"title":"X","slug":"x"}`},
		{http.MethodPost, "/api/portfolio/generate-slug", `{"title":"X"}`},
		{http.MethodPost, "/api/partners/bulk-recalculate-collab", ""},
		{http.MethodPost, "/api/posts", `{"title":"X"}`},
		{http.MethodPost, "/api/upload", ""},
		{http.MethodGet, "/api/audit-events", ""},
	} {
		w := request(t, router, tc.method, tc.path, tc.body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}

	// Public reads need no session.
	for _, path := range []string{"/api/partners", "/api/portfolio", "/api/posts", "/api/partner-categories", "/api/partner-ranks"} {
		w := request(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

// End-to-end: login, create a partner, attach portfolio entries, watch the
// collaboration counter and its downstream rank move.
func TestCollaborationFlow(t *testing.T) {
	router := newTestServer(t)
	cookie := login(t, router)

	w := request(t, router, http.MethodPost, "/api/partners",
		`{"name":"Studio Alpha","manualScore":2}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var p partner.Partner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 2.0, p.InternalRank)

	for i := 1; i <= 2; i++ {
		body := fmt.Sprintf(`{"title":"Project %d","slug":"project-%d","partnerId":%q}`, i, i, p.ID)
		w = request(t, router, http.MethodPost, "/api/portfolio", body, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = request(t, router, http.MethodGet, "/api/partners/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 2, p.CollaborationCount)

	// The counter moved but the stored rank is stale until a partner update.
	assert.Equal(t, 2.0, p.InternalRank)

	w = request(t, router, http.MethodPut, "/api/partners/"+p.ID, `{"manualScore":2}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 3.0, p.InternalRank) // 2*0.5 + 2

	// Deleting an entry brings the counter back down.
	w = request(t, router, http.MethodDelete, "/api/portfolio/project-1", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, router, http.MethodGet, "/api/partners/"+p.ID, "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 1, p.CollaborationCount)

	// Partner deletion is blocked while entries remain.
	w = request(t, router, http.MethodDelete, "/api/partners/"+p.ID, "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The mutations above left an audit trail.
	w = request(t, router, http.MethodGet, "/api/audit-events", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var trail struct {
		Events []struct {
			Actor  string `json:"actor"`
			Method string `json:"method"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trail))
	require.NotEmpty(t, trail.Events)
	assert.Equal(t, "nisaaulia", trail.Events[0].Actor)
}

func TestGenerateSlugEndpoint(t *testing.T) {
	router := newTestServer(t)
	cookie := login(t, router)

	w := request(t, router, http.MethodPost, "/api/portfolio/generate-slug",
		`{"title":"Brand Refresh"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "brand-refresh", resp["slug"])

	// Occupy every candidate and watch the endpoint give up.
	w = request(t, router, http.MethodPost, "/api/portfolio",
		`{"title":"Busy","slug":"busy"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	for n := 2; n <= 10; n++ {
		body := fmt.Sprintf(`{"title":"Busy %d","slug":"busy-%d"}`, n, n)
		w = request(t, router, http.MethodPost, "/api/portfolio", body, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = request(t, router, http.MethodPost, "/api/portfolio/generate-slug",
		`{"title":"Busy"}`, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to generate unique slug")
}

func TestBlogEndpoints(t *testing.T) {
	router := newTestServer(t)
	cookie := login(t, router)

	w := request(t, router, http.MethodPost, "/api/posts",
		`{"title":"Hello World","body":"# Hi\n","tagline":"first"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"hello-world"`)

	w = request(t, router, http.MethodGet, "/api/posts/hello-world", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Hello World"`)

	w = request(t, router, http.MethodDelete, "/api/posts/hello-world", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, router, http.MethodGet, "/api/posts/hello-world", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadUnavailableWithoutMediaStore(t *testing.T) {
	router := newTestServer(t)
	cookie := login(t, router)

	w := request(t, router, http.MethodPost, "/api/upload", "", cookie)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReadCacheServesRepeatListings(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	cfg := &config.Config{
		Env:           "development",
		AdminUsername: "nisaaulia",
		AdminPassword: "hunter2",
		SessionSecret: "test-secret",
		CORSOrigins:   []string{"*"},
		CacheEnabled:  true,
		CacheTTL:      60,
		CacheMaxSize:  16,
	}
	srv := New(cfg, db, nil)
	require.NoError(t, srv.Init())
	router := srv.Router()

	w := request(t, router, http.MethodGet, "/api/partners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = request(t, router, http.MethodGet, "/api/partners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	// A mutation flushes the cache, so the next read is fresh.
	cookie := login(t, router)
	w = request(t, router, http.MethodPost, "/api/partners", `{"name":"Studio Alpha"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(t, router, http.MethodGet, "/api/partners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "Studio Alpha")
}

func TestLegacyTokenStillAccepted(t *testing.T) {
	router := newTestServer(t)

	// base64("nisaaulia:1700000000000"), the pre-signing cookie format.
	legacy := "bmlzYWF1bGlhOjE3MDAwMDAwMDAwMDA="
	cookie := &http.Cookie{Name: auth.CookieName, Value: legacy}

	w := request(t, router, http.MethodPost, "/api/partners", `{"name":"Legacy"}`, cookie)
	assert.Equal(t, http.StatusCreated, w.Code)
}
