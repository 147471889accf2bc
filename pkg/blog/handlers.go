package blog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// listPostsHandler returns a handler that lists all posts without bodies.
func listPostsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := store.List()
		if err != nil {
			writeInternalError(w, "list posts", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
	}
}

// getPostHandler returns a handler that retrieves one post with its body.
func getPostHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := store.Get(chi.URLParam(r, "slug"))
		if err != nil {
			writeStoreError(w, "get post", err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

// createPostRequest is the POST /posts body. The slug defaults to a
// slugified title when absent.
type createPostRequest struct {
	Slug    string `json:"slug"`
	Date    string `json:"date"`
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	Preview string `json:"preview"`
	Image   string `json:"image"`
	Body    string `json:"body"`
}

// createPostHandler returns a handler that writes a new post file.
func createPostHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugFromTitle(req.Title)
		}
		date := req.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		post := Post{
			Slug:    slug,
			Date:    date,
			Title:   strings.TrimSpace(req.Title),
			Tagline: req.Tagline,
			Preview: req.Preview,
			Image:   req.Image,
			Body:    req.Body,
		}
		if err := store.Create(post); err != nil {
			writeStoreError(w, "create post", err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

// deletePostHandler returns a handler that removes a post file.
func deletePostHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(chi.URLParam(r, "slug")); err != nil {
			writeStoreError(w, "delete post", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// slugFromTitle lowercases the title and collapses non-alphanumeric runs
// into hyphens.
func slugFromTitle(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// writeStoreError maps blog store errors onto the HTTP error taxonomy.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrExists), errors.Is(err, ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, op, err)
	}
}

// writeInternalError logs the failure detail and returns a generic 500 body.
func writeInternalError(w http.ResponseWriter, op string, err error) {
	slog.Error("blog handler failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
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
