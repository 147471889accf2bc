package portfolio

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nisaaulia/site-server/pkg/partner"
)

// listHandler returns a handler that lists all portfolio entries.
func listHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.List(r.Context())
		if err != nil {
			writeInternalError(w, "list portfolio", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"portfolio": entries})
	}
}

// getHandler returns a handler that retrieves one entry by slug.
func getHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			writeInternalError(w, "get portfolio", err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "portfolio entry not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// createRequest is the POST /portfolio body.
type createRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Images      []string   `json:"images"`
	Tags        []string   `json:"tags"`
	Categories  []string   `json:"categories"`
	Brands      []string   `json:"brands"`
	Featured    bool       `json:"featured"`
	Order       int        `json:"order"`
	PublishedAt *time.Time `json:"publishedAt"`
	PartnerID   *string    `json:"partnerId"`
}

// createHandler returns a handler that creates a portfolio entry and, within
// the same transaction, increments the owning partner's collaboration count.
func createHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
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
			writeError(w, http.StatusBadRequest, "slug is required")
			return
		}

		p := &Portfolio{
			Title:       strings.TrimSpace(req.Title),
			Slug:        slug,
			Summary:     req.Summary,
			Images:      partner.JSONStringSlice(req.Images),
			Tags:        partner.JSONStringSlice(req.Tags),
			Categories:  partner.JSONStringSlice(req.Categories),
			Brands:      partner.JSONStringSlice(req.Brands),
			Featured:    req.Featured,
			Order:       req.Order,
			PublishedAt: req.PublishedAt,
			PartnerID:   req.PartnerID,
		}
		if err := store.Create(r.Context(), p); err != nil {
			writeStoreError(w, "create portfolio", err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// updateHandler returns a handler that applies a partial patch to an entry.
func updateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pt Patch
		if err := json.NewDecoder(r.Body).Decode(&pt); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := store.Update(r.Context(), chi.URLParam(r, "slug"), pt)
		if err != nil {
			writeStoreError(w, "update portfolio", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// deleteHandler returns a handler that deletes an entry.
func deleteHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
			writeStoreError(w, "delete portfolio", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// generateSlugRequest is the POST /portfolio/generate-slug body.
type generateSlugRequest struct {
	Title string `json:"title"`
}

// generateSlugHandler returns a handler that derives a unique slug from a
// title, retrying numbered variants before giving up with a 500.
func generateSlugHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateSlugRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		slug, err := store.GenerateUniqueSlug(r.Context(), req.Title)
		if err != nil {
			if errors.Is(err, ErrSlugExhausted) {
				writeError(w, http.StatusInternalServerError, "Failed to generate unique slug")
				return
			}
			writeInternalError(w, "generate slug", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"slug": slug})
	}
}

// writeStoreError maps ledger errors onto the HTTP error taxonomy.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, partner.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlugTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, op, err)
	}
}

// writeInternalError logs the failure detail and returns a generic 500 body.
func writeInternalError(w http.ResponseWriter, op string, err error) {
	slog.Error("portfolio handler failed", "op", op, "error", err)
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
