package partner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CollabRecalculator recomputes the denormalized collaboration counters from
// the true portfolio row counts. Implemented by the portfolio ledger.
type CollabRecalculator interface {
	RecalcPartner(ctx context.Context, partnerID string) error
	RecalcAll(ctx context.Context) error
}

// listPartnersHandler returns a handler that lists all partners.
func listPartnersHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partners, err := store.List(r.Context())
		if err != nil {
			writeInternalError(w, "list partners", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"partners": partners})
	}
}

// getPartnerHandler returns a handler that retrieves one partner by ID.
func getPartnerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeInternalError(w, "get partner", err)
			return
		}
		if p == nil {
			writeError(w, http.StatusNotFound, "partner not found")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// createPartnerRequest is the POST /partners body.
type createPartnerRequest struct {
	Name        string   `json:"name"`
	CategoryID  *string  `json:"categoryId"`
	RankID      *string  `json:"rankId"`
	Location    string   `json:"location"`
	Contact     string   `json:"contact"`
	PriceRange  string   `json:"priceRange"`
	AvatarURL   string   `json:"avatarUrl"`
	Tags        []string `json:"tags"`
	ManualScore float64  `json:"manualScore"`
}

// createPartnerHandler returns a handler that creates a partner.
func createPartnerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPartnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		p := &Partner{
			Name:        strings.TrimSpace(req.Name),
			CategoryID:  req.CategoryID,
			RankID:      req.RankID,
			Location:    req.Location,
			Contact:     req.Contact,
			PriceRange:  req.PriceRange,
			AvatarURL:   req.AvatarURL,
			Tags:        JSONStringSlice(req.Tags),
			ManualScore: req.ManualScore,
		}
		if err := store.Create(r.Context(), p); err != nil {
			writeStoreError(w, "create partner", err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// updatePartnerHandler returns a handler that applies a partial patch to a
// partner. Only fields present in the body are mutated.
func updatePartnerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		updated, err := store.Update(r.Context(), chi.URLParam(r, "id"), p)
		if err != nil {
			writeStoreError(w, "update partner", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// deletePartnerHandler returns a handler that deletes a partner.
func deletePartnerHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, "delete partner", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// recalcRequest is the POST /partners/bulk-recalculate-collab body. An empty
// body or absent partnerId recalculates every partner.
type recalcRequest struct {
	PartnerID string `json:"partnerId"`
}

// recalcCollabHandler returns a handler that overwrites the stored
// collaboration counters with freshly counted values, for one partner or all.
func recalcCollabHandler(rec CollabRecalculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recalcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.PartnerID != "" {
			if err := rec.RecalcPartner(r.Context(), req.PartnerID); err != nil {
				writeStoreError(w, "recalculate partner", err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "partnerId": req.PartnerID})
			return
		}

		if err := rec.RecalcAll(r.Context()); err != nil {
			writeStoreError(w, "recalculate all partners", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// writeStoreError maps store errors onto the HTTP error taxonomy.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var refErr *ReferencedError
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNameTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &refErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": refErr.Error(),
			"count": refErr.Count,
		})
	default:
		writeInternalError(w, op, err)
	}
}

// writeInternalError logs the failure detail and returns a generic 500 body.
func writeInternalError(w http.ResponseWriter, op string, err error) {
	slog.Error("partner handler failed", "op", op, "error", err)
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
