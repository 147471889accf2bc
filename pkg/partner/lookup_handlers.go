package partner

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Order       int    `json:"order"`
	Description string `json:"description"`
}

func listCategoriesHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := store.ListCategories(r.Context())
		if err != nil {
			writeInternalError(w, "list categories", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
	}
}

func getCategoryHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetCategory(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeInternalError(w, "get category", err)
			return
		}
		if c == nil {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func createCategoryHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
			writeError(w, http.StatusBadRequest, "name and slug are required")
			return
		}
		c := &PartnerCategory{
			Name:        strings.TrimSpace(req.Name),
			Slug:        strings.TrimSpace(req.Slug),
			Order:       req.Order,
			Description: req.Description,
		}
		if err := store.CreateCategory(r.Context(), c); err != nil {
			writeStoreError(w, "create category", err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func updateCategoryHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
			writeError(w, http.StatusBadRequest, "name and slug are required")
			return
		}
		c := &PartnerCategory{
			Name:        strings.TrimSpace(req.Name),
			Slug:        strings.TrimSpace(req.Slug),
			Order:       req.Order,
			Description: req.Description,
		}
		updated, err := store.UpdateCategory(r.Context(), chi.URLParam(r, "id"), c)
		if err != nil {
			writeStoreError(w, "update category", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteCategoryHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, "delete category", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

type rankRequest struct {
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Order  int     `json:"order"`
	Weight float64 `json:"weight"`
}

func listRanksHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranks, err := store.ListRanks(r.Context())
		if err != nil {
			writeInternalError(w, "list ranks", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ranks": ranks})
	}
}

func getRankHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rank, err := store.GetRank(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeInternalError(w, "get rank", err)
			return
		}
		if rank == nil {
			writeError(w, http.StatusNotFound, "rank not found")
			return
		}
		writeJSON(w, http.StatusOK, rank)
	}
}

func createRankHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
			writeError(w, http.StatusBadRequest, "name and slug are required")
			return
		}
		rank := &PartnerRank{
			Name:   strings.TrimSpace(req.Name),
			Slug:   strings.TrimSpace(req.Slug),
			Order:  req.Order,
			Weight: req.Weight,
		}
		if err := store.CreateRank(r.Context(), rank); err != nil {
			writeStoreError(w, "create rank", err)
			return
		}
		writeJSON(w, http.StatusCreated, rank)
	}
}

func updateRankHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
			writeError(w, http.StatusBadRequest, "name and slug are required")
			return
		}
		rank := &PartnerRank{
			Name:   strings.TrimSpace(req.Name),
			Slug:   strings.TrimSpace(req.Slug),
			Order:  req.Order,
			Weight: req.Weight,
		}
		updated, err := store.UpdateRank(r.Context(), chi.URLParam(r, "id"), rank)
		if err != nil {
			writeStoreError(w, "update rank", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteRankHandler(store *LookupStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteRank(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, "delete rank", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
