package media

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// maxUploadSize bounds in-memory multipart parsing (32 MiB).
const maxUploadSize = 32 << 20

// UploadPortfolioHandler returns a handler that proxies a portfolio image
// upload to the bucket. Multipart fields: "file" (bytes) and "slug".
func UploadPortfolioHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		slug := strings.TrimSpace(r.FormValue("slug"))
		if slug == "" {
			writeError(w, http.StatusBadRequest, "slug is required")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		key, url, err := store.UploadPortfolioImage(r.Context(), slug,
			header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			writeInternalError(w, "upload portfolio image", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
	}
}

// UploadPartnerAvatarHandler returns a handler that proxies a partner avatar
// upload to the bucket. Multipart fields: "file" and "partnerName".
func UploadPartnerAvatarHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		partnerName := strings.TrimSpace(r.FormValue("partnerName"))
		if partnerName == "" {
			writeError(w, http.StatusBadRequest, "partnerName is required")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		key, url, err := store.UploadPartnerAvatar(r.Context(), partnerName,
			header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			writeInternalError(w, "upload partner avatar", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
	}
}

// deleteRequest is the DELETE /upload-delete body.
type deleteRequest struct {
	Key string `json:"key"`
}

// DeleteHandler returns a handler that removes an object from the bucket.
func DeleteHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Key == "" {
			writeError(w, http.StatusBadRequest, "key is required")
			return
		}
		if err := store.Delete(r.Context(), req.Key); err != nil {
			if errors.Is(err, ErrKeyOutsidePrefix) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeInternalError(w, "delete object", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// UnavailableHandler responds 503 when no media store is configured.
func UnavailableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusServiceUnavailable, "media storage not configured")
	}
}

// writeInternalError logs the failure detail and returns a generic 500 body.
func writeInternalError(w http.ResponseWriter, op string, err error) {
	slog.Error("media handler failed", "op", op, "error", err)
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
