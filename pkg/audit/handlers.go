package audit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// listEventsHandler returns a handler that lists audit events newest first,
// with keyset pagination via pageSize and pageToken query parameters.
func listEventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		pageToken, _ := strconv.ParseUint(r.URL.Query().Get("pageToken"), 10, 64)

		events, nextToken, err := store.List(r.Context(), pageSize, pageToken)
		if err != nil {
			slog.Error("audit handler failed", "op", "list events", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := map[string]any{"events": events}
		if nextToken > 0 {
			resp["nextPageToken"] = strconv.FormatUint(nextToken, 10)
		}
		writeJSON(w, http.StatusOK, resp)
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
