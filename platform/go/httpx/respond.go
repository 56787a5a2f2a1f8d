// Package httpx carries the small JSON request/response helpers shared by the
// hand-written chi handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serializes v as the response body with the given status code.
// Serialization failures are unrecoverable at this point; the status line has
// already been sent.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the {"error": "..."} envelope used across the admin API.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteSuccess writes the {"success": true} envelope used by the admin
// management endpoints.
func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
