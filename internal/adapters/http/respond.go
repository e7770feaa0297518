package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess merges extra fields into the {"success":true,...} envelope
// every endpoint answers with.
func writeSuccess(w http.ResponseWriter, status int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	writeJSON(w, status, payload)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, err error) {
	writeFailure(w, mapErrorToHTTPStatus(err), rootMessage(err))
}
