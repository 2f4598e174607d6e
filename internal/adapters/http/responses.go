package httpadapter

import (
	"encoding/json"
	"net/http"
)

// errorEnvelope is the error body shape shared by every endpoint.
// DreamID is set for pipeline stage failures so clients can correlate
// the failed run with the record now sitting in status=error.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	DreamID string `json:"dream_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}
