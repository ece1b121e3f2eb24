package api

import (
	"encoding/json"
	"net/http"

	"github.com/wanderlist/api/internal/destination"
)

// errorResponse is the uniform JSON failure body. The HTTP status code is the
// machine-readable discriminator; Error is for humans. Details is only set
// for validation failures.
type errorResponse struct {
	Error   string                   `json:"error"`
	Details []destination.FieldError `json:"details,omitempty"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a uniform JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeValidationError writes the aggregated field-level violations of a
// failed validation with HTTP 400.
func writeValidationError(w http.ResponseWriter, details []destination.FieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: details})
}
