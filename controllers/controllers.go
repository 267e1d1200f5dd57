package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pawlink_server/services"
)

// writeJSON writes a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeGuardError maps the access-guard error taxonomy onto HTTP statuses:
// unknown match 404, non-participant or unmatched 403, anything else 500.
func writeGuardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound), errors.Is(err, services.ErrPetNotFound):
		http.Error(w, `{"error": "Not found"}`, http.StatusNotFound)
	case errors.Is(err, services.ErrNotParticipant), errors.Is(err, services.ErrNotMatched), errors.Is(err, services.ErrNotPetOwner):
		http.Error(w, `{"error": "Forbidden"}`, http.StatusForbidden)
	default:
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
	}
}
