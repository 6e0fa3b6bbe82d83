package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zynordev/okurundan/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "message": message})
}

// respondError maps the error taxonomy onto HTTP statuses. Anything without
// a kind is treated as an internal error with a generic message.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Beklenmeyen bir hata oluştu."

	var e *apperr.Error
	if errors.As(err, &e) {
		message = e.Message
		switch e.Kind {
		case apperr.Unauthorized:
			status = http.StatusUnauthorized
		case apperr.Forbidden:
			status = http.StatusForbidden
		case apperr.Validation, apperr.SelfReference:
			status = http.StatusBadRequest
		case apperr.NotFound:
			status = http.StatusNotFound
		case apperr.Persistence:
			status = http.StatusInternalServerError
		}
	}
	respondFailure(w, status, message)
}
