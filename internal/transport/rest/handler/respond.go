package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quantumconnections/internal/service"
	"quantumconnections/internal/wizard"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps service and wizard errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrWrongStep),
		errors.Is(err, service.ErrNoResult),
		errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrCategoryLocked),
		errors.Is(err, wizard.ErrNotFinished):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrNamesRequired),
		errors.Is(err, wizard.ErrUnknownCategory),
		errors.Is(err, wizard.ErrUnknownGender),
		errors.Is(err, wizard.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, msg)
}
