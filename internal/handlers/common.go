package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"date-journal-backend/internal/models"
	"date-journal-backend/internal/repository"
	"date-journal-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, models.ErrInvalidModel),
		errors.Is(err, models.ErrEmptyNote),
		errors.Is(err, models.ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotRecipient),
		errors.Is(err, models.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// handleServiceError logs err and writes the matching response. Internal
// failures are reported without detail.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	code := statusFor(err)

	var event *zerolog.Event
	if code == http.StatusInternalServerError {
		event = log.Error()
	} else {
		event = log.Warn()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", code).
		Msg(msg)

	if code == http.StatusInternalServerError {
		respondError(w, "Something went wrong", code)
		return
	}
	respondError(w, err.Error(), code)
}
