package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"photogram-backend/internal/forms"
	"photogram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const msgInvalidCredentials = "Invalid username or password"

// ErrorResponse represents an error response. Errors is a single message or a list of them.
type ErrorResponse struct {
	Errors any `json:"errors"`
}

// MessageResponse is the plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message any, statusCode int) {
	respondJSON(w, ErrorResponse{Errors: message}, statusCode)
}

// writeServiceError maps domain errors to HTTP responses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		formErrs forms.Errors
		verr     *services.ValidationError
		derr     *services.DuplicateError
	)

	switch {
	case errors.As(err, &formErrs):
		respondError(w, []string(formErrs), http.StatusBadRequest)
	case errors.As(err, &verr):
		respondError(w, verr.Messages, http.StatusBadRequest)
	case errors.As(err, &derr):
		respondError(w, derr.Messages, http.StatusBadRequest)
	case errors.Is(err, services.ErrSelfFollow):
		respondError(w, []string{"You cannot follow yourself"}, http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, msgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, services.ErrInvalidToken):
		respondError(w, "Invalid token", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, "You cannot act on behalf of another user", http.StatusForbidden)
	case errors.Is(err, services.ErrUserNotFound):
		respondError(w, "User not found", http.StatusNotFound)
	case errors.Is(err, services.ErrPostNotFound):
		respondError(w, "Post not found", http.StatusNotFound)
	case errors.Is(err, services.ErrPhotoNotFound):
		respondError(w, "File not found", http.StatusNotFound)
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID reads a positive integer route parameter. Malformed ids are answered with 400.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, []string{"Invalid " + name + ": " + strconv.Quote(raw)}, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
