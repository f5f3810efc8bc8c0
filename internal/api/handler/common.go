package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/validation"
	"github.com/go-chi/render"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// respondStandardError writes a JSON error response in the standard envelope.
func respondStandardError(w http.ResponseWriter, r *http.Request, status int, code, message, field string, details map[string]any) {
	respondJSON(w, r, status, &domain.StandardErrorResponse{
		Error: domain.StandardError{
			Code:    code,
			Message: message,
			Field:   field,
			Details: details,
		},
	})
}

// handleError converts domain errors to HTTP errors.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs validation.ValidationErrors
		verr  *validation.ValidationError
	)
	switch {
	case errors.As(err, &verrs):
		respondStandardError(w, r, http.StatusBadRequest, domain.ErrCodeValidationError,
			verrs.Error(), "", map[string]any{"errors": verrs})
	case errors.As(err, &verr):
		respondStandardError(w, r, http.StatusBadRequest, domain.ErrCodeValidationError,
			verr.Message, verr.Field, map[string]any{"value": verr.Value})
	case errors.Is(err, domain.ErrInvalidInput):
		respondStandardError(w, r, http.StatusBadRequest, domain.ErrCodeInvalidInput, "invalid input", "", nil)
	case errors.Is(err, domain.ErrNotFound):
		respondStandardError(w, r, http.StatusNotFound, domain.ErrCodeResourceNotFound, "not found", "", nil)
	case errors.Is(err, domain.ErrUnavailable):
		h := w.Header()
		h.Set("Cache-Control", "no-cache")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "-1")
		respondStandardError(w, r, http.StatusServiceUnavailable, domain.ErrCodeSnapshotUnavailable,
			"snapshot not yet available", "", nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		respondStandardError(w, r, http.StatusInternalServerError, domain.ErrCodeInternalError,
			"internal server error", "", nil)
	}
}
