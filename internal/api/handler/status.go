package handler

import (
	"net/http"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/journal"
	"github.com/bcnelson/passwd-service/internal/validation"
)

// StatusReporter reports the state of each watched source.
type StatusReporter interface {
	Status() []domain.SourceStatus
}

// StatusHandler handles service status and parse history endpoints.
type StatusHandler struct {
	status  StatusReporter
	journal journal.Journal
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(status StatusReporter, j journal.Journal) *StatusHandler {
	return &StatusHandler{status: status, journal: j}
}

// Status returns the per-source snapshot and watcher state.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"sources": h.status.Status(),
	})
}

// Events returns recorded parse events, newest first.
func (h *StatusHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := validation.ParsePage(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	events, err := h.journal.List(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.ParseEvent{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"events": events,
		"limit":  limit,
		"offset": offset,
	})
}
