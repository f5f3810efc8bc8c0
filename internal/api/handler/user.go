package handler

import (
	"net/http"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/storage"
	"github.com/bcnelson/passwd-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	store storage.Storage
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store storage.Storage) *UserHandler {
	return &UserHandler{store: store}
}

// List returns every user, ascending by uid.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	pub, err := h.store.UserSnapshot()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondCached(w, r, "users", pub.Snapshot.Checksum(), pub.Snapshot.Users())
}

// Get returns the user with the given uid.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := validation.ParseID("uid", chi.URLParam(r, "uid"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := h.store.GetUser(uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, user)
}

// Query returns the users matching every given field exactly.
func (h *UserHandler) Query(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ParseUserQuery(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	users, err := h.store.ListUsers()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, domain.FilterUsers(users, q))
}
