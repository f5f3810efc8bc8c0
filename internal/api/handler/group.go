package handler

import (
	"net/http"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/membership"
	"github.com/bcnelson/passwd-service/internal/storage"
	"github.com/bcnelson/passwd-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

// GroupHandler handles group endpoints.
type GroupHandler struct {
	store    storage.Storage
	resolver *membership.Resolver
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(store storage.Storage) *GroupHandler {
	return &GroupHandler{store: store, resolver: membership.New(store)}
}

// List returns every group, ascending by gid.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	pub, err := h.store.GroupSnapshot()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondCached(w, r, "groups", pub.Snapshot.Checksum(), pub.Snapshot.Groups())
}

// Get returns the group with the given gid.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	gid, err := validation.ParseID("gid", chi.URLParam(r, "gid"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	group, err := h.store.GetGroup(gid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, group)
}

// Query returns the groups matching every given field. members compares as a
// set.
func (h *GroupHandler) Query(w http.ResponseWriter, r *http.Request) {
	q, err := validation.ParseGroupQuery(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	groups, err := h.store.ListGroups()
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, domain.FilterGroups(groups, q))
}

// ListForUser returns every group the user belongs to, primary included,
// ascending by gid.
func (h *GroupHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	uid, err := validation.ParseID("uid", chi.URLParam(r, "uid"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	groups, err := h.resolver.Resolve(uid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, groups)
}
