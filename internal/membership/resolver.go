// Package membership answers which groups a user belongs to by reconciling
// the user and group snapshots.
//
// The two snapshots come from files that are updated independently, so a
// user's primary gid may briefly be missing from the group snapshot. That is
// a normal state: the resolver leaves the primary group out instead of
// failing.
package membership

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/storage"
)

// Resolver resolves primary and secondary group membership.
type Resolver struct {
	store storage.Storage
}

// New creates a new Resolver.
func New(store storage.Storage) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns every group user uid belongs to, ascending by gid.
//
// It returns domain.ErrNotFound if the user is unknown and
// domain.ErrUnavailable if a needed snapshot was never published. A known
// user with no resolvable groups yields an empty, non-nil slice.
func (r *Resolver) Resolve(uid uint32) ([]domain.Group, error) {
	users, err := r.store.UserSnapshot()
	if err != nil {
		return nil, err
	}
	user, ok := users.Snapshot.User(uid)
	if !ok {
		return nil, fmt.Errorf("user %d: %w", uid, domain.ErrNotFound)
	}

	groups, err := r.store.GroupSnapshot()
	if err != nil {
		return nil, err
	}
	return Reconcile(user, groups.Snapshot), nil
}

// Reconcile merges user's primary group into the secondary groups listed in
// snap. Both inputs are read once; nothing is locked.
func Reconcile(user domain.User, snap *domain.GroupSnapshot) []domain.Group {
	secondary := snap.GroupsForMember(user.Name)

	if len(secondary) == 0 {
		if primary, ok := snap.Group(user.GID); ok {
			return []domain.Group{primary}
		}
		return []domain.Group{}
	}

	if slices.ContainsFunc(secondary, func(g domain.Group) bool { return g.GID == user.GID }) {
		return secondary
	}

	primary, ok := snap.Group(user.GID)
	if !ok {
		return secondary
	}
	merged := append(secondary, primary)
	slices.SortStableFunc(merged, func(a, b domain.Group) int { return cmp.Compare(a.GID, b.GID) })
	return merged
}
