package memory

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/storage"
)

// Store holds the most recently published user and group snapshots.
//
// Each slot is a single atomic pointer to an immutable value: a reader sees
// either the previous or the next snapshot, never a mix, and neither side
// takes a lock.
type Store struct {
	users  slot[domain.UserSnapshot]
	groups slot[domain.GroupSnapshot]
}

var (
	_ storage.Storage   = (*Store)(nil)
	_ storage.Publisher = (*Store)(nil)
)

// New creates a store with both slots unset.
func New() *Store {
	return &Store{}
}

type slot[T any] struct {
	current atomic.Pointer[storage.Published[T]]
	seq     atomic.Uint64
}

func (s *slot[T]) publish(snap *T, now time.Time) *storage.Published[T] {
	p := &storage.Published[T]{
		Snapshot:    snap,
		Sequence:    s.seq.Add(1),
		PublishedAt: now,
	}
	s.current.Store(p)
	return p
}

func (s *slot[T]) load(name string) (*storage.Published[T], error) {
	p := s.current.Load()
	if p == nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrUnavailable)
	}
	return p, nil
}

// PublishUsers replaces the current user snapshot.
func (s *Store) PublishUsers(snap *domain.UserSnapshot) *storage.Published[domain.UserSnapshot] {
	return s.users.publish(snap, time.Now().UTC())
}

// PublishGroups replaces the current group snapshot.
func (s *Store) PublishGroups(snap *domain.GroupSnapshot) *storage.Published[domain.GroupSnapshot] {
	return s.groups.publish(snap, time.Now().UTC())
}

// UserSnapshot returns the current user snapshot.
func (s *Store) UserSnapshot() (*storage.Published[domain.UserSnapshot], error) {
	return s.users.load("users")
}

// GroupSnapshot returns the current group snapshot.
func (s *Store) GroupSnapshot() (*storage.Published[domain.GroupSnapshot], error) {
	return s.groups.load("groups")
}

// GetUser looks up a user by uid in the current snapshot.
func (s *Store) GetUser(uid uint32) (domain.User, error) {
	p, err := s.UserSnapshot()
	if err != nil {
		return domain.User{}, err
	}
	u, ok := p.Snapshot.User(uid)
	if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", uid, domain.ErrNotFound)
	}
	return u, nil
}

// ListUsers returns all users of the current snapshot ascending by uid.
func (s *Store) ListUsers() ([]domain.User, error) {
	p, err := s.UserSnapshot()
	if err != nil {
		return nil, err
	}
	return p.Snapshot.Users(), nil
}

// GetGroup looks up a group by gid in the current snapshot.
func (s *Store) GetGroup(gid uint32) (domain.Group, error) {
	p, err := s.GroupSnapshot()
	if err != nil {
		return domain.Group{}, err
	}
	g, ok := p.Snapshot.Group(gid)
	if !ok {
		return domain.Group{}, fmt.Errorf("group %d: %w", gid, domain.ErrNotFound)
	}
	return g, nil
}

// ListGroups returns all groups of the current snapshot ascending by gid.
func (s *Store) ListGroups() ([]domain.Group, error) {
	p, err := s.GroupSnapshot()
	if err != nil {
		return nil, err
	}
	return p.Snapshot.Groups(), nil
}
