package storage

import (
	"time"

	"github.com/bcnelson/passwd-service/internal/domain"
)

// Storage defines the read side of the snapshot store.
// Implementations must be safe for concurrent use and must never block on
// a concurrent publish.
type Storage interface {
	// Users
	GetUser(uid uint32) (domain.User, error)
	ListUsers() ([]domain.User, error)

	// Groups
	GetGroup(gid uint32) (domain.Group, error)
	ListGroups() ([]domain.Group, error)

	// Snapshots, for callers that need several reads against one
	// consistent view.
	UserSnapshot() (*Published[domain.UserSnapshot], error)
	GroupSnapshot() (*Published[domain.GroupSnapshot], error)
}

// Publisher defines the write side of the snapshot store. Each slot has a
// single writer.
type Publisher interface {
	PublishUsers(snap *domain.UserSnapshot) *Published[domain.UserSnapshot]
	PublishGroups(snap *domain.GroupSnapshot) *Published[domain.GroupSnapshot]
}

// Published is a snapshot as it sits in a store slot. A new value is
// created for every publish and is never modified afterwards.
type Published[T any] struct {
	Snapshot    *T
	Sequence    uint64
	PublishedAt time.Time
}
