package domain

import (
	"cmp"
	"slices"
)

// UserSnapshot is an immutable view of one successfully parsed passwd file.
type UserSnapshot struct {
	users    []User
	byID     map[uint32]int
	checksum string
}

// NewUserSnapshot builds a snapshot from validated users. The users must have
// unique ids; they are copied and sorted ascending by uid.
func NewUserSnapshot(users []User, checksum string) *UserSnapshot {
	sorted := slices.Clone(users)
	slices.SortFunc(sorted, func(a, b User) int { return cmp.Compare(a.UID, b.UID) })

	byID := make(map[uint32]int, len(sorted))
	for i, u := range sorted {
		byID[u.UID] = i
	}

	return &UserSnapshot{users: sorted, byID: byID, checksum: checksum}
}

// Users returns all users ascending by uid. The result is never nil.
func (s *UserSnapshot) Users() []User {
	return append(make([]User, 0, len(s.users)), s.users...)
}

// User looks up a user by uid.
func (s *UserSnapshot) User(uid uint32) (User, bool) {
	i, ok := s.byID[uid]
	if !ok {
		return User{}, false
	}
	return s.users[i], true
}

// Len returns the number of users.
func (s *UserSnapshot) Len() int {
	return len(s.users)
}

// Checksum returns the hex SHA-256 of the text the snapshot was parsed from.
func (s *UserSnapshot) Checksum() string {
	return s.checksum
}

// GroupSnapshot is an immutable view of one successfully parsed group file.
type GroupSnapshot struct {
	groups   []Group
	byID     map[uint32]int
	byMember map[string][]Group
	checksum string
}

// NewGroupSnapshot builds a snapshot from validated groups. The groups must
// have unique ids; they are copied and sorted ascending by gid, and the
// member reverse index is derived from them.
func NewGroupSnapshot(groups []Group, checksum string) *GroupSnapshot {
	byMember := make(map[string][]Group)
	for _, g := range groups {
		for _, m := range g.Members {
			byMember[m] = append(byMember[m], g)
		}
	}
	for _, gs := range byMember {
		slices.SortStableFunc(gs, compareGID)
	}

	sorted := slices.Clone(groups)
	slices.SortFunc(sorted, compareGID)

	byID := make(map[uint32]int, len(sorted))
	for i, g := range sorted {
		byID[g.GID] = i
	}

	return &GroupSnapshot{groups: sorted, byID: byID, byMember: byMember, checksum: checksum}
}

// Groups returns all groups ascending by gid. The result is never nil.
func (s *GroupSnapshot) Groups() []Group {
	return append(make([]Group, 0, len(s.groups)), s.groups...)
}

// Group looks up a group by gid.
func (s *GroupSnapshot) Group(gid uint32) (Group, bool) {
	i, ok := s.byID[gid]
	if !ok {
		return Group{}, false
	}
	return s.groups[i], true
}

// GroupsForMember returns the groups that list name as a member, ascending by
// gid. A group listing the name more than once appears once per listing.
func (s *GroupSnapshot) GroupsForMember(name string) []Group {
	return slices.Clone(s.byMember[name])
}

// Len returns the number of groups.
func (s *GroupSnapshot) Len() int {
	return len(s.groups)
}

// Checksum returns the hex SHA-256 of the text the snapshot was parsed from.
func (s *GroupSnapshot) Checksum() string {
	return s.checksum
}

func compareGID(a, b Group) int {
	return cmp.Compare(a.GID, b.GID)
}
