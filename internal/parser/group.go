package parser

import (
	"strings"

	"github.com/bcnelson/passwd-service/internal/domain"
)

const (
	groupFieldCount   = 4
	groupNameField    = 0
	groupGIDField     = 2
	groupMembersField = 3
)

// ParseGroups parses group text of the form name:password:gid:m1,m2,...
// The password field is ignored. An empty member field yields no members and
// empty names between commas are dropped; order and duplicates are kept.
//
// On failure the returned error is a *RejectedError.
func ParseGroups(text string) (*domain.GroupSnapshot, error) {
	lines := splitLines(text)
	groups := make([]domain.Group, 0, len(lines))
	gids := make(map[uint32]struct{}, len(lines))
	names := make(map[string]struct{}, len(lines))

	for _, l := range lines {
		f := l.fields
		if len(f) != groupFieldCount {
			return nil, reject(domain.SourceGroup, l, "expected %d fields, got %d", groupFieldCount, len(f))
		}

		name := f[groupNameField]
		if name == "" {
			return nil, reject(domain.SourceGroup, l, "expected non-empty name")
		}
		gid, ok := parseID(f[groupGIDField])
		if !ok {
			return nil, reject(domain.SourceGroup, l, "expected unsigned 32-bit integer group identifier (gid), got %q", f[groupGIDField])
		}

		if _, dup := gids[gid]; dup {
			return nil, reject(domain.SourceGroup, l, "duplicate group identifier (gid) %d", gid)
		}
		if _, dup := names[name]; dup {
			return nil, reject(domain.SourceGroup, l, "duplicate group name %q", name)
		}
		gids[gid] = struct{}{}
		names[name] = struct{}{}

		groups = append(groups, domain.Group{
			Name:    name,
			GID:     gid,
			Members: splitMembers(f[groupMembersField]),
		})
	}

	return domain.NewGroupSnapshot(groups, checksum(text)), nil
}

func splitMembers(field string) []string {
	members := []string{}
	if field == "" {
		return members
	}
	for _, m := range strings.Split(field, ",") {
		if m != "" {
			members = append(members, m)
		}
	}
	return members
}
