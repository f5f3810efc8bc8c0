package parser

import (
	"github.com/bcnelson/passwd-service/internal/domain"
)

const (
	passwdFieldCount   = 7
	passwdNameField    = 0
	passwdUIDField     = 2
	passwdGIDField     = 3
	passwdCommentField = 4
	passwdHomeField    = 5
	passwdShellField   = 6
)

// ParseUsers parses passwd text of the form
// name:password:uid:gid:comment:home:shell. The password field is ignored.
//
// On failure the returned error is a *RejectedError.
func ParseUsers(text string) (*domain.UserSnapshot, error) {
	lines := splitLines(text)
	users := make([]domain.User, 0, len(lines))
	uids := make(map[uint32]struct{}, len(lines))
	names := make(map[string]struct{}, len(lines))

	for _, l := range lines {
		f := l.fields
		if len(f) != passwdFieldCount {
			return nil, reject(domain.SourcePasswd, l, "expected %d fields, got %d", passwdFieldCount, len(f))
		}

		name := f[passwdNameField]
		if name == "" {
			return nil, reject(domain.SourcePasswd, l, "expected non-empty name")
		}
		uid, ok := parseID(f[passwdUIDField])
		if !ok {
			return nil, reject(domain.SourcePasswd, l, "expected unsigned 32-bit integer user identifier (uid), got %q", f[passwdUIDField])
		}
		gid, ok := parseID(f[passwdGIDField])
		if !ok {
			return nil, reject(domain.SourcePasswd, l, "expected unsigned 32-bit integer group identifier (gid), got %q", f[passwdGIDField])
		}

		if _, dup := uids[uid]; dup {
			return nil, reject(domain.SourcePasswd, l, "duplicate user identifier (uid) %d", uid)
		}
		if _, dup := names[name]; dup {
			return nil, reject(domain.SourcePasswd, l, "duplicate user name %q", name)
		}
		uids[uid] = struct{}{}
		names[name] = struct{}{}

		users = append(users, domain.User{
			Name:    name,
			UID:     uid,
			GID:     gid,
			Comment: f[passwdCommentField],
			Home:    f[passwdHomeField],
			Shell:   f[passwdShellField],
		})
	}

	return domain.NewUserSnapshot(users, checksum(text)), nil
}
