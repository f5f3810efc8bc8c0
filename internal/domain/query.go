package domain

// UserQuery is an exact-match filter over users. Nil fields do not filter.
type UserQuery struct {
	Name    *string
	UID     *uint32
	GID     *uint32
	Comment *string
	Home    *string
	Shell   *string
}

// Matches reports whether u satisfies every set field of the query.
func (q UserQuery) Matches(u User) bool {
	switch {
	case q.Name != nil && *q.Name != u.Name:
		return false
	case q.UID != nil && *q.UID != u.UID:
		return false
	case q.GID != nil && *q.GID != u.GID:
		return false
	case q.Comment != nil && *q.Comment != u.Comment:
		return false
	case q.Home != nil && *q.Home != u.Home:
		return false
	case q.Shell != nil && *q.Shell != u.Shell:
		return false
	}
	return true
}

// FilterUsers returns the users matching q, preserving order.
func FilterUsers(users []User, q UserQuery) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if q.Matches(u) {
			out = append(out, u)
		}
	}
	return out
}

// GroupQuery is an exact-match filter over groups. Nil fields do not filter.
//
// Members compares as a set: order and duplicates are ignored on both sides.
type GroupQuery struct {
	Name    *string
	GID     *uint32
	Members []string
}

// Matches reports whether g satisfies every set field of the query.
func (q GroupQuery) Matches(g Group) bool {
	switch {
	case q.Name != nil && *q.Name != g.Name:
		return false
	case q.GID != nil && *q.GID != g.GID:
		return false
	case q.Members != nil && !sameMembers(q.Members, g.Members):
		return false
	}
	return true
}

// FilterGroups returns the groups matching q, preserving order.
func FilterGroups(groups []Group, q GroupQuery) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if q.Matches(g) {
			out = append(out, g)
		}
	}
	return out
}

func sameMembers(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, m := range a {
		as[m] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, m := range b {
		if _, ok := as[m]; !ok {
			return false
		}
		bs[m] = struct{}{}
	}
	return len(as) == len(bs)
}
