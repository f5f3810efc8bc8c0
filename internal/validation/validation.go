// Package validation turns raw request parameters into typed lookups and
// queries, collecting every problem into ValidationErrors.
package validation

import (
	"net/url"
	"strconv"

	"github.com/bcnelson/passwd-service/internal/domain"
)

const (
	// DefaultLimit is the page size used when limit is absent.
	DefaultLimit = 50
	// MaxLimit caps the page size.
	MaxLimit = 1000
)

// ParseID parses a uid or gid. Ids are base-10 unsigned 32-bit integers.
func ParseID(field, raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, NewValidationError(field, raw, "must be an unsigned 32-bit integer")
	}
	return uint32(id), nil
}

// ParseUserQuery builds a user query from name, uid, gid, comment, home and
// shell parameters. Absent parameters do not filter; comment may be empty.
func ParseUserQuery(values url.Values) (domain.UserQuery, error) {
	var (
		q    domain.UserQuery
		errs ValidationErrors
	)

	q.Name = nonEmptyParam(values, "name", &errs)
	q.UID = idParam(values, "uid", &errs)
	q.GID = idParam(values, "gid", &errs)
	if values.Has("comment") {
		c := values.Get("comment")
		q.Comment = &c
	}
	q.Home = nonEmptyParam(values, "home", &errs)
	q.Shell = nonEmptyParam(values, "shell", &errs)

	return q, errs.Err()
}

// ParseGroupQuery builds a group query from name, gid and repeated members
// parameters. When any member is given the group's member set must equal the
// given set.
func ParseGroupQuery(values url.Values) (domain.GroupQuery, error) {
	var (
		q    domain.GroupQuery
		errs ValidationErrors
	)

	q.Name = nonEmptyParam(values, "name", &errs)
	q.GID = idParam(values, "gid", &errs)
	if members, ok := values["members"]; ok {
		q.Members = make([]string, 0, len(members))
		for _, m := range members {
			if m == "" {
				errs.Add("members", m, "must not be empty")
				continue
			}
			q.Members = append(q.Members, m)
		}
	}

	return q, errs.Err()
}

// ParsePage reads limit and offset. limit defaults to DefaultLimit and must be
// within 1..MaxLimit; offset defaults to 0 and must not be negative.
func ParsePage(values url.Values) (limit, offset int, err error) {
	var errs ValidationErrors
	limit = DefaultLimit

	if values.Has("limit") {
		raw := values.Get("limit")
		n, convErr := strconv.Atoi(raw)
		switch {
		case convErr != nil:
			errs.Add("limit", raw, "must be an integer")
		case n < 1 || n > MaxLimit:
			errs.Add("limit", raw, "must be between 1 and "+strconv.Itoa(MaxLimit))
		default:
			limit = n
		}
	}
	if values.Has("offset") {
		raw := values.Get("offset")
		n, convErr := strconv.Atoi(raw)
		switch {
		case convErr != nil:
			errs.Add("offset", raw, "must be an integer")
		case n < 0:
			errs.Add("offset", raw, "must not be negative")
		default:
			offset = n
		}
	}

	return limit, offset, errs.Err()
}

func nonEmptyParam(values url.Values, field string, errs *ValidationErrors) *string {
	if !values.Has(field) {
		return nil
	}
	v := values.Get(field)
	if v == "" {
		errs.Add(field, v, "must not be empty")
		return nil
	}
	return &v
}

func idParam(values url.Values, field string, errs *ValidationErrors) *uint32 {
	if !values.Has(field) {
		return nil
	}
	raw := values.Get(field)
	id, err := ParseID(field, raw)
	if err != nil {
		errs.Add(field, raw, "must be an unsigned 32-bit integer")
		return nil
	}
	return &id
}
