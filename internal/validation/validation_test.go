package validation

import (
	"errors"
	"net/url"
	"testing"

	"github.com/bcnelson/passwd-service/internal/domain"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint32
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"typical", "1000", 1000, false},
		{"max uint32", "4294967295", 4294967295, false},
		{"overflow", "4294967296", 0, true},
		{"negative", "-1", 0, true},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"hex", "0x10", 0, true},
		{"plus sign", "+5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID("uid", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("ParseID(%q) error %v does not wrap ErrInvalidInput", tt.raw, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseUserQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantErr  bool
		wantErrs int
		check    func(t *testing.T, q domain.UserQuery)
	}{
		{
			name:  "empty query filters nothing",
			query: "",
			check: func(t *testing.T, q domain.UserQuery) {
				if q != (domain.UserQuery{}) {
					t.Errorf("expected empty query, got %+v", q)
				}
			},
		},
		{
			name:  "all fields",
			query: "name=alice&uid=1000&gid=100&comment=Alice&home=/home/alice&shell=/bin/sh",
			check: func(t *testing.T, q domain.UserQuery) {
				if q.Name == nil || *q.Name != "alice" {
					t.Errorf("name = %v", q.Name)
				}
				if q.UID == nil || *q.UID != 1000 {
					t.Errorf("uid = %v", q.UID)
				}
				if q.GID == nil || *q.GID != 100 {
					t.Errorf("gid = %v", q.GID)
				}
				if q.Comment == nil || *q.Comment != "Alice" {
					t.Errorf("comment = %v", q.Comment)
				}
				if q.Home == nil || *q.Home != "/home/alice" {
					t.Errorf("home = %v", q.Home)
				}
				if q.Shell == nil || *q.Shell != "/bin/sh" {
					t.Errorf("shell = %v", q.Shell)
				}
			},
		},
		{
			name:  "empty comment is a filter",
			query: "comment=",
			check: func(t *testing.T, q domain.UserQuery) {
				if q.Comment == nil || *q.Comment != "" {
					t.Errorf("comment = %v, want pointer to empty string", q.Comment)
				}
			},
		},
		{name: "empty name", query: "name=", wantErr: true, wantErrs: 1},
		{name: "empty shell", query: "shell=", wantErr: true, wantErrs: 1},
		{name: "bad uid", query: "uid=abc", wantErr: true, wantErrs: 1},
		{name: "every problem reported", query: "name=&uid=-1&gid=x&home=", wantErr: true, wantErrs: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			q, err := ParseUserQuery(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUserQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if tt.wantErr {
				var verrs ValidationErrors
				if !errors.As(err, &verrs) {
					t.Fatalf("expected ValidationErrors, got %T", err)
				}
				if len(verrs) != tt.wantErrs {
					t.Errorf("got %d errors, want %d: %v", len(verrs), tt.wantErrs, verrs)
				}
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("error does not wrap ErrInvalidInput")
				}
				return
			}
			tt.check(t, q)
		})
	}
}

func TestParseGroupQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantErr     bool
		wantMembers []string
	}{
		{name: "no members filter", query: "name=wheel"},
		{name: "single member", query: "members=alice", wantMembers: []string{"alice"}},
		{name: "repeated members", query: "members=bob&members=alice", wantMembers: []string{"bob", "alice"}},
		{name: "empty member", query: "members=", wantErr: true},
		{name: "empty name", query: "name=", wantErr: true},
		{name: "bad gid", query: "gid=4294967296", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			q, err := ParseGroupQuery(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGroupQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantMembers == nil {
				if q.Members != nil {
					t.Errorf("members = %v, want nil", q.Members)
				}
				return
			}
			if len(q.Members) != len(tt.wantMembers) {
				t.Fatalf("members = %v, want %v", q.Members, tt.wantMembers)
			}
			for i := range q.Members {
				if q.Members[i] != tt.wantMembers[i] {
					t.Errorf("members = %v, want %v", q.Members, tt.wantMembers)
				}
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{"defaults", "", DefaultLimit, 0, false},
		{"explicit", "limit=10&offset=20", 10, 20, false},
		{"max limit", "limit=1000", 1000, 0, false},
		{"zero limit", "limit=0", 0, 0, true},
		{"limit too large", "limit=1001", 0, 0, true},
		{"negative offset", "offset=-1", 0, 0, true},
		{"non-numeric limit", "limit=ten", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			limit, offset, err := ParsePage(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePage(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("ParsePage(%q) = %d, %d, want %d, %d", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Fatal("empty ValidationErrors should yield nil error")
	}
	errs.Add("uid", "x", "must be an unsigned 32-bit integer")
	if got, want := errs.Error(), "uid: must be an unsigned 32-bit integer"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	errs.Add("gid", "y", "must be an unsigned 32-bit integer")
	if got, want := errs.Error(), "uid: must be an unsigned 32-bit integer (and 1 more errors)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
