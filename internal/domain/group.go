package domain

// Group is one entry of the group file. The password field is not kept.
//
// Members holds the user names in the order they are listed in the source
// line. Names are not deduplicated and need not resolve to a known user.
// Members is shared between snapshot readers and must not be modified.
type Group struct {
	Name    string   `json:"name"`
	GID     uint32   `json:"gid"`
	Members []string `json:"members"`
}

