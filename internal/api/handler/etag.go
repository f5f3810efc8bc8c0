package handler

import (
	"fmt"
	"net/http"
	"strings"
)

// etagChecksumLen is how much of the snapshot checksum goes into an ETag.
const etagChecksumLen = 16

// GenerateETag builds the ETag for a list resource from the checksum of the
// snapshot it was served from.
// Format: "<kind>-<checksum prefix>"
func GenerateETag(kind, checksum string) string {
	if len(checksum) > etagChecksumLen {
		checksum = checksum[:etagChecksumLen]
	}
	return fmt.Sprintf(`"%s-%s"`, kind, checksum)
}

// CheckIfNoneMatch reports whether the If-None-Match header matches etag, in
// which case the client's copy is current. Weak validators compare equal to
// their strong form.
func CheckIfNoneMatch(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// respondCached writes data with an ETag, or 304 Not Modified if the client
// already holds that version.
func respondCached(w http.ResponseWriter, r *http.Request, kind, checksum string, data any) {
	etag := GenerateETag(kind, checksum)
	w.Header().Set("ETag", etag)
	if CheckIfNoneMatch(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	respondJSON(w, r, http.StatusOK, data)
}
