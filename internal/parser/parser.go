// Package parser turns the raw text of the passwd and group files into
// immutable snapshots. Parsing is all-or-nothing: the first invalid line
// rejects the whole file and no snapshot is produced.
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/bcnelson/passwd-service/internal/domain"
)

// RejectedError reports why a file was rejected.
type RejectedError struct {
	Source domain.Source
	Line   int // 1-based
	Text   string
	Reason string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("parse %s: line %d: %s", e.Source, e.Line, e.Reason)
}

// line is one non-empty line of a source file split into fields.
type line struct {
	number int
	text   string
	fields []string
}

// splitLines splits text on line feeds, skips zero-length lines and splits
// the remaining lines on colons. Trailing empty fields are kept.
func splitLines(text string) []line {
	raw := strings.Split(text, "\n")
	lines := make([]line, 0, len(raw))
	for i, l := range raw {
		if len(l) == 0 {
			continue
		}
		lines = append(lines, line{number: i + 1, text: l, fields: strings.Split(l, ":")})
	}
	return lines
}

// parseID parses an unsigned 32-bit decimal with no sign, whitespace or
// separators.
func parseID(field string) (uint32, bool) {
	n, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func checksum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func reject(source domain.Source, l line, format string, args ...any) *RejectedError {
	return &RejectedError{
		Source: source,
		Line:   l.number,
		Text:   l.text,
		Reason: fmt.Sprintf(format, args...),
	}
}
