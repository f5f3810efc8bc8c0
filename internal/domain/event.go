package domain

import "time"

// Source names a watched identity file.
type Source string

const (
	SourcePasswd Source = "passwd"
	SourceGroup  Source = "group"
)

// Outcome is the result of one read-and-parse attempt.
type Outcome string

const (
	OutcomePublished  Outcome = "published"
	OutcomeRejected   Outcome = "rejected"
	OutcomeReadFailed Outcome = "read_failed"
)

// ParseEvent records the outcome of one read-and-parse attempt of a source
// file. It never carries entity data.
type ParseEvent struct {
	ID        string    `json:"id" db:"id"`
	Source    Source    `json:"source" db:"source"`
	Outcome   Outcome   `json:"outcome" db:"outcome"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	Entities  int       `json:"entities" db:"entities"`
	Checksum  string    `json:"checksum,omitempty" db:"checksum"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SourceStatus describes the current state of one snapshot slot and the
// watcher feeding it.
type SourceStatus struct {
	Source       Source     `json:"source"`
	File         string     `json:"file"`
	WatcherState string     `json:"watcher_state"`
	Published    bool       `json:"published"`
	Sequence     uint64     `json:"sequence,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Checksum     string     `json:"checksum,omitempty"`
	Entities     int        `json:"entities"`
	LastError    string     `json:"last_error,omitempty"`
	LastErrorAt  *time.Time `json:"last_error_at,omitempty"`
}
