// Package journal records the outcome of every read-and-parse attempt of the
// watched identity files. It records outcomes only, never entity data.
package journal

import (
	"context"

	"github.com/bcnelson/passwd-service/internal/domain"
)

// Journal stores parse events.
// Implementations must be safe for concurrent use.
type Journal interface {
	// Record appends an event.
	Record(ctx context.Context, event *domain.ParseEvent) error

	// List returns events newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.ParseEvent, error)

	// Close releases resources held by the journal.
	Close() error
}
