package memory

import (
	"context"
	"sync"

	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/journal"
)

// DefaultSize is the number of events kept when no size is given.
const DefaultSize = 256

// Journal keeps the newest events in a fixed-size ring.
type Journal struct {
	mu     sync.RWMutex
	events []*domain.ParseEvent
	next   int
	full   bool
}

var _ journal.Journal = (*Journal)(nil)

// New creates a journal holding at most size events.
func New(size int) *Journal {
	if size <= 0 {
		size = DefaultSize
	}
	return &Journal{events: make([]*domain.ParseEvent, size)}
}

func (j *Journal) Close() error { return nil }

// Record appends an event, evicting the oldest one when full.
func (j *Journal) Record(ctx context.Context, event *domain.ParseEvent) error {
	e := *event

	j.mu.Lock()
	defer j.mu.Unlock()

	j.events[j.next] = &e
	j.next = (j.next + 1) % len(j.events)
	if j.next == 0 {
		j.full = true
	}
	return nil
}

// List returns events newest first.
func (j *Journal) List(ctx context.Context, limit, offset int) ([]*domain.ParseEvent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	count := j.next
	if j.full {
		count = len(j.events)
	}

	out := make([]*domain.ParseEvent, 0, min(max(limit, 0), count))
	for i := max(offset, 0); i < count && len(out) < limit; i++ {
		idx := (j.next - 1 - i + len(j.events)) % len(j.events)
		e := *j.events[idx]
		out = append(out, &e)
	}
	return out, nil
}
