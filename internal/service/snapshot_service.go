// Package service binds one file watcher per identity file to the parser,
// the snapshot store and the parse journal.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bcnelson/passwd-service/internal/config"
	"github.com/bcnelson/passwd-service/internal/domain"
	"github.com/bcnelson/passwd-service/internal/journal"
	"github.com/bcnelson/passwd-service/internal/parser"
	"github.com/bcnelson/passwd-service/internal/storage"
	"github.com/bcnelson/passwd-service/internal/watcher"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SnapshotService keeps the passwd and group snapshots in step with their
// files.
type SnapshotService struct {
	publisher storage.Publisher
	journal   journal.Journal
	logger    *slog.Logger
	now       func() time.Time

	providers []*watcher.FSProvider
	passwd    *source
	group     *source
}

// source tracks one watched file and the last outcome seen for it.
type source struct {
	kind    domain.Source
	file    string
	watcher *watcher.Watcher

	mu     sync.Mutex
	status domain.SourceStatus
}

// Option configures a SnapshotService.
type Option func(*SnapshotService)

// WithLogger sets the logger for the service and its watchers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SnapshotService) {
		s.logger = logger
	}
}

// NewSnapshotService creates a service watching the files named by cfg.
// Files that share a directory share one change provider.
func NewSnapshotService(publisher storage.Publisher, j journal.Journal, cfg config.FilesConfig, opts ...Option) (*SnapshotService, error) {
	if publisher == nil {
		return nil, errors.New("service: publisher is required")
	}
	if j == nil {
		return nil, errors.New("service: journal is required")
	}

	s := &SnapshotService{
		publisher: publisher,
		journal:   j,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	providers := make(map[string]*watcher.FSProvider)
	provider := func(dir string) (*watcher.FSProvider, error) {
		dir = filepath.Clean(dir)
		if p, ok := providers[dir]; ok {
			return p, nil
		}
		p, err := watcher.NewFSProvider(dir, watcher.WithProviderLogger(s.logger))
		if err != nil {
			return nil, err
		}
		providers[dir] = p
		s.providers = append(s.providers, p)
		return p, nil
	}

	var err error
	s.passwd, err = s.newSource(domain.SourcePasswd, cfg.PasswdPath, cfg.PasswdName, s.PublishPasswd, provider)
	if err == nil {
		s.group, err = s.newSource(domain.SourceGroup, cfg.GroupPath, cfg.GroupName, s.PublishGroups, provider)
	}
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SnapshotService) newSource(
	kind domain.Source,
	dir, name string,
	onRead watcher.ReadFunc,
	provider func(string) (*watcher.FSProvider, error),
) (*source, error) {
	p, err := provider(dir)
	if err != nil {
		return nil, fmt.Errorf("watching %s directory: %w", kind, err)
	}

	src := &source{
		kind: kind,
		file: filepath.Join(dir, name),
	}
	src.status = domain.SourceStatus{Source: kind, File: src.file}

	src.watcher, err = watcher.New(p, name, onRead,
		watcher.WithLogger(s.logger.With("source", string(kind))),
		watcher.WithReadErrorHandler(func(ctx context.Context, err error) {
			s.readFailed(ctx, src, err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Run watches both files until ctx is cancelled. It returns nil on
// cancellation.
func (s *SnapshotService) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range []*source{s.passwd, s.group} {
		w := src.watcher
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Close releases the change providers.
func (s *SnapshotService) Close() error {
	var errs []error
	for _, p := range s.providers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

// PublishPasswd parses the passwd file contents and, if valid, publishes the
// result. A rejected file leaves the current snapshot in place.
func (s *SnapshotService) PublishPasswd(ctx context.Context, content string) error {
	snap, err := parser.ParseUsers(content)
	if err != nil {
		s.rejected(ctx, s.passwd, err)
		return err
	}
	pub := s.publisher.PublishUsers(snap)
	s.published(ctx, s.passwd, pub.Sequence, pub.PublishedAt, snap.Checksum(), snap.Len())
	return nil
}

// PublishGroups parses the group file contents and, if valid, publishes the
// result. A rejected file leaves the current snapshot in place.
func (s *SnapshotService) PublishGroups(ctx context.Context, content string) error {
	snap, err := parser.ParseGroups(content)
	if err != nil {
		s.rejected(ctx, s.group, err)
		return err
	}
	pub := s.publisher.PublishGroups(snap)
	s.published(ctx, s.group, pub.Sequence, pub.PublishedAt, snap.Checksum(), snap.Len())
	return nil
}

// Status reports the passwd source followed by the group source.
func (s *SnapshotService) Status() []domain.SourceStatus {
	return []domain.SourceStatus{s.passwd.snapshot(), s.group.snapshot()}
}

func (src *source) snapshot() domain.SourceStatus {
	src.mu.Lock()
	st := src.status
	src.mu.Unlock()
	st.WatcherState = src.watcher.State().String()
	return st
}

func (s *SnapshotService) published(ctx context.Context, src *source, seq uint64, at time.Time, sum string, entities int) {
	src.mu.Lock()
	src.status.Published = true
	src.status.Sequence = seq
	src.status.PublishedAt = &at
	src.status.Checksum = sum
	src.status.Entities = entities
	src.status.LastError = ""
	src.status.LastErrorAt = nil
	src.mu.Unlock()

	s.logger.Info("published snapshot",
		"source", string(src.kind),
		"sequence", seq,
		"entities", entities,
	)
	s.record(ctx, &domain.ParseEvent{
		Source:    src.kind,
		Outcome:   domain.OutcomePublished,
		Entities:  entities,
		Checksum:  sum,
		CreatedAt: at,
	})
}

func (s *SnapshotService) rejected(ctx context.Context, src *source, err error) {
	now := s.now()
	s.setError(src, err, now)

	var rej *parser.RejectedError
	if errors.As(err, &rej) {
		s.logger.Error("rejected file contents",
			"source", string(src.kind),
			"line", rej.Line,
			"reason", rej.Reason,
		)
	} else {
		s.logger.Error("rejected file contents", "source", string(src.kind), "error", err)
	}
	s.record(ctx, &domain.ParseEvent{
		Source:    src.kind,
		Outcome:   domain.OutcomeRejected,
		Reason:    err.Error(),
		CreatedAt: now,
	})
}

func (s *SnapshotService) readFailed(ctx context.Context, src *source, err error) {
	now := s.now()
	s.setError(src, err, now)
	s.record(ctx, &domain.ParseEvent{
		Source:    src.kind,
		Outcome:   domain.OutcomeReadFailed,
		Reason:    err.Error(),
		CreatedAt: now,
	})
}

func (s *SnapshotService) setError(src *source, err error, at time.Time) {
	src.mu.Lock()
	defer src.mu.Unlock()
	src.status.LastError = err.Error()
	src.status.LastErrorAt = &at
}

// record writes ev to the journal. Journal failures are logged and dropped.
func (s *SnapshotService) record(ctx context.Context, ev *domain.ParseEvent) {
	ev.ID = uuid.New().String()
	if err := s.journal.Record(ctx, ev); err != nil {
		s.logger.Warn("failed to record parse event",
			"source", string(ev.Source),
			"outcome", string(ev.Outcome),
			"error", err,
		)
	}
}
