// Package watcher delivers the full contents of a file to a callback once at
// startup and again after every change, until cancelled.
//
// Change notifications are one-shot: the watcher arms a registration, waits
// for it to fire, reads the file, invokes the callback and only then arms the
// next registration. A change that lands between the read and the re-arm is
// not queued; whether it is seen depends on the Provider. FSProvider drops
// such events, so a write in that window is only picked up by the next
// change after it.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Provider reads files by name and hands out one-shot change registrations.
type Provider interface {
	// ReadFile returns the full contents of the named file.
	ReadFile(name string) ([]byte, error)

	// Watch arms a registration for the named file. The returned channel is
	// closed on the first change after the call. stop releases the
	// registration and must be called once the caller stops waiting.
	Watch(name string) (changed <-chan struct{}, stop func())
}

// ReadFunc receives the full contents of the watched file.
type ReadFunc func(ctx context.Context, content string) error

// State is the lifecycle state of a Watcher.
type State int32

const (
	StateStarting State = iota
	StateWatching
	StateReading
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateWatching:
		return "watching"
	case StateReading:
		return "reading"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Watcher watches a single file for changes.
type Watcher struct {
	provider Provider
	name     string
	onRead   ReadFunc
	onError  func(ctx context.Context, err error)
	logger   *slog.Logger
	state    atomic.Int32
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithReadErrorHandler registers fn to be called when the file itself cannot
// be read. Callback failures are not reported through fn.
func WithReadErrorHandler(fn func(ctx context.Context, err error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher for the named file.
func New(provider Provider, name string, onRead ReadFunc, opts ...Option) (*Watcher, error) {
	if provider == nil {
		return nil, errors.New("watcher: provider is required")
	}
	if name == "" {
		return nil, errors.New("watcher: file name must not be empty")
	}
	if onRead == nil {
		return nil, errors.New("watcher: read callback is required")
	}

	w := &Watcher{
		provider: provider,
		name:     name,
		onRead:   onRead,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("file", name)
	return w, nil
}

// Name returns the watched file name.
func (w *Watcher) Name() string {
	return w.name
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

func (w *Watcher) setState(s State) {
	w.state.Store(int32(s))
}

// Run reads the file once, then re-reads it after every change until ctx is
// cancelled. Read and callback failures are logged and never end the loop.
// Run always returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	defer w.setState(StateStopped)
	w.setState(StateStarting)

	if err := ctx.Err(); err != nil {
		return err
	}

	w.logger.Info("reading initial contents")
	if err := w.read(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("failed to read initial contents", "error", err)
	} else {
		w.logger.Info("read initial contents")
	}

	for {
		w.setState(StateWatching)
		changed, stop := w.provider.Watch(w.name)

		select {
		case <-ctx.Done():
			stop()
			w.logger.Debug("watcher received stop signal")
			return ctx.Err()
		case <-changed:
		}
		stop()

		w.setState(StateReading)
		w.logger.Info("reading changed contents")
		if err := w.read(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("failed to read changed contents", "error", err)
			continue
		}
		w.logger.Info("read changed contents")
	}
}

// read loads the file and hands it to the callback. A read that completes
// after cancellation is discarded.
func (w *Watcher) read(ctx context.Context) error {
	b, err := w.provider.ReadFile(w.name)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", w.name, err)
		if w.onError != nil && ctx.Err() == nil {
			w.onError(ctx, err)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.onRead(ctx, string(b))
}
