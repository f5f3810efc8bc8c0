package watcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FSProvider serves files from one directory and fires one-shot change
// registrations from fsnotify events.
//
// The directory is watched rather than the file so that editors and tools
// that replace the file by rename are seen. Events for a file with no armed
// registration are dropped.
type FSProvider struct {
	root    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	waiters map[string]map[uint64]chan struct{}
	nextID  uint64

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

var _ Provider = (*FSProvider)(nil)

// ProviderOption configures an FSProvider.
type ProviderOption func(*FSProvider)

// WithProviderLogger sets the logger for the provider.
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *FSProvider) {
		p.logger = logger
	}
}

// NewFSProvider starts watching root. The directory must exist.
func NewFSProvider(root string, opts ...ProviderOption) (*FSProvider, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s: not a directory", root)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	p := &FSProvider{
		root:    filepath.Clean(root),
		watcher: w,
		logger:  slog.Default(),
		waiters: make(map[string]map[uint64]chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := w.Add(p.root); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching directory %s: %w", p.root, err)
	}
	p.logger.Debug("watching directory for changes", "path", p.root)

	go p.loop()
	return p, nil
}

// Root returns the watched directory.
func (p *FSProvider) Root() string {
	return p.root
}

// ReadFile returns the full contents of root/name.
func (p *FSProvider) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(p.root, name))
}

// Watch arms a one-shot registration for root/name.
func (p *FSProvider) Watch(name string) (<-chan struct{}, func()) {
	ch := make(chan struct{})

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	if p.waiters[name] == nil {
		p.waiters[name] = make(map[uint64]chan struct{})
	}
	p.waiters[name][id] = ch
	p.mu.Unlock()

	stop := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if ws := p.waiters[name]; ws != nil {
			delete(ws, id)
			if len(ws) == 0 {
				delete(p.waiters, name)
			}
		}
	}
	return ch, stop
}

// Close stops the fsnotify watcher. Armed registrations never fire.
func (p *FSProvider) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.closeErr = p.watcher.Close()
	})
	return p.closeErr
}

func (p *FSProvider) loop() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if filepath.Dir(filepath.Clean(event.Name)) != p.root {
				continue
			}
			p.fire(filepath.Base(event.Name), event.Op)
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				p.logger.Warn("fsnotify event queue overflowed", "path", p.root)
				p.fireAll()
				continue
			}
			p.logger.Error("file watcher error", "path", p.root, "error", err)
		case <-p.done:
			return
		}
	}
}

// fire closes and removes every registration armed for name.
func (p *FSProvider) fire(name string, op fsnotify.Op) {
	p.mu.Lock()
	ws := p.waiters[name]
	delete(p.waiters, name)
	p.mu.Unlock()

	if len(ws) == 0 {
		return
	}
	p.logger.Debug("file changed", "path", filepath.Join(p.root, name), "op", op.String())
	for _, ch := range ws {
		close(ch)
	}
}

// fireAll fires every registration; used when events may have been lost.
func (p *FSProvider) fireAll() {
	p.mu.Lock()
	all := p.waiters
	p.waiters = make(map[string]map[uint64]chan struct{})
	p.mu.Unlock()

	for _, ws := range all {
		for _, ch := range ws {
			close(ch)
		}
	}
}
