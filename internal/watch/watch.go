// Package watch turns raw fsnotify events into debounced change
// notifications. Editors save in bursts (create, truncate, write,
// chmod); subscribers want one event per file once the burst settles.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a path must stay quiet before its event
// is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Kind classifies a settled file event.
type Kind int

const (
	// Changed covers creates and writes.
	Changed Kind = iota
	// Removed covers removes and renames.
	Removed
)

func (k Kind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one settled file change.
type Event struct {
	Path string
	Kind Kind
}

// Stats counts watcher activity.
type Stats struct {
	Created   int
	Modified  int
	Removed   int
	Emitted   int
	Errors    int
	LastPath  string
	LastEvent time.Time
}

type pendingEvent struct {
	kind Kind
	at   time.Time
}

// Watcher monitors one directory and emits debounced events for files
// matching its extension filter. A Watcher runs once: after Stop it
// cannot be restarted.
type Watcher struct {
	mu       sync.RWMutex
	fs       *fsnotify.Watcher
	dir      string
	exts     []string
	debounce time.Duration
	log      *zap.Logger
	events   chan Event
	pending  map[string]pendingEvent
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	stats    Stats
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce. Values of zero or less keep
// the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithExtensions restricts events to paths ending in one of the given
// suffixes. No extensions means every file counts.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) { w.exts = exts }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a Watcher for dir. Call Start to begin delivering events.
func New(dir string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		dir:      dir,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		events:   make(chan Event, 64),
		pending:  make(map[string]pendingEvent),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w, nil
}

// Start begins watching. It is non-blocking; events arrive on Events
// until Stop. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("watch: watcher already stopped")
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fs.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.log.Info("watching directory",
		zap.String("dir", w.dir),
		zap.Strings("extensions", w.exts),
		zap.Duration("debounce", w.debounce))

	go w.run(ctx)
	return nil
}

// Stop shuts the watcher down and closes the events channel. It is safe
// to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.fs.Close(); err != nil {
		w.log.Warn("close fs watcher", zap.Error(err))
	}
	close(w.events)
	w.log.Info("watcher stopped")
}

// Events delivers settled file changes. The channel closes on Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Watching reports whether the event loop is running.
func (w *Watcher) Watching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// run is the event loop: raw events land in the pending map, and a
// ticker sweeps out entries that have settled past the debounce window.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	sweep := w.debounce / 2
	if sweep < 10*time.Millisecond {
		sweep = 10 * time.Millisecond
	}
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("fs watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.emitSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.matches(event.Name) {
		return
	}

	var kind Kind
	switch {
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		kind = Changed
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		kind = Removed
	default:
		return // chmod and friends
	}

	w.log.Debug("file event", zap.String("path", event.Name), zap.Stringer("kind", kind))

	w.mu.Lock()
	switch {
	case kind == Removed:
		w.stats.Removed++
	case event.Op&fsnotify.Create != 0:
		w.stats.Created++
	default:
		w.stats.Modified++
	}
	w.stats.LastPath = event.Name
	w.stats.LastEvent = time.Now()
	// Newest event wins: a write followed by a remove settles as a
	// remove, and the timer restarts.
	w.pending[event.Name] = pendingEvent{kind: kind, at: time.Now()}
	w.mu.Unlock()
}

func (w *Watcher) matches(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	for _, ext := range w.exts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (w *Watcher) emitSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []Event
	for path, pe := range w.pending {
		if now.Sub(pe.at) >= w.debounce {
			settled = append(settled, Event{Path: path, Kind: pe.kind})
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	sort.Slice(settled, func(i, j int) bool { return settled[i].Path < settled[j].Path })

	for _, ev := range settled {
		select {
		case w.events <- ev:
			w.mu.Lock()
			w.stats.Emitted++
			w.mu.Unlock()
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
