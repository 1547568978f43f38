// Package kata defines the study topics and the registry the CLI runs
// them from. Each kata pairs a note under the notes directory with a
// small runnable demo whose steps land in a report.
package kata

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"testkata/internal/report"
)

// Env carries the ambient pieces a demo needs. Demos take all timing
// from Env.Clock and never advance it, so a fake clock keeps a whole
// run deterministic. All fields must be set; Out receives whatever a
// demo wants to show beyond its report.
type Env struct {
	Log   *zap.Logger
	Clock clockwork.Clock
	Out   io.Writer
	RunID string
}

// DemoFunc runs one kata's worked example. The report records what
// happened; the error is reserved for infrastructure failures, not for
// steps that went wrong.
type DemoFunc func(ctx context.Context, env *Env) (*report.Report, error)

// Kata is one study topic.
type Kata struct {
	ID      string
	Title   string
	Summary string
	// Note is the file name of the topic's write-up inside the
	// configured notes directory.
	Note  string
	Order int
	Demo  DemoFunc
}

// Registry holds katas by ID. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	katas map[string]Kata
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{katas: make(map[string]Kata)}
}

// Register adds k. Empty IDs, nil demos, and duplicate IDs are errors.
func (r *Registry) Register(k Kata) error {
	if k.ID == "" {
		return fmt.Errorf("register kata: empty id")
	}
	if k.Demo == nil {
		return fmt.Errorf("register kata %q: nil demo", k.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.katas[k.ID]; dup {
		return fmt.Errorf("register kata %q: already registered", k.ID)
	}
	r.katas[k.ID] = k
	return nil
}

// Get returns the kata with the given id.
func (r *Registry) Get(id string) (Kata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.katas[id]
	return k, ok
}

// All returns every kata sorted by Order, then ID. The slice is a copy.
func (r *Registry) All() []Kata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Kata, 0, len(r.katas))
	for _, k := range r.katas {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// IDs returns the kata ids in All's order.
func (r *Registry) IDs() []string {
	all := r.All()
	ids := make([]string, len(all))
	for i, k := range all {
		ids[i] = k.ID
	}
	return ids
}

// Len returns how many katas are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.katas)
}
