// Package spy provides a small observable callable: a function wrapper that
// remembers every invocation. It is the example subject for the mocks note,
// the thing the note's assertions are written against. Production doubles
// should keep using testify/mock; this package exists to show the moving
// parts of a recorded call.
package spy

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Call is one recorded invocation.
type Call struct {
	// Seq is the zero-based position of the call. Sequences are contiguous:
	// the Nth recorded call always has Seq == N-1.
	Seq    int
	Args   []any
	Result any
	At     time.Time
}

// Recorder accumulates Calls. The zero value is not usable; construct with
// NewRecorder. All methods are safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	clock clockwork.Clock
	calls []Call
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock substitutes the clock used to stamp Call.At. Tests inject a
// clockwork fake so timestamps are deterministic.
func WithClock(c clockwork.Clock) Option {
	return func(r *Recorder) {
		r.clock = c
	}
}

// NewRecorder returns an empty Recorder stamping calls with the real clock
// unless WithClock overrides it.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record notes an invocation with the given arguments and returns its
// sequence number.
func (r *Recorder) Record(args ...any) int {
	return r.record(args, nil)
}

func (r *Recorder) record(args []any, result any) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{
		Seq:    len(r.calls),
		Args:   args,
		Result: result,
		At:     r.clock.Now(),
	}
	r.calls = append(r.calls, call)
	return call.Seq
}

// CallCount returns how many calls have been recorded.
func (r *Recorder) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Nth returns the i-th recorded call (zero-based).
func (r *Recorder) Nth(i int) (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.calls) {
		return Call{}, false
	}
	return r.calls[i], true
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// Reset discards all recorded calls. Sequence numbers restart at zero.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
