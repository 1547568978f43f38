package spy

import "sync"

// Func1 wraps a one-argument function so each invocation is recorded.
// Canned results queued with Return are served first, in FIFO order; once
// the queue drains, calls fall through to the wrapped function. A nil
// wrapped function with an empty queue yields the zero value.
type Func1[A, R any] struct {
	rec *Recorder

	mu     sync.Mutex
	fn     func(A) R
	queued []R
}

// Wrap1 builds a Func1 around fn. fn may be nil for a pure stub.
func Wrap1[A, R any](fn func(A) R, opts ...Option) *Func1[A, R] {
	return &Func1[A, R]{rec: NewRecorder(opts...), fn: fn}
}

// Return queues canned results. It returns the receiver so stubs can be
// built in one expression.
func (f *Func1[A, R]) Return(rs ...R) *Func1[A, R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, rs...)
	return f
}

// Call invokes the wrapper, recording the argument and the produced result.
func (f *Func1[A, R]) Call(a A) R {
	result := f.next(a)
	f.rec.record([]any{a}, result)
	return result
}

func (f *Func1[A, R]) next(a A) R {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queued) > 0 {
		r := f.queued[0]
		f.queued = f.queued[1:]
		return r
	}
	if f.fn != nil {
		return f.fn(a)
	}
	var zero R
	return zero
}

// Recorder exposes the underlying call record for assertions.
func (f *Func1[A, R]) Recorder() *Recorder {
	return f.rec
}

// Func2 is Func1 for two-argument functions.
type Func2[A, B, R any] struct {
	rec *Recorder

	mu     sync.Mutex
	fn     func(A, B) R
	queued []R
}

// Wrap2 builds a Func2 around fn. fn may be nil for a pure stub.
func Wrap2[A, B, R any](fn func(A, B) R, opts ...Option) *Func2[A, B, R] {
	return &Func2[A, B, R]{rec: NewRecorder(opts...), fn: fn}
}

// Return queues canned results, served before the wrapped function.
func (f *Func2[A, B, R]) Return(rs ...R) *Func2[A, B, R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, rs...)
	return f
}

// Call invokes the wrapper, recording both arguments and the result.
func (f *Func2[A, B, R]) Call(a A, b B) R {
	result := f.next(a, b)
	f.rec.record([]any{a, b}, result)
	return result
}

func (f *Func2[A, B, R]) next(a A, b B) R {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queued) > 0 {
		r := f.queued[0]
		f.queued = f.queued[1:]
		return r
	}
	if f.fn != nil {
		return f.fn(a, b)
	}
	var zero R
	return zero
}

// Recorder exposes the underlying call record for assertions.
func (f *Func2[A, B, R]) Recorder() *Recorder {
	return f.rec
}
