package fetch

import (
	"context"
	"fmt"
	"sync/atomic"
)

// FlakySource fails the first n lookups with ErrTransient and then behaves
// like the wrapped source. It exists so the retry note has something
// honest to retry against.
type FlakySource struct {
	inner     Source
	remaining atomic.Int64
}

// NewFlakySource wraps inner, failing the next n lookups.
func NewFlakySource(inner Source, n int) *FlakySource {
	f := &FlakySource{inner: inner}
	f.remaining.Store(int64(n))
	return f
}

// Lookup consumes one planned failure if any remain, otherwise delegates.
func (f *FlakySource) Lookup(ctx context.Context, id string) (Record, error) {
	if left := f.remaining.Add(-1); left >= 0 {
		return Record{}, fmt.Errorf("lookup %q (%d planned failures left): %w", id, left, ErrTransient)
	}
	return f.inner.Lookup(ctx, id)
}

// Remaining reports how many planned failures are left.
func (f *FlakySource) Remaining() int {
	left := f.remaining.Load()
	if left < 0 {
		return 0
	}
	return int(left)
}
