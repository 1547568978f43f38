package fetch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Directory is the consumer side of the async examples: it fans lookups out
// over a Source and exposes both blocking and channel-based shapes.
type Directory struct {
	src         Source
	concurrency int
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithConcurrency bounds how many lookups LookupAll runs at once.
// Values below 1 fall back to GOMAXPROCS.
func WithConcurrency(n int) DirectoryOption {
	return func(d *Directory) {
		d.concurrency = n
	}
}

// NewDirectory builds a Directory over src.
func NewDirectory(src Source, opts ...DirectoryOption) *Directory {
	d := &Directory{
		src:         src,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.concurrency < 1 {
		d.concurrency = runtime.GOMAXPROCS(0)
	}
	return d
}

// Lookup resolves a single id.
func (d *Directory) Lookup(ctx context.Context, id string) (Record, error) {
	return d.src.Lookup(ctx, id)
}

// LookupAll resolves every id concurrently, preserving input order in the
// result slice. The first failing lookup cancels the rest and is returned
// wrapped with its id.
func (d *Directory) LookupAll(ctx context.Context, ids []string) ([]Record, error) {
	results := make([]Record, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			rec, err := d.src.Lookup(ctx, id)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", id, err)
			}
			results[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LookupAsync starts a lookup and returns a channel that delivers exactly
// one Result and is then closed. The channel is buffered, so the lookup
// goroutine never blocks on a reader that walked away.
func (d *Directory) LookupAsync(ctx context.Context, id string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		rec, err := d.src.Lookup(ctx, id)
		out <- Result{Record: rec, Err: err}
	}()
	return out
}
