// Package pool runs a function across a slice with bounded fan-out.
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type config struct {
	concurrency int
}

// Option configures a single Map or ForEach call.
type Option func(*config)

// WithConcurrency caps how many items are in flight at once. Values
// below one fall back to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// Map applies fn to every item with bounded concurrency and returns the
// results in input order. The first error cancels the context seen by
// the remaining workers, and Map returns nil results with that error.
func Map[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), opts ...Option) ([]R, error) {
	cfg := config{concurrency: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, item := range items {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ForEach applies fn to every item with bounded concurrency, discarding
// results.
func ForEach[T any](ctx context.Context, items []T, fn func(ctx context.Context, item T) error, opts ...Option) error {
	_, err := Map(ctx, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	}, opts...)
	return err
}
