// Package retry implements bounded exponential backoff for flaky
// operations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Policy bounds a retry loop.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	// Values below one are treated as one.
	Attempts int
	// Initial is the delay before the second attempt.
	Initial time.Duration
	// Max caps every delay. Zero or less means no ceiling.
	Max time.Duration
	// Multiplier grows the delay between attempts. Values below one
	// are treated as one.
	Multiplier float64
}

// DefaultPolicy allows four attempts with delays of 100ms doubling up
// to one second.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   4,
		Initial:    100 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do stops immediately and
// returns the original err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type config struct {
	clock clockwork.Clock
}

// Option configures a single Do call.
type Option func(*config)

// WithClock substitutes the clock used for backoff sleeps, usually with
// a fake in tests.
func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// Do runs op until it succeeds, returns a Permanent error, the context
// ends, or the policy's attempts run out. The delay between attempts
// starts at Initial and grows by Multiplier, never exceeding Max. There
// is no delay after the final attempt.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error, opts ...Option) error {
	cfg := config{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&cfg)
	}

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Initial
	if p.Max > 0 && delay > p.Max {
		delay = p.Max
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			return fmt.Errorf("gave up after attempt %d: %w", attempt, err)
		}

		if delay > 0 {
			select {
			case <-cfg.clock.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		delay = p.next(delay)
	}
}

// next grows a delay by the multiplier and clamps it to the ceiling.
func (p Policy) next(d time.Duration) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	nd := time.Duration(float64(d) * mult)
	if p.Max > 0 && nd > p.Max {
		nd = p.Max
	}
	return nd
}
