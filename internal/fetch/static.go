package fetch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// StaticSource serves lookups from a fixed map. An optional latency is
// simulated through the injected clock, so tests advance a fake clock
// instead of sleeping.
type StaticSource struct {
	mu      sync.RWMutex
	records map[string]Record

	latency time.Duration
	clock   clockwork.Clock
	lookups atomic.Int64
}

// StaticOption configures a StaticSource.
type StaticOption func(*StaticSource)

// WithLatency makes every lookup wait d on the source's clock before
// resolving.
func WithLatency(d time.Duration) StaticOption {
	return func(s *StaticSource) {
		s.latency = d
	}
}

// WithClock substitutes the clock used for latency simulation.
func WithClock(c clockwork.Clock) StaticOption {
	return func(s *StaticSource) {
		s.clock = c
	}
}

// NewStaticSource copies records into a new source.
func NewStaticSource(records []Record, opts ...StaticOption) *StaticSource {
	s := &StaticSource{
		records: make(map[string]Record, len(records)),
		clock:   clockwork.NewRealClock(),
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves id, waiting out the configured latency first. It returns
// ctx.Err() if the context ends during the wait, and ErrNotFound for
// unknown ids.
func (s *StaticSource) Lookup(ctx context.Context, id string) (Record, error) {
	s.lookups.Add(1)

	if s.latency > 0 {
		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-s.clock.After(s.latency):
		}
	} else if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}

	// Callers get their own tag slice.
	rec.Tags = append([]string(nil), rec.Tags...)
	return rec, nil
}

// Put inserts or replaces a record.
func (s *StaticSource) Put(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
}

// Lookups reports how many lookups were started, successful or not.
func (s *StaticSource) Lookups() int64 {
	return s.lookups.Load()
}
