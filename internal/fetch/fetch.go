// Package fetch holds the asynchronous example stubs for the async note.
// Sources are in-memory stand-ins for a remote directory: nothing in this
// package ever touches a network, but lookups behave like remote calls:
// they take a context and they can be slow or fail.
package fetch

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a source has no record for the id.
var ErrNotFound = errors.New("fetch: record not found")

// ErrTransient marks a failure worth retrying. The flaky source returns it;
// the retry example consumes it.
var ErrTransient = errors.New("fetch: transient failure")

// Record is the value a source resolves an id to.
type Record struct {
	ID   string
	Name string
	Tags []string
}

// Source resolves ids to records. Implementations must honor ctx
// cancellation while simulating latency.
type Source interface {
	Lookup(ctx context.Context, id string) (Record, error)
}

// Result pairs a record with the error from its lookup, for delivery over a
// channel.
type Result struct {
	Record Record
	Err    error
}
