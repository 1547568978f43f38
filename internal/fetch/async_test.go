package fetch_test

// The async note's worked examples: waiting on a channel with a deadline,
// polling with require.Eventually, and bounding a whole test with a
// context timeout.

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"testkata/internal/fetch"
)

func TestAwaitAsyncResult(t *testing.T) {
	dir := fetch.NewDirectory(fetch.NewStaticSource([]fetch.Record{
		{ID: "ada", Name: "Ada Lovelace"},
	}))

	// Receiving inside a select with a timeout is the channel-shaped
	// version of awaiting a promise: the test can never hang forever.
	select {
	case r := <-dir.LookupAsync(context.Background(), "ada"):
		require.NoError(t, r.Err)
		require.Equal(t, "Ada Lovelace", r.Record.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async lookup")
	}
}

func TestEventuallySeesLateRecord(t *testing.T) {
	src := fetch.NewStaticSource(nil)
	dir := fetch.NewDirectory(src)

	go func() {
		time.Sleep(20 * time.Millisecond)
		src.Put(fetch.Record{ID: "late", Name: "Late Arrival"})
	}()

	// Eventually re-polls the condition until it holds or the deadline
	// passes. The assertion is about convergence, not a single instant.
	require.Eventually(t, func() bool {
		_, err := dir.Lookup(context.Background(), "late")
		return err == nil
	}, time.Second, 5*time.Millisecond, "record never appeared")
}

func TestNeverFindsUnknownID(t *testing.T) {
	dir := fetch.NewDirectory(fetch.NewStaticSource(nil))

	require.Never(t, func() bool {
		_, err := dir.Lookup(context.Background(), "ghost")
		return err == nil
	}, 50*time.Millisecond, 10*time.Millisecond)
}

func TestContextDeadlineBoundsLookup(t *testing.T) {
	// A slow source and a short caller deadline: the context loses.
	src := fetch.NewStaticSource(
		[]fetch.Record{{ID: "ada"}},
		fetch.WithLatency(time.Minute),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	_, err := src.Lookup(ctx, "ada")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
