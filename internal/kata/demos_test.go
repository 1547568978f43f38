package kata_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"testkata/internal/kata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testEnv(t *testing.T) *kata.Env {
	t.Helper()
	return &kata.Env{
		Log:   zaptest.NewLogger(t),
		Clock: clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)),
		Out:   &bytes.Buffer{},
		RunID: "run-test",
	}
}

// Every demo must run clean under a fake clock nobody advances: demos
// may arm timers but never wait on them.
func TestAllDemosRunClean(t *testing.T) {
	for _, k := range kata.Default().All() {
		t.Run(k.ID, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			rep, err := k.Demo(ctx, testEnv(t))
			require.NoError(t, err)
			require.NotNil(t, rep)

			assert.Equal(t, k.ID, rep.Kata)
			assert.Equal(t, "run-test", rep.RunID)
			require.NotEmpty(t, rep.Steps, "demo recorded no steps")
			assert.True(t, rep.OK(), "demo failed: %s", rep.Err)

			for _, s := range rep.Steps {
				assert.True(t, s.OK, "step %q failed: %s", s.Name, s.Detail)
			}

			assert.NotEmpty(t, rep.Render())
		})
	}
}

// Rendered output for the clock-driven demos is byte-stable when the
// clock and run ID are pinned. The watch demo is excluded: its report
// mentions a random scratch directory.
func TestDemoOutputIsDeterministic(t *testing.T) {
	stable := []string{"basics", "matchers", "mocks", "async", "timers", "snapshots", "parallel", "hooks"}

	reg := kata.Default()
	for _, id := range stable {
		t.Run(id, func(t *testing.T) {
			k, ok := reg.Get(id)
			require.True(t, ok)

			run := func() string {
				rep, err := k.Demo(context.Background(), testEnv(t))
				require.NoError(t, err)
				return rep.Finish().Render()
			}

			assert.Equal(t, run(), run(), "two pinned runs should render identically")
		})
	}
}
