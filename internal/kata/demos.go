package kata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"testkata/internal/arith"
	"testkata/internal/debounce"
	"testkata/internal/fetch"
	"testkata/internal/match"
	"testkata/internal/pool"
	"testkata/internal/report"
	"testkata/internal/retry"
	"testkata/internal/spy"
	"testkata/internal/text"
	"testkata/internal/watch"
)

// Default returns the registry of the nine study topics in reading
// order.
func Default() *Registry {
	r := NewRegistry()
	for _, k := range []Kata{
		{
			ID:      "basics",
			Title:   "First assertions",
			Summary: "Table driven checks over plain arithmetic functions.",
			Note:    "basics.md",
			Order:   1,
			Demo:    demoBasics,
		},
		{
			ID:      "matchers",
			Title:   "Matchers in practice",
			Summary: "Assertions that say what they mean, beyond bare equality.",
			Note:    "matchers.md",
			Order:   2,
			Demo:    demoMatchers,
		},
		{
			ID:      "mocks",
			Title:   "Spies and stubs",
			Summary: "Recorded calls and canned returns around a real collaborator.",
			Note:    "mocks.md",
			Order:   3,
			Demo:    demoMocks,
		},
		{
			ID:      "async",
			Title:   "Waiting without sleeping",
			Summary: "Deadlines and retries instead of sleeps.",
			Note:    "async.md",
			Order:   4,
			Demo:    demoAsync,
		},
		{
			ID:      "timers",
			Title:   "Taming the clock",
			Summary: "A fake clock drives the debouncer deterministically.",
			Note:    "timers.md",
			Order:   5,
			Demo:    demoTimers,
		},
		{
			ID:      "snapshots",
			Title:   "Golden output",
			Summary: "Rendered output pinned against stored expectations.",
			Note:    "snapshots.md",
			Order:   6,
			Demo:    demoSnapshots,
		},
		{
			ID:      "parallel",
			Title:   "Bounded fan-out",
			Summary: "Concurrent work with ordered results and one-error semantics.",
			Note:    "parallel.md",
			Order:   7,
			Demo:    demoParallel,
		},
		{
			ID:      "hooks",
			Title:   "Setup and teardown",
			Summary: "Fresh fixtures for every case.",
			Note:    "hooks.md",
			Order:   8,
			Demo:    demoHooks,
		},
		{
			ID:      "watch",
			Title:   "The re-run loop",
			Summary: "Filesystem events debounced into change notifications.",
			Note:    "watch.md",
			Order:   9,
			Demo:    demoWatch,
		},
	} {
		if err := r.Register(k); err != nil {
			// The canonical set is wired at compile time; a duplicate
			// here is a programming error.
			panic(err)
		}
	}
	return r
}

func demoBasics(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("basics", env.RunID, env.Clock)

	rep.StepOK("add two numbers", fmt.Sprintf("2+3=%v", arith.Add(2, 3)))
	rep.StepOK("subtract", fmt.Sprintf("10-4=%v", arith.Subtract(10, 4)))
	rep.StepOK("sum a series", fmt.Sprintf("sum(1..4)=%v", arith.Sum(1, 2, 3, 4)))

	if _, err := arith.Divide(1, 0); err != nil {
		rep.StepOK("division by zero is an error", err.Error())
	} else {
		rep.StepFail("division by zero is an error", errors.New("expected an error, got none"))
	}

	if mean, err := arith.Mean(0.1, 0.2); err != nil {
		rep.StepFail("mean of a series", err)
	} else {
		rep.StepOK("mean of a series", fmt.Sprintf("mean=%.3f", mean))
	}

	rep.StepOK("clamp into range", fmt.Sprintf("clamp(42,0,10)=%v", arith.Clamp(42, 0, 10)))

	env.Log.Debug("basics demo complete", zap.Int("steps", len(rep.Steps)))
	return rep.Finish(), nil
}

func demoMatchers(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("matchers", env.RunID, env.Clock)

	rep.StepOK("reverse preserves runes", fmt.Sprintf("golang -> %s", text.Reverse("golang")))
	rep.StepOK("ellipsis truncates", fmt.Sprintf("%q", text.Ellipsis("a verbose sentence about matchers", 12)))
	rep.StepOK("slug normalizes", text.Slug("Matchers In Practice!"))
	rep.StepOK("word count", fmt.Sprintf("%d words", text.WordCount("matchers say what they mean")))

	// Binary floating point: 0.1+0.2 is not exactly 0.3, so equality is
	// the wrong question. Tolerance is the right one.
	mean, err := arith.Mean(0.1, 0.2)
	if err != nil {
		rep.StepFail("floats compare with tolerance", err)
	} else if ok, merr := match.BeWithin(1e-9).Of(0.15).Match(mean); merr != nil || !ok {
		rep.StepFail("floats compare with tolerance", fmt.Errorf("%v is not within 1e-9 of 0.15", mean))
	} else {
		rep.StepOK("floats compare with tolerance", fmt.Sprintf("%v within 1e-9 of 0.15", mean))
	}

	want := fetch.Record{ID: "ada", Name: "Ada Lovelace", Tags: []string{"math"}}
	got := fetch.Record{ID: "ada", Name: "Ada Lovelace", Tags: []string{"math"}}
	if diff := cmp.Diff(want, got); diff != "" {
		rep.StepFail("struct equality is a diff", fmt.Errorf("unexpected drift:\n%s", diff))
	} else {
		rep.StepOK("struct equality is a diff", "cmp.Diff is empty")
	}

	return rep.Finish(), nil
}

func demoMocks(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("mocks", env.RunID, env.Clock)

	add := spy.Wrap2(arith.Add, spy.WithClock(env.Clock))
	add.Call(2, 3)
	add.Call(10, 4)
	rep.StepOK("calls are recorded", fmt.Sprintf("%d calls", add.Recorder().CallCount()))

	if ok, _ := match.HaveRecordedArgs(2.0, 3.0).Match(add.Recorder()); ok {
		rep.StepOK("arguments are captured", "saw a call with (2, 3)")
	} else {
		rep.StepFail("arguments are captured", errors.New("no recorded call with args (2, 3)"))
	}

	canned := spy.Wrap2(arith.Multiply).Return(100)
	first := canned.Call(6, 7)
	second := canned.Call(6, 7)
	rep.StepOK("canned results drain first", fmt.Sprintf("%v from the queue, then %v for real", first, second))

	if ok, _ := match.HaveCalls(2).Match(canned.Recorder()); ok {
		rep.StepOK("call count matcher agrees", "2 recorded calls")
	} else {
		rep.StepFail("call count matcher agrees", errors.New("expected 2 recorded calls"))
	}

	pure := spy.Wrap1[string, int](nil).Return(7)
	rep.StepOK("pure stubs need no function", fmt.Sprintf("stub(%q)=%d", "anything", pure.Call("anything")))

	return rep.Finish(), nil
}

func demoAsync(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("async", env.RunID, env.Clock)

	src := fetch.NewStaticSource([]fetch.Record{
		{ID: "ada", Name: "Ada Lovelace", Tags: []string{"math"}},
		{ID: "grace", Name: "Grace Hopper", Tags: []string{"compilers"}},
		{ID: "alan", Name: "Alan Turing", Tags: []string{"logic"}},
	})
	dir := fetch.NewDirectory(src, fetch.WithConcurrency(3))

	recs, err := dir.LookupAll(ctx, []string{"grace", "ada", "alan"})
	if err != nil {
		rep.StepFail("fan-out lookup", err)
		return rep.Finish(), nil
	}
	rep.StepOK("fan-out lookup", fmt.Sprintf("%d records, order preserved, first is %s", len(recs), recs[0].Name))

	select {
	case res := <-dir.LookupAsync(ctx, "ada"):
		if res.Err != nil {
			rep.StepFail("await a single result", res.Err)
		} else {
			rep.StepOK("await a single result", res.Record.Name)
		}
	case <-ctx.Done():
		rep.StepFail("await a single result", ctx.Err())
	}

	// Immediate retries: the flaky source recovers before the policy
	// runs out, and no clock needs to tick for that to happen.
	flaky := fetch.NewFlakySource(src, 2)
	immediate := retry.Policy{Attempts: 4, Initial: 0, Multiplier: 1}

	var attempts int
	err = retry.Do(ctx, immediate, func(ctx context.Context) error {
		attempts++
		_, err := flaky.Lookup(ctx, "grace")
		return err
	}, retry.WithClock(env.Clock))
	if err != nil {
		rep.StepFail("retry a flaky source", err)
	} else {
		rep.StepOK("retry a flaky source", fmt.Sprintf("succeeded on attempt %d", attempts))
	}

	err = retry.Do(ctx, immediate, func(ctx context.Context) error {
		if _, err := dir.Lookup(ctx, "ghost"); err != nil {
			return retry.Permanent(err)
		}
		return nil
	}, retry.WithClock(env.Clock))
	if errors.Is(err, fetch.ErrNotFound) {
		rep.StepOK("missing records fail fast", err.Error())
	} else {
		rep.StepFail("missing records fail fast", fmt.Errorf("expected a not-found error, got %v", err))
	}

	return rep.Finish(), nil
}

func demoTimers(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("timers", env.RunID, env.Clock)

	deb := debounce.New(100*time.Millisecond, debounce.WithClock(env.Clock))
	defer deb.Stop()

	var runs atomic.Int64
	for i := 0; i < 3; i++ {
		deb.Trigger(func() { runs.Add(1) })
	}
	rep.StepOK("rapid triggers coalesce", fmt.Sprintf("%d triggers, %d fired so far", deb.Triggered(), deb.Fired()))

	deb.Flush()
	rep.StepOK("flush runs the newest callback", fmt.Sprintf("callback ran %d time(s)", runs.Load()))

	rec := spy.NewRecorder(spy.WithClock(env.Clock))
	rec.Record("first")
	rec.Record("second")
	firstCall, _ := rec.Nth(0)
	lastCall, _ := rec.Last()
	rep.StepOK("timestamps come from the injected clock",
		fmt.Sprintf("gap between calls: %s", lastCall.At.Sub(firstCall.At)))

	return rep.Finish(), nil
}

// resultsSnapshot is the pinned rendering the snapshots demo checks for
// drift.
const resultsSnapshot = `add(2, 3)      = 5
multiply(6, 7) = 42
sum(1..4)      = 10
`

func demoSnapshots(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("snapshots", env.RunID, env.Clock)

	got := renderResultsTable()
	fmt.Fprintf(env.Out, "pinned rendering:\n%s\n", got)
	if diff := cmp.Diff(resultsSnapshot, got); diff != "" {
		rep.StepFail("rendered table matches the snapshot", fmt.Errorf("drift:\n%s", diff))
	} else {
		rep.StepOK("rendered table matches the snapshot", "no drift")
	}

	// Tamper with one value to show what drift looks like. The step
	// passes because a diff is exactly what we expect here.
	tampered := strings.Replace(got, "42", "41", 1)
	if diff := cmp.Diff(resultsSnapshot, tampered); diff != "" {
		rep.StepOK("drift shows up as a diff", fmt.Sprintf("diff spans %d lines", strings.Count(diff, "\n")))
	} else {
		rep.StepFail("drift shows up as a diff", errors.New("expected a diff, got none"))
	}

	return rep.Finish(), nil
}

func renderResultsTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "add(2, 3)      = %v\n", arith.Add(2, 3))
	fmt.Fprintf(&b, "multiply(6, 7) = %v\n", arith.Multiply(6, 7))
	fmt.Fprintf(&b, "sum(1..4)      = %v\n", arith.Sum(1, 2, 3, 4))
	return b.String()
}

func demoParallel(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("parallel", env.RunID, env.Clock)

	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	squares, err := pool.Map(ctx, items, func(ctx context.Context, n int) (int, error) {
		return n * n, nil
	}, pool.WithConcurrency(8))
	if err != nil {
		rep.StepFail("map with bounded workers", err)
		return rep.Finish(), nil
	}
	ordered := true
	for i, v := range squares {
		if v != i*i {
			ordered = false
			break
		}
	}
	if ordered {
		rep.StepOK("map with bounded workers", fmt.Sprintf("%d results in input order", len(squares)))
	} else {
		rep.StepFail("map with bounded workers", errors.New("results came back out of order"))
	}

	var visited atomic.Int64
	if err := pool.ForEach(ctx, items, func(ctx context.Context, n int) error {
		visited.Add(1)
		return nil
	}, pool.WithConcurrency(4)); err != nil {
		rep.StepFail("for-each visits everything", err)
	} else {
		rep.StepOK("for-each visits everything", fmt.Sprintf("%d visits", visited.Load()))
	}

	_, err = pool.Map(ctx, items, func(ctx context.Context, n int) (int, error) {
		if n == 13 {
			return 0, fmt.Errorf("item %d is unlucky", n)
		}
		return n, nil
	}, pool.WithConcurrency(4))
	if err != nil {
		rep.StepOK("first error stops the group", err.Error())
	} else {
		rep.StepFail("first error stops the group", errors.New("expected an error, got none"))
	}

	return rep.Finish(), nil
}

func demoHooks(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("hooks", env.RunID, env.Clock)

	// Each case gets a fresh source, the way a suite's SetupTest
	// rebuilds fixtures between tests.
	setup := func() *fetch.StaticSource {
		return fetch.NewStaticSource([]fetch.Record{{ID: "ada", Name: "Ada Lovelace"}})
	}

	first := setup()
	first.Put(fetch.Record{ID: "intruder", Name: "Leaked State"})
	if _, err := first.Lookup(ctx, "intruder"); err == nil {
		rep.StepOK("case one mutates its fixture", "intruder visible inside the case")
	} else {
		rep.StepFail("case one mutates its fixture", err)
	}

	second := setup()
	if _, err := second.Lookup(ctx, "intruder"); errors.Is(err, fetch.ErrNotFound) {
		rep.StepOK("case two starts clean", "intruder gone after fresh setup")
	} else {
		rep.StepFail("case two starts clean", fmt.Errorf("fixture leaked between cases: %v", err))
	}

	// Teardown runs newest-first, the way t.Cleanup does.
	var order []string
	teardown := func(name string) func() {
		return func() { order = append(order, name) }
	}
	cleanups := []func(){teardown("close session"), teardown("remove scratch dir")}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	rep.StepOK("teardown runs last-in first-out", strings.Join(order, ", then "))

	return rep.Finish(), nil
}

func demoWatch(ctx context.Context, env *Env) (*report.Report, error) {
	rep := report.New("watch", env.RunID, env.Clock)

	dir, err := os.MkdirTemp("", "kata-watch-*")
	if err != nil {
		return rep.Finish(), fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	w, err := watch.New(dir,
		watch.WithDebounce(25*time.Millisecond),
		watch.WithExtensions(".md"),
		watch.WithLogger(env.Log))
	if err != nil {
		return rep.Finish(), err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return rep.Finish(), err
	}
	rep.StepOK("watcher started", dir)

	path := filepath.Join(dir, "scratch.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("# scratch\n"), 0o644); err != nil {
			return rep.Finish(), err
		}
	}

	select {
	case ev := <-w.Events():
		rep.StepOK("a burst settles into one event", fmt.Sprintf("%s %s", ev.Kind, filepath.Base(ev.Path)))
	case <-time.After(5 * time.Second):
		rep.StepFail("a burst settles into one event", errors.New("no event within 5s"))
	case <-ctx.Done():
		rep.StepFail("a burst settles into one event", ctx.Err())
	}

	stats := w.Stats()
	rep.StepOK("stats track the burst",
		fmt.Sprintf("created=%d modified=%d emitted=%d", stats.Created, stats.Modified, stats.Emitted))

	return rep.Finish(), nil
}
