package spy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc1PassThrough(t *testing.T) {
	double := Wrap1(func(n int) int { return n * 2 })

	assert.Equal(t, 10, double.Call(5))
	assert.Equal(t, 14, double.Call(7))

	rec := double.Recorder()
	require.Equal(t, 2, rec.CallCount())

	first, _ := rec.Nth(0)
	assert.Equal(t, []any{5}, first.Args)
	assert.Equal(t, 10, first.Result)
}

func TestFunc1CannedResultsDrainFIFO(t *testing.T) {
	stub := Wrap1(func(n int) int { return n }).Return(100, 200)

	assert.Equal(t, 100, stub.Call(1), "first canned result")
	assert.Equal(t, 200, stub.Call(2), "second canned result")
	assert.Equal(t, 3, stub.Call(3), "falls back to the wrapped function")
}

func TestFunc1NilFunctionYieldsZero(t *testing.T) {
	stub := Wrap1[string, int](nil)

	assert.Equal(t, 0, stub.Call("anything"))
	assert.Equal(t, 1, stub.Recorder().CallCount())
}

func TestFunc1ReturnChaining(t *testing.T) {
	stub := Wrap1[int, string](nil).Return("a").Return("b")

	assert.Equal(t, "a", stub.Call(0))
	assert.Equal(t, "b", stub.Call(0))
	assert.Equal(t, "", stub.Call(0))
}

func TestFunc2RecordsBothArgs(t *testing.T) {
	join := Wrap2(func(a, b string) string { return a + "-" + b })

	got := join.Call("fake", "timers")
	require.Equal(t, "fake-timers", got)

	call, ok := join.Recorder().Last()
	require.True(t, ok)
	assert.Equal(t, []any{"fake", "timers"}, call.Args)
	assert.Equal(t, "fake-timers", call.Result)
}

func TestFunc2AsCollaborator(t *testing.T) {
	// A consumer that formats through an injected function; the spy stands
	// in for the collaborator and the test asserts on the interaction, not
	// the implementation.
	upper := Wrap2(func(prefix, s string) string {
		return prefix + strings.ToUpper(s)
	})

	shout := func(words []string) []string {
		out := make([]string, 0, len(words))
		for _, w := range words {
			out = append(out, upper.Call(">> ", w))
		}
		return out
	}

	got := shout([]string{"one", "two"})

	assert.Equal(t, []string{">> ONE", ">> TWO"}, got)
	assert.Equal(t, 2, upper.Recorder().CallCount())
}
