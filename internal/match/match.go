// Package match holds custom Gomega matchers for the study notes: a
// numeric tolerance matcher and two matchers over spy recorders. They
// exist to show how little code a domain matcher needs, and to make the
// BDD specs read as full sentences.
package match

import (
	"fmt"
	"math"
	"reflect"

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"

	"testkata/internal/spy"
)

// BeWithin starts a tolerance assertion. Combine with Of:
//
//	Expect(mean).To(BeWithin(1e-9).Of(0.15))
func BeWithin(tolerance float64) *BeWithinBuilder {
	return &BeWithinBuilder{tolerance: tolerance}
}

// BeWithinBuilder carries the tolerance until Of supplies the target.
type BeWithinBuilder struct {
	tolerance float64
}

// Of completes the matcher with the expected value.
func (b *BeWithinBuilder) Of(expected float64) types.GomegaMatcher {
	return &beWithinMatcher{tolerance: b.tolerance, expected: expected}
}

type beWithinMatcher struct {
	tolerance float64
	expected  float64
}

func (m *beWithinMatcher) Match(actual any) (bool, error) {
	if m.tolerance < 0 {
		return false, fmt.Errorf("BeWithin needs a non-negative tolerance, got %v", m.tolerance)
	}
	v, ok := toFloat(actual)
	if !ok {
		return false, fmt.Errorf("BeWithin expects a numeric value, got %s", format.Object(actual, 1))
	}
	return math.Abs(v-m.expected) <= m.tolerance, nil
}

func (m *beWithinMatcher) FailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("to be within %v of", m.tolerance), m.expected)
}

func (m *beWithinMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("not to be within %v of", m.tolerance), m.expected)
}

func toFloat(actual any) (float64, bool) {
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

// HaveCalls succeeds when the recorder has seen exactly n calls.
func HaveCalls(n int) types.GomegaMatcher {
	return &haveCallsMatcher{expected: n}
}

type haveCallsMatcher struct {
	expected int
}

func (m *haveCallsMatcher) Match(actual any) (bool, error) {
	rec, ok := actual.(*spy.Recorder)
	if !ok {
		return false, fmt.Errorf("HaveCalls expects a *spy.Recorder, got %s", format.Object(actual, 1))
	}
	return rec.CallCount() == m.expected, nil
}

func (m *haveCallsMatcher) FailureMessage(actual any) string {
	msg := fmt.Sprintf("to have %d recorded calls", m.expected)
	if rec, ok := actual.(*spy.Recorder); ok {
		msg = fmt.Sprintf("%s, got %d", msg, rec.CallCount())
	}
	return format.Message(actual, msg)
}

func (m *haveCallsMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("not to have %d recorded calls", m.expected))
}

// HaveRecordedArgs succeeds when any recorded call carried exactly these
// arguments, in order.
func HaveRecordedArgs(args ...any) types.GomegaMatcher {
	return &haveRecordedArgsMatcher{args: args}
}

type haveRecordedArgsMatcher struct {
	args []any
}

func (m *haveRecordedArgsMatcher) Match(actual any) (bool, error) {
	rec, ok := actual.(*spy.Recorder)
	if !ok {
		return false, fmt.Errorf("HaveRecordedArgs expects a *spy.Recorder, got %s", format.Object(actual, 1))
	}
	for _, c := range rec.Calls() {
		if reflect.DeepEqual(c.Args, m.args) {
			return true, nil
		}
	}
	return false, nil
}

func (m *haveRecordedArgsMatcher) FailureMessage(actual any) string {
	msg := fmt.Sprintf("to have recorded a call with args %v", m.args)
	if rec, ok := actual.(*spy.Recorder); ok {
		msg = fmt.Sprintf("%s; saw %d calls", msg, rec.CallCount())
	}
	return format.Message(actual, msg)
}

func (m *haveRecordedArgsMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, fmt.Sprintf("not to have recorded a call with args %v", m.args))
}
