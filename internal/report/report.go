// Package report records what a kata demo did so a run can be rendered
// for the terminal or serialized for tooling.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"
)

// Step is one recorded action inside a run.
type Step struct {
	Name    string
	Detail  string
	Elapsed time.Duration
	OK      bool
}

// Report collects the steps of a single kata run. It is not safe for
// concurrent use; record steps from one goroutine.
type Report struct {
	Kata    string
	RunID   string
	Started time.Time
	Elapsed time.Duration
	Steps   []Step
	Err     string

	clock clockwork.Clock
	mark  time.Time
	done  bool
}

// New starts a report for one kata run. The clock stamps the start time
// and measures step durations, so a fake clock makes output stable.
// A nil clock falls back to the wall clock.
func New(kata, runID string, clock clockwork.Clock) *Report {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	now := clock.Now()
	return &Report{
		Kata:    kata,
		RunID:   runID,
		Started: now.UTC(),
		clock:   clock,
		mark:    now,
	}
}

// StepOK records a successful step. Elapsed covers the time since the
// previous step (or since the run started).
func (r *Report) StepOK(name, detail string) {
	r.step(name, detail, true)
}

// StepFail records a failed step. The first failure also becomes the
// report's error.
func (r *Report) StepFail(name string, err error) {
	r.step(name, err.Error(), false)
	if r.Err == "" {
		r.Err = fmt.Sprintf("%s: %v", name, err)
	}
}

// Finish stamps the total elapsed time. Calling it again is a no-op.
func (r *Report) Finish() *Report {
	if r.done {
		return r
	}
	r.done = true
	r.Elapsed = r.clock.Now().Sub(r.Started)
	return r
}

// OK reports whether every step succeeded.
func (r *Report) OK() bool {
	return r.Err == ""
}

func (r *Report) step(name, detail string, ok bool) {
	now := r.clock.Now()
	r.Steps = append(r.Steps, Step{
		Name:    name,
		Detail:  detail,
		Elapsed: now.Sub(r.mark),
		OK:      ok,
	})
	r.mark = now
}

// Render formats the report as a plain text block. Given the same clock
// readings the output is byte for byte identical, which keeps it easy
// to pin with golden files.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "kata: %s\n", r.Kata)
	fmt.Fprintf(&b, "run: %s\n", r.RunID)
	fmt.Fprintf(&b, "started: %s\n", r.Started.Format(time.RFC3339))

	nameWidth := 0
	for _, s := range r.Steps {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	failed := 0
	if len(r.Steps) > 0 {
		b.WriteByte('\n')
	}
	for _, s := range r.Steps {
		status := "  ok"
		if !s.OK {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(&b, "%s  %-*s  %8s", status, nameWidth, s.Name, s.Elapsed)
		if s.Detail != "" {
			fmt.Fprintf(&b, "  %s", s.Detail)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n%d steps, %d failed, %s total\n", len(r.Steps), failed, r.Elapsed)
	if r.Err != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Err)
	}
	return b.String()
}

// YAML serializes the report for tooling.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// MarshalYAML renders times and durations in their human form rather
// than raw nanoseconds.
func (r *Report) MarshalYAML() (any, error) {
	type step struct {
		Name    string `yaml:"name"`
		Detail  string `yaml:"detail,omitempty"`
		Elapsed string `yaml:"elapsed"`
		OK      bool   `yaml:"ok"`
	}
	type out struct {
		Kata    string `yaml:"kata"`
		RunID   string `yaml:"run_id"`
		Started string `yaml:"started"`
		Elapsed string `yaml:"elapsed"`
		Steps   []step `yaml:"steps"`
		Err     string `yaml:"error,omitempty"`
	}

	o := out{
		Kata:    r.Kata,
		RunID:   r.RunID,
		Started: r.Started.Format(time.RFC3339),
		Elapsed: r.Elapsed.String(),
		Err:     r.Err,
	}
	for _, s := range r.Steps {
		o.Steps = append(o.Steps, step{
			Name:    s.Name,
			Detail:  s.Detail,
			Elapsed: s.Elapsed.String(),
			OK:      s.OK,
		})
	}
	return o, nil
}
