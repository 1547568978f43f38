// Package golden compares test output against files kept under a
// package's testdata directory.
//
// A mismatch prints a go-cmp diff. Running the tests with -update
// rewrites the files instead, which is how they are reviewed: the
// rewritten file shows up in the commit for a human to approve.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var update = flag.Bool("update", false, "rewrite golden files with current output")

// Path returns the golden file location for name, relative to the
// calling test's package directory.
func Path(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// Read returns the golden file contents for name. The test fails if the
// file is missing, with a hint to run -update.
func Read(t testing.TB, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(Path(name))
	if err != nil {
		t.Fatalf("read golden file: %v (run go test -update to create it)", err)
		return nil
	}
	return data
}

// Assert compares got against the golden file for name. With -update it
// rewrites the file first, so the comparison always passes and the diff
// lands in version control instead.
func Assert(t testing.TB, name string, got []byte) {
	t.Helper()

	if *update {
		writeFile(t, name, got)
	}

	want := Read(t, name)
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("golden mismatch for %q (-want +got):\n%s", name, diff)
	}
}

// AssertString is Assert for string output.
func AssertString(t testing.TB, name string, got string) {
	t.Helper()
	Assert(t, name, []byte(got))
}

func writeFile(t testing.TB, name string, data []byte) {
	t.Helper()

	if err := os.MkdirAll("testdata", 0o755); err != nil {
		t.Fatalf("create testdata dir: %v", err)
	}
	if err := os.WriteFile(Path(name), data, 0o644); err != nil {
		t.Fatalf("write golden file: %v", err)
	}
}
