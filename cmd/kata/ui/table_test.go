package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	table := NewTable("Topics", []string{"ID", "Title"})
	table.AddRow("basics", "First assertions")
	table.AddRow("timers", "Taming the clock")

	view := table.View(PlainStyles())

	t.Logf("View:\n%q", view)

	if !strings.Contains(view, "Topics") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "basics") {
		t.Error("View missing cell content")
	}
	if !strings.Contains(view, "Taming the clock") {
		t.Error("View missing second row")
	}
}

func TestTable_EmptyRendersNothing(t *testing.T) {
	table := NewTable("Empty", []string{"ID"})
	if view := table.View(PlainStyles()); view != "" {
		t.Errorf("expected empty view, got %q", view)
	}
}

func TestTable_ColumnsFitWidestCell(t *testing.T) {
	table := NewTable("", []string{"ID", "Title"})
	table.AddRow("a-rather-long-identifier", "x")

	view := table.View(PlainStyles())
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, divider and a row, got %d lines", len(lines))
	}
	// The divider spans both padded columns.
	if !strings.Contains(lines[1], strings.Repeat("-", len("a-rather-long-identifier"))) {
		t.Errorf("divider too short: %q", lines[1])
	}
}
