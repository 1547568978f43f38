package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NotesDir != filepath.Join("docs", "notes") {
		t.Errorf("expected NotesDir=docs/notes, got %s", cfg.NotesDir)
	}
	if cfg.Output != "text" {
		t.Errorf("expected Output=text, got %s", cfg.Output)
	}
	if cfg.Run.Timeout != "30s" {
		t.Errorf("expected Run.Timeout=30s, got %s", cfg.Run.Timeout)
	}
	if cfg.Watch.Debounce != "500ms" {
		t.Errorf("expected Watch.Debounce=500ms, got %s", cfg.Watch.Debounce)
	}
	if len(cfg.Watch.Extensions) != 1 || cfg.Watch.Extensions[0] != ".md" {
		t.Errorf("expected Watch.Extensions=[.md], got %v", cfg.Watch.Extensions)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected Log.Level=info, got %s", cfg.Log.Level)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("KATA_NOTES_DIR", "")
	t.Setenv("KATA_LOG_LEVEL", "")
	t.Setenv("KATA_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "kata.yaml")

	cfg := DefaultConfig()
	cfg.NotesDir = "notes/elsewhere"
	cfg.Output = "yaml"
	cfg.Run.Timeout = "2m"
	cfg.Watch.Extensions = []string{".md", ".txt"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.NotesDir != "notes/elsewhere" {
		t.Errorf("expected NotesDir=notes/elsewhere, got %s", loaded.NotesDir)
	}
	if loaded.Output != "yaml" {
		t.Errorf("expected Output=yaml, got %s", loaded.Output)
	}
	if loaded.Run.Timeout != "2m" {
		t.Errorf("expected Run.Timeout=2m, got %s", loaded.Run.Timeout)
	}
	if len(loaded.Watch.Extensions) != 2 {
		t.Errorf("expected 2 watch extensions, got %v", loaded.Watch.Extensions)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("KATA_NOTES_DIR", "")
	t.Setenv("KATA_LOG_LEVEL", "")
	t.Setenv("KATA_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")

	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if cfg.Output != "text" {
		t.Errorf("expected default Output=text, got %s", cfg.Output)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("KATA_NOTES_DIR", "")
	t.Setenv("KATA_LOG_LEVEL", "")
	t.Setenv("KATA_NO_COLOR", "")
	t.Setenv("NO_COLOR", "")

	path := filepath.Join(t.TempDir(), "kata.yaml")
	data := []byte("output: yaml\nrun:\n  timeout: 5s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("expected Output=yaml from file, got %s", cfg.Output)
	}
	if cfg.Run.Timeout != "5s" {
		t.Errorf("expected Run.Timeout=5s from file, got %s", cfg.Run.Timeout)
	}
	// Fields absent from the file keep their defaults.
	if cfg.NotesDir != filepath.Join("docs", "notes") {
		t.Errorf("expected default NotesDir, got %s", cfg.NotesDir)
	}
	if cfg.Watch.Debounce != "500ms" {
		t.Errorf("expected default Watch.Debounce, got %s", cfg.Watch.Debounce)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kata.yaml")
	if err := os.WriteFile(path, []byte("output: [unclosed"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSave_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "kata.yaml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to exist: %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.RunTimeout(); got != 30*time.Second {
		t.Errorf("expected default run timeout 30s, got %v", got)
	}

	cfg.Run.Timeout = "90s"
	if got := cfg.RunTimeout(); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}

	cfg.Run.Timeout = "not-a-duration"
	if got := cfg.RunTimeout(); got != 30*time.Second {
		t.Errorf("expected fallback 30s for bad duration, got %v", got)
	}
}

func TestWatchDebounce(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.WatchDebounce(); got != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", got)
	}

	cfg.Watch.Debounce = "2s"
	if got := cfg.WatchDebounce(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}

	cfg.Watch.Debounce = "soon"
	if got := cfg.WatchDebounce(); got != 500*time.Millisecond {
		t.Errorf("expected fallback 500ms for bad duration, got %v", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Output = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown output format")
	}

	cfg = DefaultConfig()
	cfg.Log.Level = "whisper"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown log level")
	}

	cfg = DefaultConfig()
	cfg.Log.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown log format")
	}
}
