// Package config holds the kata CLI configuration: note location, run
// behavior and output rendering.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all kata settings.
type Config struct {
	// NotesDir is where the topic write-ups live.
	NotesDir string `yaml:"notes_dir"`

	// Output selects the run report format: text or yaml.
	Output string `yaml:"output"`

	// NoColor disables ANSI styling in terminal output.
	NoColor bool `yaml:"no_color"`

	// Run settings
	Run RunConfig `yaml:"run"`

	// Watch mode settings
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Log LogConfig `yaml:"log"`
}

// RunConfig bounds a kata run.
type RunConfig struct {
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"` // 0 means GOMAXPROCS
}

// WatchConfig tunes the file watcher behind watch mode.
type WatchConfig struct {
	Debounce   string   `yaml:"debounce"`
	Extensions []string `yaml:"extensions"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NotesDir: filepath.Join("docs", "notes"),
		Output:   "text",

		Run: RunConfig{
			Timeout: "30s",
		},

		Watch: WatchConfig{
			Debounce:   "500ms",
			Extensions: []string{".md"},
		},

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the config file location: .kata.yaml in the
// working directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ".kata.yaml"
	}
	return filepath.Join(cwd, ".kata.yaml")
}

// Load reads configuration from a YAML file. A missing file is not an
// error: defaults apply, and environment overrides still run.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("KATA_NOTES_DIR"); dir != "" {
		c.NotesDir = dir
	}
	if level := os.Getenv("KATA_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if v := os.Getenv("KATA_NO_COLOR"); v != "" {
		c.NoColor = true
	}
	// The de facto standard one, honored by most terminal tools.
	if v := os.Getenv("NO_COLOR"); v != "" {
		c.NoColor = true
	}
}

// RunTimeout returns the per-run timeout as a duration.
func (c *Config) RunTimeout() time.Duration {
	d, err := time.ParseDuration(c.Run.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// WatchDebounce returns the watch debounce window as a duration.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// ValidOutputs lists the supported report formats.
var ValidOutputs = []string{"text", "yaml"}

// ValidLogLevels lists the supported log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for values the CLI cannot honor.
func (c *Config) Validate() error {
	if !contains(ValidOutputs, c.Output) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output, ValidOutputs)
	}
	if !contains(ValidLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, ValidLogLevels)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (valid: [console json])", c.Log.Format)
	}
	return nil
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
