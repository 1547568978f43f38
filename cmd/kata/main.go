package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testkata/cmd/kata/ui"
	"testkata/internal/config"
	"testkata/internal/logging"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	noColor bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kata",
	Short: "kata - runnable study notes on testing technique",
	Long: `kata is a collection of runnable study notes on testing technique.

Each topic pairs a small example component with the tests that exercise
it and a write-up of what those tests demonstrate: assertions, custom
matchers, spies, asynchronous waits, fake clocks, golden files, bounded
parallelism, setup/teardown, and the watch loop itself.

List the topics, read the notes, run the demos, or watch the notes
directory and re-run on every change.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if noColor {
			cfg.NoColor = true
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// The watch TUI owns the terminal; route logs nowhere.
		if cmd.Name() == "watch" {
			logger = logging.Nop()
			return nil
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add commands to root
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}

// cliStyles picks the style set the current config allows.
func cliStyles() ui.Styles {
	if cfg != nil && cfg.NoColor {
		return ui.PlainStyles()
	}
	return ui.DefaultStyles()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
