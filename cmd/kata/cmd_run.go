package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"testkata/internal/kata"
	"testkata/internal/pool"
	"testkata/internal/report"
)

var (
	runAll    bool
	runOutput string
)

// runCmd executes kata demos and prints their reports
var runCmd = &cobra.Command{
	Use:   "run [kata-id...]",
	Short: "Run kata demos and print their reports",
	Long: `Runs the demo behind each named kata and prints a step-by-step report.

Each demo walks the same scenario its tests cover, so a green report
means the technique the note describes actually holds. Exit status is
nonzero when any step fails.

Examples:
  kata run basics
  kata run timers snapshots
  kata run --all -o yaml`,
	SilenceUsage: true,
	RunE:         runKatas,
}

func init() {
	runCmd.Flags().BoolVarP(&runAll, "all", "a", false, "Run every kata in study order")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Report format: text or yaml (default from config)")
}

func runKatas(cmd *cobra.Command, args []string) error {
	if !runAll && len(args) == 0 {
		return fmt.Errorf("name at least one kata or pass --all (try 'kata list')")
	}

	reg := kata.Default()
	var katas []kata.Kata
	if runAll {
		katas = reg.All()
	} else {
		for _, id := range args {
			k, ok := reg.Get(id)
			if !ok {
				return fmt.Errorf("unknown kata %q (try 'kata list')", id)
			}
			katas = append(katas, k)
		}
	}

	format := cfg.Output
	if runOutput != "" {
		format = runOutput
	}
	if format != "text" && format != "yaml" {
		return fmt.Errorf("invalid output format: %s (valid: text, yaml)", format)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	runID := uuid.NewString()
	logger.Debug("Starting kata run",
		zap.String("run_id", runID),
		zap.Int("katas", len(katas)))

	out := cmd.OutOrStdout()
	// Demos may narrate to their Env.Out; keep that off the machine-
	// readable stream.
	demoOut := out
	if format == "yaml" {
		demoOut = io.Discard
	}

	// Demos are independent, so they fan out under run.concurrency.
	// Reports still print in study order.
	results, err := pool.Map(ctx, katas, func(ctx context.Context, k kata.Kata) (runResult, error) {
		rep, err := executeKata(ctx, k, demoOut, runID)
		return runResult{kata: k, rep: rep, err: err}, nil
	}, pool.WithConcurrency(cfg.Run.Concurrency))
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if res.err != nil {
			return fmt.Errorf("kata %s: %w", res.kata.ID, res.err)
		}
		if err := printReport(out, res.rep, format, i > 0); err != nil {
			return err
		}
		if !res.rep.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d katas failed", failed, len(katas))
	}
	return nil
}

// runResult pairs one kata with what its demo produced.
type runResult struct {
	kata kata.Kata
	rep  *report.Report
	err  error
}

// executeKata runs one demo under the configured timeout.
func executeKata(ctx context.Context, k kata.Kata, out io.Writer, runID string) (*report.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
	defer cancel()

	env := &kata.Env{
		Log:   logger.Named(k.ID),
		Clock: clockwork.NewRealClock(),
		Out:   out,
		RunID: runID,
	}
	return k.Demo(ctx, env)
}

func printReport(w io.Writer, rep *report.Report, format string, separator bool) error {
	switch format {
	case "yaml":
		data, err := rep.YAML()
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if separator {
			fmt.Fprintln(w, "---")
		}
		_, err = w.Write(data)
		return err
	default:
		if separator {
			fmt.Fprintln(w)
		}
		_, err := fmt.Fprint(w, rep.Render())
		return err
	}
}
