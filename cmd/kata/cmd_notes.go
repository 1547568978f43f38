package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"testkata/internal/kata"
)

var notesWidth int

// notesCmd renders a topic's write-up
var notesCmd = &cobra.Command{
	Use:   "notes [kata-id]",
	Short: "Render the study note for a topic",
	Long: `Renders the markdown write-up for a kata to the terminal.

The note explains what the topic's tests demonstrate and points at the
code that backs it. Notes live in the configured notes directory
(notes_dir, default docs/notes).`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

func init() {
	notesCmd.Flags().IntVarP(&notesWidth, "width", "w", 100, "Wrap rendered markdown at this column")
}

func runNotes(cmd *cobra.Command, args []string) error {
	reg := kata.Default()
	k, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown kata %q (try 'kata list')", args[0])
	}

	path := filepath.Join(cfg.NotesDir, k.Note)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read note: %w", err)
	}

	if cfg.NoColor {
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(notesWidth),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("render note: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
