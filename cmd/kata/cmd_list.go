package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"testkata/cmd/kata/ui"
	"testkata/internal/kata"
)

// listCmd prints the kata catalog
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the kata topics",
	Long: `Lists every kata in study order with its one-line summary.

Run one with 'kata run <id>' or read its note with 'kata notes <id>'.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	styles := cliStyles()

	table := ui.NewTable("Katas", []string{"ID", "Title", "Summary"})
	for _, k := range kata.Default().All() {
		table.AddRow(k.ID, k.Title, k.Summary)
	}

	fmt.Fprint(cmd.OutOrStdout(), table.View(styles))
	return nil
}
