package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popzy/internal/tui"
)

var runOpts struct {
	open    []string
	noWatch bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the interactive host",
	Long: `Launch the interactive terminal host.

Key bindings:
  1-9         Open the n-th catalog dialog
  n           Open the next catalog dialog
  esc         Close the top dialog (when it allows escape)
  c / x       Close / destroy the top dialog
  j/k, ↑/↓    Scroll the page (ignored while scroll is locked)
  ?           Show help
  q           Quit

Mouse clicks reach the top dialog: its close button, footer buttons,
or the backdrop around it.`,
	RunE: runHost,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&runOpts.open, "open", nil,
		"Dialog ids to open at start")
	runCmd.Flags().BoolVar(&runOpts.noWatch, "no-watch", false,
		"Do not reload templates when the templates directory changes")
}

func runHost(cmd *cobra.Command, args []string) error {
	opts, err := hostOptions()
	if err != nil {
		return err
	}

	return tui.Run(tui.RunOptions{
		Host:  opts,
		Open:  runOpts.open,
		Mouse: cfg.TUI.Mouse,
		Watch: !runOpts.noWatch,
	})
}
