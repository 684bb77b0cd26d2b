package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/popzy/internal/tui"
)

var renderOpts struct {
	open   []string
	width  int
	height int
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print one frame with dialogs open",
	Long: `Open dialogs in order, let their transitions finish, and print the
resulting screen to stdout. Useful for previewing catalog changes.`,
	Example: `  popzy render --open terms --open details --width 100 --height 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderOpts.width < 10 || renderOpts.height < 5 {
			return fmt.Errorf("screen must be at least 10x5, got %dx%d", renderOpts.width, renderOpts.height)
		}
		opts, err := hostOptions()
		if err != nil {
			return err
		}
		frame, err := tui.Snapshot(opts, renderOpts.width, renderOpts.height, renderOpts.open...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), frame)
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringSliceVar(&renderOpts.open, "open", nil,
		"Dialog ids to open, bottom first")
	renderCmd.Flags().IntVar(&renderOpts.width, "width", 80, "Screen width in cells")
	renderCmd.Flags().IntVar(&renderOpts.height, "height", 24, "Screen height in rows")
}
