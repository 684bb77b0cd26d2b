package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popzy/internal/catalog"
	"github.com/jmylchreest/popzy/internal/config"
	"github.com/jmylchreest/popzy/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose      bool
		configPath   string
		catalogPath  string
		templatesDir string
		logFile      string
	}
	logger  *slog.Logger
	logSink io.Closer
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "popzy",
	Short: "Stacked modal dialogs in the terminal",
	Long: `popzy opens stacked modal dialogs over a scrolling page.

Dialogs come from a catalog of definitions and markdown templates. Each
new dialog opens above the last; closing the top one uncovers the one
beneath it, and the page does not scroll while any dialog is open.

Running popzy without a subcommand launches the interactive host.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive host owns the terminal, so it only logs to a file.
		interactive := !cmd.HasParent() || cmd == runCmd
		if err := setupLogger(interactive); err != nil {
			return err
		}

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalOpts.catalogPath != "" {
			cfg.Paths.Catalog = globalOpts.catalogPath
		}
		if globalOpts.templatesDir != "" {
			cfg.Paths.Templates = globalOpts.templatesDir
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logSink != nil {
			return logSink.Close()
		}
		return nil
	},
	// Default to the interactive host when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHost(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/popzy/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.catalogPath, "catalog", "",
		"Path to a dialogs.yaml catalog merged over the built-in dialogs")
	rootCmd.PersistentFlags().StringVar(&globalOpts.templatesDir, "templates", "",
		"Directory of *.md templates (default: ~/.config/popzy/templates)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logFile, "log-file", "",
		"Write logs to this file (the interactive host discards logs otherwise)")

	rootCmd.Flags().StringSliceVar(&runOpts.open, "open", nil,
		"Dialog ids to open at start")
}

// setupLogger configures the global slog logger. Terminals get a colourised
// handler; files and pipes get plain text.
func setupLogger(interactive bool) error {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	switch {
	case globalOpts.logFile != "":
		f, err := os.OpenFile(globalOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		logSink = f
	case interactive:
		w = io.Discard
	}

	var handler slog.Handler
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)
	return nil
}

// loadCatalog loads the configured catalog and templates.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Paths.Catalog,
		catalog.WithTemplatesDir(cfg.Paths.Templates),
		catalog.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// hostOptions assembles the host configuration shared by run and render.
func hostOptions() (tui.HostOptions, error) {
	cat, err := loadCatalog()
	if err != nil {
		return tui.HostOptions{}, err
	}
	page, err := tui.LoadPage(cfg.TUI.Page)
	if err != nil {
		return tui.HostOptions{}, err
	}
	return tui.HostOptions{
		Config:  cfg,
		Catalog: cat,
		Page:    page,
		Logger:  logger,
	}, nil
}
