package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/popzy/internal/config"
)

var configOpts struct {
	write bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration popzy runs with: defaults, overlaid by the
config file and command line flags. With --write the result is saved
to the config path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configOpts.write {
			path := globalOpts.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			logger.Info("config written", "path", path)
		}

		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configOpts.write, "write", false,
		"Save the effective configuration to the config path")
}
