package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"redwing-hq/redwing/pkg/config"
	"redwing-hq/redwing/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "redwing",
	Short: "Redwing - schema-interpreted data mapping for SQLite",
	Long: `Redwing is a data mapping toolkit that interprets YAML table
descriptions at runtime instead of generating code.

The CLI manages the databases behind it:
  - Ordered SQL migrations with bookkeeping
  - Schema file validation and inspection
  - Session store pruning, one-shot or on a cron schedule

For more information, visit: https://github.com/redwing-hq/redwing`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration named by --config and installs
// the logger it describes. --verbose forces debug level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
