package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"redwing-hq/redwing/pkg/cli"
	"redwing-hq/redwing/pkg/session"
	"redwing-hq/redwing/pkg/telemetry/metrics"
)

var sessionsFlags struct {
	schedule bool
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage the session store",
	Long: `Inspect and maintain the session database.

Subcommands:
  prune - remove sessions idle longer than the configured TTL`,
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale sessions",
	Long: `Remove sessions idle longer than the configured TTL.

By default one prune pass runs and the command exits. With --schedule
the command keeps running and prunes on the configured cron schedule
until interrupted.

Examples:
  # One-shot prune
  redwing sessions prune

  # Keep pruning per sessions.prune_schedule
  redwing sessions prune --schedule`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Sessions.TTL <= 0 {
			return fmt.Errorf("sessions.ttl is not set, nothing would ever be pruned")
		}

		opts := []session.Option{session.WithLogger(logger)}
		if cfg.Metrics.Enabled {
			opts = append(opts, session.WithMetrics(
				metrics.NewSession(prometheus.DefaultRegisterer)))
		}
		storeCfg := session.DefaultConfig()
		storeCfg.Path = cfg.Sessions.Path
		storeCfg.TTL = cfg.Sessions.TTL
		storeCfg.PruneSchedule = cfg.Sessions.PruneSchedule
		store, err := session.NewStore(storeCfg, opts...)
		if err != nil {
			return err
		}
		defer store.Close()

		if !sessionsFlags.schedule {
			pruned, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d session(s)\n", pruned)
			return nil
		}

		ctx := cli.SetupSignalHandler()
		scheduler := session.NewScheduler(store)
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		if !scheduler.IsRunning() {
			return fmt.Errorf("sessions.prune_schedule is not configured")
		}
		<-ctx.Done()
		scheduler.Stop()
		return nil
	},
}

func init() {
	sessionsPruneCmd.Flags().BoolVar(&sessionsFlags.schedule, "schedule", false,
		"keep running and prune on the configured cron schedule")
	sessionsCmd.AddCommand(sessionsPruneCmd)
	rootCmd.AddCommand(sessionsCmd)
}
