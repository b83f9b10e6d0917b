package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"redwing-hq/redwing/pkg/config"
	"redwing-hq/redwing/pkg/migrate"
)

var migrateFlags struct {
	dryRun bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply the .sql files in the configured migrations directory that
have not run yet, in filename order. Each file runs in its own
transaction and is recorded in the schema_migrations table.

Examples:
  # Apply everything pending
  redwing migrate

  # List what would run without touching the database
  redwing migrate --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		runner := migrate.NewRunner(db, cfg.Migrations.Dir, logger)
		if migrateFlags.dryRun {
			pending, err := runner.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("nothing to apply")
				return nil
			}
			for _, name := range pending {
				fmt.Println(name)
			}
			return nil
		}

		n, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("applied %d migration(s)\n", n)
		return nil
	},
}

// openDatabase opens the primary database described by cfg.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", cfg.Database.Path, err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if cfg.Database.BusyTimeout > 0 {
		stmt := fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.Database.BusyTimeout.Milliseconds())
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}
	return db, nil
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlags.dryRun, "dry-run", false,
		"list pending migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}
