package main

import (
	"fmt"

	"github.com/seology-ai/eventgate/internal/core/storage/postgres"
	"github.com/seology-ai/eventgate/internal/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if cfg.Database.Type != "postgres" {
			return fmt.Errorf("migrate requires database.type postgres, got %q", cfg.Database.Type)
		}

		db, err := postgres.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.RunMigrations(db, true); err != nil {
			return err
		}

		status, err := migrations.CurrentStatus(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (dirty=%t)\n", status.Version, status.Dirty)
		return nil
	},
}
