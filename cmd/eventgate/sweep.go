package main

import (
	"fmt"

	"github.com/seology-ai/eventgate/internal/sweeper"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired ledger records once and print how many were removed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, false, true)
		if err != nil {
			return err
		}
		defer a.Close()

		deleted, err := sweeper.New(cfg.Ledger.SweepInterval, a.gate).Sweep(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired records\n", deleted)
		return nil
	},
}
