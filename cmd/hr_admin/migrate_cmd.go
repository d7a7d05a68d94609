package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/SscSPs/hr_admin_app/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate up|down",
		Short: "Apply all pending migrations, or revert the latest one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.MigrationDirection(args[0])
			if direction != database.MigrateUp && direction != database.MigrateDown {
				return fmt.Errorf("unknown direction %q, want up or down", args[0])
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			version, err := database.RunMigrations(slog.Default(), cfg.DatabaseURL, direction)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
			return nil
		},
	}
	return cmd
}
