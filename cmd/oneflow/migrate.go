package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/oneflow/internal/platform/config"
	"github.com/SscSPs/oneflow/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back database migrations",
	Long:      `Apply all pending migrations (up) or roll back the most recent one (down).`,
	Example:   "  oneflow migrate up\n  oneflow migrate down",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return fmt.Errorf("migrations require the %s storage driver, got %s", config.StorageDriverPostgres, cfg.StorageDriver)
	}

	changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrationDirection(args[0]), logger)
	if err != nil {
		return err
	}
	if !changed {
		logger.Info("No migrations to apply.")
	}
	return nil
}
