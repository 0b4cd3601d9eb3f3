package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/oneflow/internal/adapters/database/memory"
	"github.com/SscSPs/oneflow/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/oneflow/internal/core/ports/repositories"
	"github.com/SscSPs/oneflow/internal/platform/config"
	"github.com/SscSPs/oneflow/pkg/database"
)

var rootCmd = &cobra.Command{
	Use:   "oneflow",
	Short: "OneFlow project ledger service",
	Long: `OneFlow tracks projects together with their sales orders, purchase orders,
invoices, vendor bills, expenses, tasks and timesheets, and keeps each
project's revenue and cost totals in step with the documents attached to it.

Configuration is read from the environment (and an optional .env file).`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
}

// openRepositories builds the repository set for the configured storage driver.
// The returned cleanup func must be called once the repositories are no longer used.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data will not survive a restart")
		return memory.NewStore().Repositories(), func() {}, nil
	case config.StorageDriverPostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			LockTimeout: cfg.DBLockTimeout,
			Ping:        cfg.EnableDBCheck,
		}, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil
	default:
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
