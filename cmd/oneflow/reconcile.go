package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/oneflow/internal/core/services"
	"github.com/SscSPs/oneflow/internal/platform/config"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <project-id>...",
	Short: "Rebuild project totals from their ledger entries",
	Long: `Recompute a project's revenue and cost totals from the ledger entries
recorded for every rollup, and overwrite the stored totals with the result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().String("actor", "system", "User id recorded as the last updater")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	actor, _ := cmd.Flags().GetString("actor")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	repos, cleanup, err := openRepositories(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	serviceContainer, err := services.NewServiceContainer(cfg, repos)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	for _, projectID := range args {
		project, err := serviceContainer.Ledger.ReconcileProject(cmd.Context(), projectID, actor)
		if err != nil {
			return fmt.Errorf("reconcile %s: %w", projectID, err)
		}
		logger.Info("Project reconciled",
			slog.String("project_id", project.ProjectID),
			slog.String("total_revenue", project.TotalRevenue.String()),
			slog.String("total_cost", project.TotalCost.String()))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\trevenue=%s\tcost=%s\tprofit=%s\n",
			project.ProjectID, project.TotalRevenue, project.TotalCost, project.Profit())
	}
	return nil
}
