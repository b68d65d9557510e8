package cmd

import (
	"context"
	"fmt"

	"github.com/ethpandaops/psi-sampler/internal/actions"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the ClickHouse run history store",
	Long: `Run history is optional. When CLICKHOUSE_URL (or CLICKHOUSE_HOST) is set, every
finalized page result is stored in the page_samples table.`,
}

var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the history database and apply schema migrations",
	Long:  `Creates the database if it doesn't exist and applies pending migrations. Safe to run multiple times.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := actions.DescribeHistory(cfg, cmd.OutOrStdout()); err != nil {
			return err
		}

		return actions.MigrateHistory(context.Background(), Logger, cfg, cmd.OutOrStdout())
	},
}

var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the history schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return actions.HistoryStatus(Logger, cfg, cmd.OutOrStdout())
	},
}

func init() {
	historyCmd.AddCommand(historyMigrateCmd)
	historyCmd.AddCommand(historyStatusCmd)
	rootCmd.AddCommand(historyCmd)
}
