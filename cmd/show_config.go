package cmd

import (
	"fmt"

	"github.com/ethpandaops/psi-sampler/internal/actions"
	"github.com/spf13/cobra"
)

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current environment configuration",
	Long:  `Shows the current configuration loaded from environment variables and .env file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := actions.ShowConfig(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
