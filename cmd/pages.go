package cmd

import (
	"fmt"

	"github.com/ethpandaops/psi-sampler/internal/actions"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List the configured page set",
	Long:  `Lists the pages from PSI_PAGES_FILE, or the built-in set when that file is absent.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return actions.ListPages(Logger, cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
