package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethpandaops/psi-sampler/internal/actions"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/spf13/cobra"
)

var (
	runSamples       int
	runPages         []string
	runURL           string
	runLabel         string
	runConcurrency   int
	runSummaryFormat string
	runNoHTML        bool
	runNoHistory     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample pages and write a report for each",
	Long: `Runs PageSpeed Insights against each selected page the requested number of
times (1-10). Field-data categories are merged (the worst observed wins) and lab
metrics are averaged. Each page gets a terminal table and an HTML report.

Pages come from the pages file (PSI_PAGES_FILE, default pages.yaml) or the built-in
set when that file is absent. Use --url to test a single page instead.

Example:
  psi-sampler run --samples 5
  psi-sampler run --page auto --page life --samples 3 --summary json
  psi-sampler run --url https://www.example.com/ --label home --samples 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = actions.Run(ctx, Logger, cfg, actions.RunOptions{
			Labels:        runPages,
			URL:           runURL,
			Label:         runLabel,
			SampleCount:   runSamples,
			Concurrency:   runConcurrency,
			SummaryFormat: runSummaryFormat,
			NoHTML:        runNoHTML,
			NoHistory:     runNoHistory,
			Out:           cmd.OutOrStdout(),
		})

		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runSamples, "samples", "n", 3, "Number of times to sample each page (1-10)")
	runCmd.Flags().StringSliceVarP(&runPages, "page", "p", nil, "Page label from the pages file (repeatable, default all)")
	runCmd.Flags().StringVar(&runURL, "url", "", "Test a single URL instead of the pages file")
	runCmd.Flags().StringVar(&runLabel, "label", "", "Label for --url (default: the URL host)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", actions.DefaultConcurrency, "Number of pages sampled in parallel")
	runCmd.Flags().StringVar(&runSummaryFormat, "summary", "", "Also write a summary file (json or yaml)")
	runCmd.Flags().BoolVar(&runNoHTML, "no-html", false, "Skip writing HTML reports")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording results in ClickHouse")

	runCmd.MarkFlagsMutuallyExclusive("url", "page")
}
