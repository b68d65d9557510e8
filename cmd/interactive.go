// Package cmd contains CLI command definitions
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ethpandaops/psi-sampler/internal/actions"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/ethpandaops/psi-sampler/pkg/interactive"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive TUI mode",
	Long:  `Launches the interactive Terminal User Interface for PSI Sampler.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive shows the main menu until the user exits.
func RunInteractive() {
	fmt.Println("PSI Sampler - Interactive Mode")
	fmt.Println("==============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "🚀 Test Pages",
				Description: "Sample pages from the configured page set",
				Action:      withPause(testPagesInteractive),
			},
			{
				Name:        "🔗 Test a URL",
				Description: "Sample a single page by URL",
				Action:      withPause(testURLInteractive),
			},
			{
				Name:        "📄 List Pages",
				Description: "Show the configured page set",
				Action: withPause(func() error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					return actions.ListPages(Logger, cfg, os.Stdout)
				}),
			},
			{
				Name:        "📋 Show Config",
				Description: "Display current environment configuration",
				Action: withPause(func() error {
					return actions.ShowConfig(os.Stdout)
				}),
			},
			{
				Name:        "🗄️  Migrate History",
				Description: "Setup the ClickHouse history store (safe to run multiple times)",
				Action:      withPause(migrateHistoryInteractive),
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func testPagesInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pages, err := config.LoadPages(cfg.PagesFile)
	if err != nil {
		return err
	}

	labels, err := interactive.SelectPages(pages)
	if err != nil {
		return err
	}

	samples, err := interactive.AskSampleCount()
	if err != nil {
		return err
	}

	return runInteractive(cfg, actions.RunOptions{Labels: labels, SampleCount: samples})
}

func testURLInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	url, err := interactive.AskURL()
	if err != nil {
		return err
	}

	label, err := interactive.AskLabel("page")
	if err != nil {
		return err
	}

	samples, err := interactive.AskSampleCount()
	if err != nil {
		return err
	}

	return runInteractive(cfg, actions.RunOptions{URL: url, Label: label, SampleCount: samples})
}

func runInteractive(cfg *config.Config, opts actions.RunOptions) error {
	opts.Out = os.Stdout

	_, err := actions.Run(context.Background(), Logger, cfg, opts)

	return err
}

func migrateHistoryInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Show the target first so the user knows what they are confirming
	if err := actions.DescribeHistory(cfg, os.Stdout); err != nil {
		return err
	}

	if !interactive.Confirm("Do you want to proceed with the migration?") {
		fmt.Println("Migration canceled.")
		return nil
	}

	return actions.MigrateHistory(context.Background(), Logger, cfg, os.Stdout)
}

// withPause reports an action's error and waits for Enter before returning
// to the menu.
func withPause(action func() error) func() error {
	return func() error {
		if err := action(); err != nil {
			fmt.Printf("\n❌ Error: %v\n", err)
		}
		interactive.PauseForEnter()
		return nil
	}
}
