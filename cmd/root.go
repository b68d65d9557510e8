package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	envFile string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "psi-sampler",
		Short: "PSI Sampler - repeated PageSpeed Insights measurements",
		Long: `PSI Sampler runs PageSpeed Insights against one or more pages several times,
merges the field-data categories, averages the lab metrics and writes a report per page.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
				}
				// Re-read LOG_LEVEL from the selected file
				InitLogger()
			}

			applyVerbose(Logger, verbose)

			return nil
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()

	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Environment file to load instead of .env")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// InitLogger (re)creates the shared logger with the level from LOG_LEVEL.
func InitLogger() {
	Logger = newLogger(os.Getenv("LOG_LEVEL"))
}
