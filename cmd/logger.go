package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// newLogger creates a logger at the named level. An empty level means info;
// an invalid one falls back to info with a warning.
func newLogger(logLevel string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use the logger here since it isn't set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	return log
}

// applyVerbose forces debug output when the verbose flag is set.
func applyVerbose(log *logrus.Logger, verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}
