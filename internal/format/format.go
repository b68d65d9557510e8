// Package format provides shared formatting utilities for human-readable output.
package format

import (
	"fmt"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Duration formats a duration for human-readable output.
// Handles milliseconds, seconds, and minutes.
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%.1fm", d.Minutes())
}

// Measurement renders a metric value with two decimals and its unit.
func Measurement(value float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.2f", value)
	}

	return fmt.Sprintf("%.2f %s", value, unit)
}

// Timestamp returns the unix-millisecond stamp used in report file names.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%d", t.UnixMilli())
}

// FileLabel reduces a page label to characters safe in a file name. Runs of
// anything else become a single "-".
func FileLabel(label string) string {
	name := unsafeFilenameChars.ReplaceAllString(label, "-")
	if name == "" {
		return "page"
	}

	return name
}
