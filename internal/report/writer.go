package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethpandaops/psi-sampler/internal/format"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SummaryFormat selects the encoding of summary files.
type SummaryFormat string

const (
	// SummaryJSON encodes summaries as indented JSON.
	SummaryJSON SummaryFormat = "json"
	// SummaryYAML encodes summaries as YAML.
	SummaryYAML SummaryFormat = "yaml"
)

// ErrUnknownSummaryFormat is returned for a format other than json or yaml.
var ErrUnknownSummaryFormat = errors.New("unknown summary format")

// ParseSummaryFormat validates a user supplied format name.
func ParseSummaryFormat(s string) (SummaryFormat, error) {
	switch SummaryFormat(strings.ToLower(s)) {
	case SummaryJSON:
		return SummaryJSON, nil
	case SummaryYAML, "yml":
		return SummaryYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSummaryFormat, s)
	}
}

// EncodeSummary writes summary to w in the given format.
func EncodeSummary(w io.Writer, summary *Summary, f SummaryFormat) error {
	switch f {
	case SummaryJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case SummaryYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSummaryFormat, f)
	}
}

// Writer stores reports under a directory as <label>-psi-<stamp>.<ext>.
// Every file written by one Writer shares the same stamp.
type Writer struct {
	log   logrus.FieldLogger
	dir   string
	stamp string
}

// NewWriter creates a writer for dir, stamping files with runAt.
func NewWriter(log logrus.FieldLogger, dir string, runAt time.Time) *Writer {
	return &Writer{
		log:   log.WithField("component", "report_writer"),
		dir:   dir,
		stamp: format.Timestamp(runAt),
	}
}

// WriteHTML renders report to an HTML file and returns its path.
func (w *Writer) WriteHTML(report *Report) (string, error) {
	return w.write(report.Label, "html", func(out io.Writer) error {
		return RenderHTML(out, report)
	})
}

// WriteSummary encodes summary to a file and returns its path.
func (w *Writer) WriteSummary(summary *Summary, f SummaryFormat) (string, error) {
	return w.write(summary.Page, string(f), func(out io.Writer) error {
		return EncodeSummary(out, summary, f)
	})
}

// Path returns the file path used for label and extension.
func (w *Writer) Path(label, ext string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-psi-%s.%s", format.FileLabel(label), w.stamp, ext))
}

func (w *Writer) write(label, ext string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	path := w.Path(label, ext)

	file, err := os.Create(path) //nolint:gosec // path is built from the reports dir and a sanitized label
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	if err := render(file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	w.log.WithField("path", path).Debug("Report written")

	return path, nil
}
