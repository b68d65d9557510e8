package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ethpandaops/psi-sampler/internal/format"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// TerminalRenderer prints reports and run summaries as tables.
type TerminalRenderer struct {
	log    logrus.FieldLogger
	colors *ColorHelper
}

// NewTerminalRenderer creates a new terminal renderer.
func NewTerminalRenderer(log logrus.FieldLogger) *TerminalRenderer {
	return &TerminalRenderer{
		log:    log.WithField("component", "report.terminal_renderer"),
		colors: NewColorHelper(),
	}
}

// RenderOption configures table rendering
type RenderOption func(*tablewriter.Table)

// WithBorder controls border visibility
func WithBorder(show bool) RenderOption {
	return func(t *tablewriter.Table) {
		t.SetBorder(show)
	}
}

// Render writes one page report.
func (r *TerminalRenderer) Render(w io.Writer, report *Report) {
	r.log.WithField("page", report.Label).Debug("Rendering report")

	fmt.Fprintf(w, "\n%s\n", r.colors.Header("▸ "+strings.ToUpper(report.Label)))
	fmt.Fprintf(w, "Page tested: %s\n\n", report.PageID)

	rows := make([][]string, 0, len(report.Categories)+len(report.Numerics))
	for _, line := range report.Categories {
		rows = append(rows, []string{"Field (CrUX)", line.Name, r.colors.FormatCategory(line.Category)})
	}

	for _, line := range report.Numerics {
		rows = append(rows, []string{"Lab (Lighthouse)", line.Name, line.Display()})
	}

	r.renderTable(w, []string{"Source", "Metric", "Result"}, rows)
	fmt.Fprintf(w, "%s\n", r.colors.Muted(fmt.Sprintf("This was run %d times", report.SampleCount)))
}

// RenderSummary writes the per-page outcome table followed by the run totals.
func (r *TerminalRenderer) RenderSummary(w io.Writer, pages []PageStat, summary RunSummary) {
	rows := make([][]string, 0, len(pages))

	for _, page := range pages {
		details := fmt.Sprintf("%d samples", page.Samples)
		if page.Err != nil {
			details = r.colors.Muted(truncate(page.Err.Error(), 80))
		}

		rows = append(rows, []string{
			page.Label,
			r.colors.FormatStatus(page.Err == nil),
			format.Duration(page.Duration),
			details,
		})
	}

	fmt.Fprintf(w, "\n%s\n\n", r.colors.Header("▸ Pages"))
	r.renderTable(w, []string{"Page", "Status", "Duration", "Details"}, rows)

	failed := fmt.Sprintf("%d", summary.Failed)
	if summary.Failed > 0 {
		failed = r.colors.Failure(failed)
	} else {
		failed = r.colors.Success(failed)
	}

	totals := [][]string{
		{"Pages", r.colors.Bold(fmt.Sprintf("%d", summary.Pages))},
		{"Succeeded", fmt.Sprintf("%d", summary.Succeeded)},
		{"Failed", failed},
		{"Samples Taken", fmt.Sprintf("%d", summary.Samples)},
		{"Total Duration", format.Duration(summary.TotalDuration)},
	}

	fmt.Fprintf(w, "\n%s\n\n", r.colors.Header("▸ Summary"))
	r.renderTable(w, []string{"Metric", "Value"}, totals)
}

// RenderToString renders a table into a string.
func (r *TerminalRenderer) RenderToString(headers []string, rows [][]string, opts ...RenderOption) string {
	buf := &bytes.Buffer{}
	r.renderTable(buf, headers, rows, opts...)
	return buf.String()
}

func (r *TerminalRenderer) renderTable(w io.Writer, headers []string, rows [][]string, opts ...RenderOption) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)

	// Apply default styling
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")
	table.SetNoWhiteSpace(false)

	for _, opt := range opts {
		opt(table)
	}

	table.AppendBulk(rows)
	table.Render()
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	if limit <= 3 {
		return string(runes[:limit])
	}

	return string(runes[:limit-3]) + "..."
}
