// Package report turns finalized page aggregates into display documents,
// summary records and files on disk.
package report

import (
	"github.com/ethpandaops/psi-sampler/internal/format"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
)

// MillisecondsUnit is the unit label for every numeric metric.
const MillisecondsUnit = "ms"

// CategoryLine is one merged categorical metric.
type CategoryLine struct {
	Metric   sampling.MetricName
	Name     string
	Category sampling.Category
}

// NumericLine is one averaged numeric metric.
type NumericLine struct {
	Metric  sampling.MetricName
	Name    string
	Total   float64
	Average float64
	Unit    string
}

// Display renders the average with two decimals and the unit.
func (l NumericLine) Display() string {
	return format.Measurement(l.Average, l.Unit)
}

// Report is the display-ready form of one page's aggregate.
type Report struct {
	Label       string
	URL         string
	PageID      string
	Categories  []CategoryLine
	Numerics    []NumericLine
	SampleCount int
}

// Summary is the serializable record persisted per page.
type Summary struct {
	Page     string             `json:"page" yaml:"page"`
	Totals   map[string]float64 `json:"totals" yaml:"totals"`
	Averages map[string]string  `json:"averages" yaml:"averages"`
}

// Assemble builds the display document for result. Averages are computed
// here, once, from the final totals.
func Assemble(result *sampling.AggregateResult) *Report {
	report := &Report{
		Label:       result.Target.Label,
		URL:         result.Target.URL,
		PageID:      result.PageID,
		SampleCount: result.SampleCount,
	}

	if report.PageID == "" {
		report.PageID = result.Target.URL
	}

	for _, name := range result.CategoryNames() {
		report.Categories = append(report.Categories, CategoryLine{
			Metric:   name,
			Name:     name.DisplayName(),
			Category: result.Category(name),
		})
	}

	for _, name := range result.NumericNames() {
		avg, ok := result.Average(name)
		if !ok {
			continue
		}

		report.Numerics = append(report.Numerics, NumericLine{
			Metric:  name,
			Name:    name.DisplayName(),
			Total:   result.Totals[name].Sum,
			Average: avg,
			Unit:    MillisecondsUnit,
		})
	}

	return report
}

// Summarize builds the summary record for result, keyed by metric display name.
func Summarize(result *sampling.AggregateResult) *Summary {
	report := Assemble(result)

	summary := &Summary{
		Page:     report.Label,
		Totals:   make(map[string]float64, len(report.Numerics)),
		Averages: make(map[string]string, len(report.Numerics)),
	}

	for _, line := range report.Numerics {
		summary.Totals[line.Name] = line.Total
		summary.Averages[line.Name] = line.Display()
	}

	return summary
}
