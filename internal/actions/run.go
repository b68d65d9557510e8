// Package actions contains the core business logic for psi-sampler operations
package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethpandaops/psi-sampler/internal/clickhouse"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/ethpandaops/psi-sampler/internal/history"
	"github.com/ethpandaops/psi-sampler/internal/pagespeed"
	"github.com/ethpandaops/psi-sampler/internal/report"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/sirupsen/logrus"
)

// DefaultConcurrency is the number of pages sampled at once.
const DefaultConcurrency = 1

// ErrPagesFailed is returned when at least one page could not be sampled.
var ErrPagesFailed = errors.New("one or more pages failed")

// RunOptions selects what a run measures and which artifacts it writes.
type RunOptions struct {
	// Labels narrows the configured page set. Empty means every page.
	Labels []string
	// URL measures a single ad-hoc page instead of the page set.
	URL string
	// Label names the ad-hoc page. Defaults to the URL host.
	Label       string
	SampleCount int
	Concurrency int
	// SummaryFormat writes a json or yaml summary next to each report when set.
	SummaryFormat string
	NoHTML        bool
	NoHistory     bool
	Out           io.Writer
}

// RunResult describes what a run produced.
type RunResult struct {
	RunAt    time.Time
	Outcomes []sampling.PageOutcome
	Files    []string
	// HistoryRows is the number of rows written to ClickHouse.
	HistoryRows int
}

// Run samples every selected page, renders each finalized result and writes
// the report files. Pages are independent: a failed page is reported and the
// rest still complete.
func Run(ctx context.Context, log logrus.FieldLogger, cfg *config.Config, opts RunOptions) (*RunResult, error) {
	if err := sampling.ValidateSampleCount(opts.SampleCount); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var summaryFormat report.SummaryFormat
	if opts.SummaryFormat != "" {
		f, err := report.ParseSummaryFormat(opts.SummaryFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sampling.ErrConfiguration, err)
		}
		summaryFormat = f
	}

	targets, err := ResolveTargets(cfg, opts)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	client, err := pagespeed.NewClient(log, cfg.PageSpeed())
	if err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	collector := sampling.NewCollector(log, client)
	stats := report.NewStatsCollector(log)
	renderer := report.NewTerminalRenderer(log)

	result := &RunResult{RunAt: time.Now()}
	writer := report.NewWriter(log, cfg.ReportsDir, result.RunAt)

	for _, target := range targets {
		fmt.Fprintf(out, "Okay, testing the %s page using url: %s %d times\n",
			strings.ToUpper(target.Label), target.URL, opts.SampleCount)
	}

	stats.Start()

	outcomes, err := sampling.RunBatch(ctx, collector, targets, opts.SampleCount, concurrency)
	if err != nil {
		return nil, err
	}

	result.Outcomes = outcomes

	var (
		pageErrs  []error
		finalized []*sampling.AggregateResult
	)

	for _, outcome := range outcomes {
		stat := report.PageStat{
			Label:    outcome.Target.Label,
			URL:      outcome.Target.URL,
			Duration: outcome.Duration,
			Err:      outcome.Err,
		}

		if outcome.Err != nil {
			log.WithError(outcome.Err).WithField("page", outcome.Target.Label).Error("Page sampling failed")
			pageErrs = append(pageErrs, outcome.Err)
			stats.RecordPage(stat)

			continue
		}

		stat.Samples = outcome.Result.SampleCount
		finalized = append(finalized, outcome.Result)

		files, writeErr := emit(out, renderer, writer, outcome.Result, !opts.NoHTML, summaryFormat)
		result.Files = append(result.Files, files...)

		if writeErr != nil {
			stat.Err = writeErr
			pageErrs = append(pageErrs, fmt.Errorf("page %q: %w", outcome.Target.Label, writeErr))
		}

		stats.RecordPage(stat)
	}

	if cfg.HistoryEnabled() && !opts.NoHistory && len(finalized) > 0 {
		rows, histErr := recordHistory(ctx, log, cfg.ClickHouseURL, result.RunAt, finalized)
		if histErr != nil {
			log.WithError(histErr).Warn("Failed to record run history")
		}
		result.HistoryRows = rows
	}

	renderer.RenderSummary(out, stats.Pages(), stats.Summary())

	for _, path := range result.Files {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	if len(pageErrs) > 0 {
		return result, fmt.Errorf("%w: %w", ErrPagesFailed, errors.Join(pageErrs...))
	}

	return result, nil
}

// ResolveTargets returns the ad-hoc target when a URL is given, otherwise
// the configured page set narrowed to the requested labels.
func ResolveTargets(cfg *config.Config, opts RunOptions) ([]sampling.PageTarget, error) {
	if opts.URL != "" {
		label := opts.Label
		if label == "" {
			label = defaultLabel(opts.URL)
		}

		target, err := config.NewAdHocTarget(opts.URL, label)
		if err != nil {
			return nil, err
		}

		return []sampling.PageTarget{target}, nil
	}

	pages, err := config.LoadPages(cfg.PagesFile)
	if err != nil {
		return nil, err
	}

	return config.SelectPages(pages, opts.Labels)
}

func emit(
	out io.Writer,
	renderer *report.TerminalRenderer,
	writer *report.Writer,
	result *sampling.AggregateResult,
	writeHTML bool,
	summaryFormat report.SummaryFormat,
) ([]string, error) {
	rep := report.Assemble(result)
	renderer.Render(out, rep)

	var files []string

	if writeHTML {
		path, err := writer.WriteHTML(rep)
		if err != nil {
			return files, fmt.Errorf("writing html report: %w", err)
		}
		files = append(files, path)
	}

	if summaryFormat != "" {
		path, err := writer.WriteSummary(report.Summarize(result), summaryFormat)
		if err != nil {
			return files, fmt.Errorf("writing summary: %w", err)
		}
		files = append(files, path)
	}

	return files, nil
}

func recordHistory(
	ctx context.Context,
	log logrus.FieldLogger,
	rawURL string,
	runAt time.Time,
	results []*sampling.AggregateResult,
) (int, error) {
	conn, err := clickhouse.Connect(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	store := history.NewStore(log, conn)
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close history store")
		}
	}()

	return store.Record(ctx, runAt, results)
}

func defaultLabel(rawURL string) string {
	label := rawURL
	if i := strings.Index(label, "://"); i >= 0 {
		label = label[i+3:]
	}

	if i := strings.IndexAny(label, "/?#"); i >= 0 {
		label = label[:i]
	}

	if label == "" {
		return "page"
	}

	return label
}
