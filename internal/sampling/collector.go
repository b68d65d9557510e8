package sampling

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Source performs one measurement of a page URL.
type Source interface {
	Measure(ctx context.Context, url string) (*MetricSample, error)
}

// Collector takes repeated samples of a page and folds them into an
// AggregateResult.
type Collector interface {
	Collect(ctx context.Context, target PageTarget, sampleCount int) (*AggregateResult, error)
}

// collector implements Collector
type collector struct {
	log    logrus.FieldLogger
	source Source
}

// NewCollector creates a collector that samples pages through source.
func NewCollector(log logrus.FieldLogger, source Source) Collector {
	return &collector{
		log:    log.WithField("component", "sample_collector"),
		source: source,
	}
}

// Collect requests sampleCount samples of target one after another, folding
// each into fresh per-page accumulators before the next request is issued.
// The first failing sample aborts the page; no partial result is returned.
func (c *collector) Collect(ctx context.Context, target PageTarget, sampleCount int) (*AggregateResult, error) {
	if err := ValidateSampleCount(sampleCount); err != nil {
		return nil, err
	}

	var (
		log        = c.log.WithField("page", target.Label)
		categories = NewCategoryState()
		aggregate  = NewRunningAggregate()
		pageID     string
		reference  *MetricSample
	)

	for i := 0; i < sampleCount; i++ {
		log.WithFields(logrus.Fields{
			"sample": i + 1,
			"of":     sampleCount,
		}).Debug("Requesting sample")

		sample, err := c.source.Measure(ctx, target.URL)
		if err != nil {
			return nil, attribute(err, target.Label, i)
		}

		if sample == nil {
			return nil, &MalformedResponseError{Target: target.Label, SampleIndex: i, Field: "(empty response)"}
		}

		if reference == nil {
			reference = sample
		} else if missing, ok := missingMetric(reference, sample); ok {
			return nil, &MalformedResponseError{Target: target.Label, SampleIndex: i, Field: string(missing)}
		}

		for name, category := range sample.Categories {
			categories.Observe(name, category)
		}

		for name, value := range sample.Numerics {
			aggregate.Add(name, value)
		}

		if sample.PageID != "" {
			pageID = sample.PageID
		}
	}

	log.WithField("samples", sampleCount).Info("Page sampling complete")

	return &AggregateResult{
		Target:      target,
		PageID:      pageID,
		Categories:  categories.Snapshot(),
		Totals:      aggregate.Snapshot(),
		SampleCount: sampleCount,
	}, nil
}

// attribute tags a source error with the page and sample it belongs to.
func attribute(err error, label string, index int) error {
	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return &MalformedResponseError{
			Target:      label,
			SampleIndex: index,
			Field:       malformed.Field,
			Err:         malformed.Err,
		}
	}

	return &TransportError{Target: label, SampleIndex: index, Err: err}
}

// missingMetric reports a metric present in one sample but not the other, so
// every total in a page keeps the same count.
func missingMetric(reference, sample *MetricSample) (MetricName, bool) {
	if name, ok := firstMissing(reference.Categories, sample.Categories); ok {
		return name, true
	}

	if name, ok := firstMissing(sample.Categories, reference.Categories); ok {
		return name, true
	}

	if name, ok := firstMissing(reference.Numerics, sample.Numerics); ok {
		return name, true
	}

	return firstMissing(sample.Numerics, reference.Numerics)
}

// firstMissing walks want in display order, then by name, so the reported
// metric is stable across runs.
func firstMissing[A, B any](want map[MetricName]A, have map[MetricName]B) (MetricName, bool) {
	for _, name := range orderedNames(displayOrder, keys(want)) {
		if _, ok := have[name]; !ok {
			return name, true
		}
	}

	return "", false
}

// String renders the target the way progress messages refer to it.
func (t PageTarget) String() string {
	return fmt.Sprintf("%s (%s)", t.Label, t.URL)
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
