package sampling

import "sort"

// MetricName identifies a categorical or numeric metric.
type MetricName string

// Category metrics reported by the real-user experience section of the API.
const (
	MetricCruxFirstContentfulPaint MetricName = "FIRST_CONTENTFUL_PAINT_MS"
	MetricCruxFirstInputDelay      MetricName = "FIRST_INPUT_DELAY_MS"

	MetricCruxLargestContentfulPaint MetricName = "LARGEST_CONTENTFUL_PAINT_MS"
	MetricCruxInteractionToNextPaint MetricName = "INTERACTION_TO_NEXT_PAINT"
)

// Numeric lab metrics, keyed by audit id. Values are milliseconds.
const (
	MetricFirstContentfulPaint  MetricName = "first-contentful-paint"
	MetricSpeedIndex            MetricName = "speed-index"
	MetricTimeToInteractive     MetricName = "interactive"
	MetricFirstMeaningfulPaint  MetricName = "first-meaningful-paint"
	MetricFirstCPUIdle          MetricName = "first-cpu-idle"
	MetricEstimatedInputLatency MetricName = "estimated-input-latency"

	MetricLargestContentfulPaint MetricName = "largest-contentful-paint"
	MetricTotalBlockingTime      MetricName = "total-blocking-time"
)

// CategoryMetrics lists the categorical metrics in display order.
var CategoryMetrics = []MetricName{
	MetricCruxFirstContentfulPaint,
	MetricCruxFirstInputDelay,
}

// NumericMetrics lists the numeric metrics in display order.
var NumericMetrics = []MetricName{
	MetricFirstContentfulPaint,
	MetricSpeedIndex,
	MetricTimeToInteractive,
	MetricFirstMeaningfulPaint,
	MetricFirstCPUIdle,
	MetricEstimatedInputLatency,
}

var displayOrder = append(append([]MetricName{}, CategoryMetrics...), NumericMetrics...)

var displayNames = map[MetricName]string{
	MetricCruxFirstContentfulPaint: "First Contentful Paint",
	MetricCruxFirstInputDelay:      "First Input Delay",
	MetricFirstContentfulPaint:     "First Contentful Paint",
	MetricSpeedIndex:               "Speed Index",
	MetricTimeToInteractive:        "Time To Interactive",
	MetricFirstMeaningfulPaint:     "First Meaningful Paint",
	MetricFirstCPUIdle:             "First CPU Idle",
	MetricEstimatedInputLatency:    "Estimated Input Latency",

	MetricCruxLargestContentfulPaint: "Largest Contentful Paint",
	MetricCruxInteractionToNextPaint: "Interaction To Next Paint",
	MetricLargestContentfulPaint:     "Largest Contentful Paint",
	MetricTotalBlockingTime:          "Total Blocking Time",
}

// DisplayName returns the human label for a metric, falling back to the raw
// name for metrics without one.
func (m MetricName) DisplayName() string {
	if name, ok := displayNames[m]; ok {
		return name
	}

	return string(m)
}

// MetricSample is the parsed result of one measurement call.
type MetricSample struct {
	PageID     string
	Categories map[MetricName]Category
	Numerics   map[MetricName]float64
}

// PageTarget is a page to measure. Named page sets and ad-hoc URLs both
// reduce to this shape.
type PageTarget struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// AggregateResult is the finalized state for one page after every sample
// has been folded in.
type AggregateResult struct {
	Target      PageTarget
	PageID      string
	Categories  map[MetricName]Category
	Totals      map[MetricName]RunningTotal
	SampleCount int
}

// Average returns the mean for a numeric metric. ok is false when the metric
// was never sampled.
func (r *AggregateResult) Average(name MetricName) (avg float64, ok bool) {
	return r.Totals[name].Average()
}

// Category returns the merged category for a categorical metric.
func (r *AggregateResult) Category(name MetricName) Category {
	return r.Categories[name]
}

// CategoryNames returns the categorical metric names present in the result,
// known metrics first in display order, then any others sorted.
func (r *AggregateResult) CategoryNames() []MetricName {
	return orderedNames(CategoryMetrics, keys(r.Categories))
}

// NumericNames returns the numeric metric names present in the result,
// known metrics first in display order, then any others sorted.
func (r *AggregateResult) NumericNames() []MetricName {
	return orderedNames(NumericMetrics, keys(r.Totals))
}

func keys[V any](m map[MetricName]V) map[MetricName]struct{} {
	out := make(map[MetricName]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}

	return out
}

func orderedNames(known []MetricName, present map[MetricName]struct{}) []MetricName {
	out := make([]MetricName, 0, len(present))

	for _, name := range known {
		if _, ok := present[name]; ok {
			out = append(out, name)
			delete(present, name)
		}
	}

	rest := make([]MetricName, 0, len(present))
	for name := range present {
		rest = append(rest, name)
	}

	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(out, rest...)
}
