package sampling

// RunningTotal is the accumulated sum and sample count for one metric.
type RunningTotal struct {
	Sum   float64
	Count int
}

// Average returns Sum/Count. ok is false when nothing was added.
func (t RunningTotal) Average() (avg float64, ok bool) {
	if t.Count == 0 {
		return 0, false
	}

	return t.Sum / float64(t.Count), true
}

// RunningAggregate accumulates numeric metric values for a single page.
// Each page owns its own instance; it is not safe for concurrent use.
type RunningAggregate struct {
	totals map[MetricName]RunningTotal
}

// NewRunningAggregate returns an aggregate with every total at zero.
func NewRunningAggregate() *RunningAggregate {
	return &RunningAggregate{
		totals: make(map[MetricName]RunningTotal),
	}
}

// Add folds value into the total for name. Negative values are accepted
// as-is.
func (a *RunningAggregate) Add(name MetricName, value float64) {
	t := a.totals[name]
	t.Sum += value
	t.Count++
	a.totals[name] = t
}

// Total returns the running total for name.
func (a *RunningAggregate) Total(name MetricName) RunningTotal {
	return a.totals[name]
}

// Average returns the mean of the values added for name. ok is false when
// no value has been added.
func (a *RunningAggregate) Average(name MetricName) (avg float64, ok bool) {
	return a.totals[name].Average()
}

// Snapshot returns a copy of every running total.
func (a *RunningAggregate) Snapshot() map[MetricName]RunningTotal {
	out := make(map[MetricName]RunningTotal, len(a.totals))
	for name, t := range a.totals {
		out[name] = t
	}

	return out
}
