package sampling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunningAggregate_AverageMatchesMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "single value", values: []float64{42}, expected: 42},
		{name: "speed index scenario", values: []float64{100, 200, 300}, expected: 200},
		{name: "fractions", values: []float64{1.5, 2.5, 3.5, 4.5}, expected: 3},
		{name: "zeros", values: []float64{0, 0, 0}, expected: 0},
		{name: "negative accepted", values: []float64{-10, 10, 30}, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewRunningAggregate()
			for _, v := range tt.values {
				agg.Add(MetricSpeedIndex, v)
			}

			avg, ok := agg.Average(MetricSpeedIndex)
			require.True(t, ok)
			assert.InDelta(t, tt.expected, avg, 1e-9)
			assert.Equal(t, len(tt.values), agg.Total(MetricSpeedIndex).Count)
		})
	}
}

func TestRunningAggregate_SpeedIndexFormatsToTwoDecimals(t *testing.T) {
	agg := NewRunningAggregate()
	for _, v := range []float64{100, 200, 300} {
		agg.Add(MetricSpeedIndex, v)
	}

	avg, ok := agg.Average(MetricSpeedIndex)
	require.True(t, ok)
	assert.Equal(t, "200.00", fmt.Sprintf("%.2f", avg))
}

func TestRunningAggregate_EmptyHasNoAverage(t *testing.T) {
	agg := NewRunningAggregate()

	_, ok := agg.Average(MetricFirstCPUIdle)
	assert.False(t, ok)
	assert.Equal(t, RunningTotal{}, agg.Total(MetricFirstCPUIdle))
}

func TestRunningAggregate_InstancesDoNotShareState(t *testing.T) {
	first := NewRunningAggregate()
	second := NewRunningAggregate()

	first.Add(MetricSpeedIndex, 1000)
	second.Add(MetricSpeedIndex, 10)

	avg, ok := second.Average(MetricSpeedIndex)
	require.True(t, ok)
	assert.Equal(t, 10.0, avg)
	assert.Equal(t, 1, second.Total(MetricSpeedIndex).Count)
}

func TestRunningAggregate_SnapshotIsCopy(t *testing.T) {
	agg := NewRunningAggregate()
	agg.Add(MetricSpeedIndex, 5)

	snap := agg.Snapshot()
	agg.Add(MetricSpeedIndex, 5)

	assert.Equal(t, RunningTotal{Sum: 5, Count: 1}, snap[MetricSpeedIndex])
	assert.Equal(t, RunningTotal{Sum: 10, Count: 2}, agg.Total(MetricSpeedIndex))
}
