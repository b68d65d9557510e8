package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Duration
		expected string
	}{
		{name: "milliseconds", in: 250 * time.Millisecond, expected: "250ms"},
		{name: "seconds", in: 12500 * time.Millisecond, expected: "12.5s"},
		{name: "minutes", in: 90 * time.Second, expected: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Duration(tt.in))
		})
	}
}

func TestMeasurement(t *testing.T) {
	assert.Equal(t, "200.00 ms", Measurement(200, "ms"))
	assert.Equal(t, "0.33", Measurement(1.0/3.0, ""))
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "1581438721413", Timestamp(time.UnixMilli(1581438721413)))
}

func TestFileLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "auto", want: "auto"},
		{label: "a b", want: "a-b"},
		{label: "a  /\\ b", want: "a-b"},
		{label: "v1.2_beta", want: "v1.2_beta"},
		{label: "délai", want: "d-lai"},
		{label: "", want: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, FileLabel(tt.label))
		})
	}
}
