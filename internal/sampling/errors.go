package sampling

import (
	"errors"
	"fmt"
)

// Sample count bounds, inclusive.
const (
	MinSampleCount = 1
	MaxSampleCount = 10
)

var (
	// ErrInvalidSampleCount is returned when the requested sample count is
	// outside MinSampleCount..MaxSampleCount.
	ErrInvalidSampleCount = errors.New("invalid sample count")
	// ErrConfiguration covers missing API keys, empty target sets and other
	// invalid setup detected before sampling starts.
	ErrConfiguration = errors.New("configuration error")
)

// ValidateSampleCount rejects counts outside the supported range.
func ValidateSampleCount(n int) error {
	if n < MinSampleCount || n > MaxSampleCount {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidSampleCount, n, MinSampleCount, MaxSampleCount)
	}

	return nil
}

// TransportError reports a measurement call that did not complete.
// SampleIndex is zero-based.
type TransportError struct {
	Target      string
	SampleIndex int
	Err         error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("page %q sample %d: transport failure: %v", e.Target, e.SampleIndex, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response that parsed but lacked an
// expected field. Sources return it with only Field set; the collector fills
// in Target and SampleIndex.
type MalformedResponseError struct {
	Target      string
	SampleIndex int
	Field       string
	Err         error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("malformed response: field %s", e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	if e.Target == "" {
		return msg
	}

	return fmt.Sprintf("page %q sample %d: %s", e.Target, e.SampleIndex, msg)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
