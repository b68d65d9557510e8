// Package sampling implements the repeated-measurement aggregation engine:
// sequential sampling per page, worst-seen category merging and running sums.
package sampling

import (
	"fmt"
	"strings"
)

// Category is an ordinal real-user experience bucket. The zero value is
// CategoryUnset, meaning no sample has been folded in yet.
type Category int

const (
	// CategoryUnset is the identity for Merge.
	CategoryUnset Category = iota
	// CategoryFast is the best bucket.
	CategoryFast
	// CategoryAverage sits between fast and slow.
	CategoryAverage
	// CategorySlow is the worst bucket.
	CategorySlow
)

// String returns the label used by the measurement API.
func (c Category) String() string {
	switch c {
	case CategoryFast:
		return "FAST"
	case CategoryAverage:
		return "AVERAGE"
	case CategorySlow:
		return "SLOW"
	default:
		return "UNSET"
	}
}

// ParseCategory converts an API label (case-insensitive) into a Category.
func ParseCategory(label string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "FAST":
		return CategoryFast, nil
	case "AVERAGE":
		return CategoryAverage, nil
	case "SLOW":
		return CategorySlow, nil
	default:
		return CategoryUnset, fmt.Errorf("unknown category %q", label)
	}
}

// Merge folds an incoming category into the current one, keeping the worst
// seen. Unset is the identity, so Merge(CategoryUnset, c) == c.
func Merge(current, incoming Category) Category {
	if incoming > current {
		return incoming
	}

	return current
}

// CategoryState holds the merged category per metric. Metrics merge
// independently of each other.
type CategoryState struct {
	merged map[MetricName]Category
}

// NewCategoryState returns an empty state where every metric is unset.
func NewCategoryState() *CategoryState {
	return &CategoryState{
		merged: make(map[MetricName]Category),
	}
}

// Observe merges an incoming category for name.
func (s *CategoryState) Observe(name MetricName, incoming Category) {
	s.merged[name] = Merge(s.merged[name], incoming)
}

// Get returns the merged category for name, CategoryUnset if never observed.
func (s *CategoryState) Get(name MetricName) Category {
	return s.merged[name]
}

// Snapshot returns a copy of the merged categories.
func (s *CategoryState) Snapshot() map[MetricName]Category {
	out := make(map[MetricName]Category, len(s.merged))
	for name, c := range s.merged {
		out[name] = c
	}

	return out
}
