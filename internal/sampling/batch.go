package sampling

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// PageOutcome is the result of sampling one target in a batch. Exactly one
// of Result and Err is set.
type PageOutcome struct {
	Target   PageTarget
	Result   *AggregateResult
	Err      error
	Duration time.Duration
}

// RunBatch collects every target independently. Up to concurrency pages are
// sampled at once, each with its own sequential collector run; a failing
// page never cancels the others. Outcomes are returned in target order.
func RunBatch(
	ctx context.Context,
	c Collector,
	targets []PageTarget,
	sampleCount int,
	concurrency int,
) ([]PageOutcome, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no page targets to measure", ErrConfiguration)
	}

	if err := ValidateSampleCount(sampleCount); err != nil {
		return nil, err
	}

	if concurrency < 1 {
		concurrency = 1
	}

	outcomes := make([]PageOutcome, len(targets))

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			result, err := c.Collect(ctx, target, sampleCount)

			// Each goroutine owns its slot; errors stay per page.
			outcomes[i] = PageOutcome{
				Target:   target,
				Result:   result,
				Err:      err,
				Duration: time.Since(start),
			}

			return nil
		})
	}

	_ = g.Wait()

	return outcomes, nil
}
