package pagespeed

import (
	"fmt"

	"github.com/ethpandaops/psi-sampler/internal/sampling"
)

// wireResponse is the subset of a runPagespeed response the sampler reads.
type wireResponse struct {
	ID                string                 `json:"id"`
	LoadingExperience *wireLoadingExperience `json:"loadingExperience"`
	LighthouseResult  *wireLighthouseResult  `json:"lighthouseResult"`
}

// wireLoadingExperience holds field data from real users.
type wireLoadingExperience struct {
	Metrics map[string]wireCruxMetric `json:"metrics"`
}

type wireCruxMetric struct {
	Percentile *float64 `json:"percentile"`
	Category   string   `json:"category"`
}

// wireLighthouseResult holds the lab run.
type wireLighthouseResult struct {
	Audits map[string]wireAudit `json:"audits"`
}

type wireAudit struct {
	ID           string   `json:"id"`
	NumericValue *float64 `json:"numericValue"`
}

// wireError is the body returned with non-2xx responses.
type wireError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// toSample extracts every metric in metrics. A missing field yields a
// MalformedResponseError naming its path.
func (r *wireResponse) toSample(metrics MetricSet) (*sampling.MetricSample, error) {
	sample := &sampling.MetricSample{
		PageID:     r.ID,
		Categories: make(map[sampling.MetricName]sampling.Category, len(metrics.Categories)),
		Numerics:   make(map[sampling.MetricName]float64, len(metrics.Numerics)),
	}

	for _, name := range metrics.Categories {
		field := fmt.Sprintf("loadingExperience.metrics.%s.category", name)

		if r.LoadingExperience == nil {
			return nil, &sampling.MalformedResponseError{Field: field}
		}

		metric, ok := r.LoadingExperience.Metrics[string(name)]
		if !ok || metric.Category == "" {
			return nil, &sampling.MalformedResponseError{Field: field}
		}

		category, err := sampling.ParseCategory(metric.Category)
		if err != nil {
			return nil, &sampling.MalformedResponseError{Field: field, Err: err}
		}

		sample.Categories[name] = category
	}

	for _, name := range metrics.Numerics {
		field := fmt.Sprintf("lighthouseResult.audits.%s.numericValue", name)

		if r.LighthouseResult == nil {
			return nil, &sampling.MalformedResponseError{Field: field}
		}

		audit, ok := r.LighthouseResult.Audits[string(name)]
		if !ok || audit.NumericValue == nil {
			return nil, &sampling.MalformedResponseError{Field: field}
		}

		sample.Numerics[name] = *audit.NumericValue
	}

	return sample, nil
}
