// Package pagespeed measures pages through the PageSpeed Insights v5 API.
package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultEndpoint is the public runPagespeed endpoint.
	DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	// DefaultTimeout bounds a single measurement call.
	DefaultTimeout = 90 * time.Second

	maxErrorBody = 4 << 10
)

var (
	// ErrAPIKeyNotSet is returned when no API key is configured.
	ErrAPIKeyNotSet = fmt.Errorf("%w: PageSpeed Insights API key is not set", sampling.ErrConfiguration)
	// ErrInvalidStrategy is returned for a strategy other than mobile or desktop.
	ErrInvalidStrategy = fmt.Errorf("%w: strategy must be 'mobile' or 'desktop'", sampling.ErrConfiguration)
)

// Config configures the API client.
type Config struct {
	Endpoint string
	APIKey   string
	// Strategy is forwarded when set (mobile or desktop).
	Strategy string
	// Timeout applies to each Measure call.
	Timeout time.Duration
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
	// Metrics overrides the tracked metric set. Nil uses DefaultMetrics.
	Metrics *MetricSet
}

// MetricSet names the field-data categories and lab audits read from each
// response. Every listed metric must be present or the sample is malformed.
type MetricSet struct {
	Categories []sampling.MetricName
	Numerics   []sampling.MetricName
}

// DefaultMetrics returns the built-in metric set.
func DefaultMetrics() MetricSet {
	return MetricSet{
		Categories: append([]sampling.MetricName{}, sampling.CategoryMetrics...),
		Numerics:   append([]sampling.MetricName{}, sampling.NumericMetrics...),
	}
}

// Empty reports whether the set tracks nothing.
func (m MetricSet) Empty() bool {
	return len(m.Categories) == 0 && len(m.Numerics) == 0
}

// Client calls runPagespeed once per Measure.
type Client struct {
	log        logrus.FieldLogger
	endpoint   string
	apiKey     string
	strategy   string
	timeout    time.Duration
	metrics    MetricSet
	httpClient *http.Client
}

// NewClient validates cfg and returns a client.
func NewClient(log logrus.FieldLogger, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyNotSet
	}

	switch cfg.Strategy {
	case "", "mobile", "desktop":
	default:
		return nil, ErrInvalidStrategy
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %v", sampling.ErrConfiguration, endpoint, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	metrics := DefaultMetrics()
	if cfg.Metrics != nil {
		if cfg.Metrics.Empty() {
			return nil, fmt.Errorf("%w: metric set is empty", sampling.ErrConfiguration)
		}

		metrics = *cfg.Metrics
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		log:        log.WithField("component", "pagespeed_client"),
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		strategy:   cfg.Strategy,
		timeout:    timeout,
		metrics:    metrics,
		httpClient: httpClient,
	}, nil
}

// QueryURL builds the request URL for target. The key and the URL are passed
// as query parameters.
func (c *Client) QueryURL(target string) string {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("url", target)

	if c.strategy != "" {
		params.Set("strategy", c.strategy)
	}

	return c.endpoint + "?" + params.Encode()
}

// Measure runs one analysis of target. Transport and HTTP status failures are
// returned as plain errors; a body missing an expected field is returned as
// *sampling.MalformedResponseError.
func (c *Client) Measure(ctx context.Context, target string) (*sampling.MetricSample, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(target), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timed out after %s: %w", c.timeout, err)
		}

		return nil, fmt.Errorf("requesting analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	// Read fully before decoding so a stalled or reset body stays a transport failure.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("reading response timed out after %s: %w", c.timeout, err)
		}

		return nil, fmt.Errorf("reading response: %w", err)
	}

	var body wireResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &sampling.MalformedResponseError{Field: "(body)", Err: err}
	}

	sample, err := body.toSample(c.metrics)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"url":      target,
		"duration": time.Since(start),
	}).Debug("Analysis received")

	return sample, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr wireError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

// Compile-time interface compliance check
var _ sampling.Source = (*Client)(nil)
