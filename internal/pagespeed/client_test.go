package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "runpagespeed.json"))
	require.NoError(t, err)

	return data
}

func newTestClient(t *testing.T, endpoint string, timeout time.Duration) *Client {
	t.Helper()

	client, err := NewClient(logrus.New(), Config{
		Endpoint: endpoint,
		APIKey:   "test-key",
		Timeout:  timeout,
	})
	require.NoError(t, err)

	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(logrus.New(), Config{APIKey: "  "})
	require.ErrorIs(t, err, ErrAPIKeyNotSet)
	assert.ErrorIs(t, err, sampling.ErrConfiguration)
}

func TestNewClient_RejectsUnknownStrategy(t *testing.T) {
	_, err := NewClient(logrus.New(), Config{APIKey: "k", Strategy: "tablet"})
	assert.ErrorIs(t, err, sampling.ErrConfiguration)
}

func TestQueryURL_EncodesParameters(t *testing.T) {
	client, err := NewClient(logrus.New(), Config{APIKey: "abc", Strategy: "mobile"})
	require.NoError(t, err)

	got := client.QueryURL("https://www.example.com/a b/?x=1&y=2")
	assert.Equal(t,
		DefaultEndpoint+"?key=abc&strategy=mobile&url=https%3A%2F%2Fwww.example.com%2Fa+b%2F%3Fx%3D1%26y%3D2",
		got,
	)
}

func TestMeasure_ParsesResponse(t *testing.T) {
	fixture := loadFixture(t)

	var gotKey, gotURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)

	sample, err := client.Measure(context.Background(), "https://www.example.com/insurance/")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "https://www.example.com/insurance/", gotURL)
	assert.Equal(t, "https://www.example.com/insurance/", sample.PageID)

	assert.Equal(t, sampling.CategoryAverage, sample.Categories[sampling.MetricCruxFirstContentfulPaint])
	assert.Equal(t, sampling.CategoryFast, sample.Categories[sampling.MetricCruxFirstInputDelay])

	expected := map[sampling.MetricName]float64{
		sampling.MetricFirstContentfulPaint:  1523.5,
		sampling.MetricSpeedIndex:            3310.25,
		sampling.MetricTimeToInteractive:     7120,
		sampling.MetricFirstMeaningfulPaint:  1890.75,
		sampling.MetricFirstCPUIdle:          5402,
		sampling.MetricEstimatedInputLatency: 48.5,
	}
	assert.Equal(t, expected, sample.Numerics)
}

func TestMeasure_MissingFieldIsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		strip func(doc map[string]any)
		field string
	}{
		{
			name: "missing crux metric",
			strip: func(doc map[string]any) {
				metrics := doc["loadingExperience"].(map[string]any)["metrics"].(map[string]any)
				delete(metrics, "FIRST_INPUT_DELAY_MS")
			},
			field: "loadingExperience.metrics.FIRST_INPUT_DELAY_MS.category",
		},
		{
			name: "missing loading experience",
			strip: func(doc map[string]any) {
				delete(doc, "loadingExperience")
			},
			field: "loadingExperience.metrics.FIRST_CONTENTFUL_PAINT_MS.category",
		},
		{
			name: "missing audit",
			strip: func(doc map[string]any) {
				audits := doc["lighthouseResult"].(map[string]any)["audits"].(map[string]any)
				delete(audits, "first-cpu-idle")
			},
			field: "lighthouseResult.audits.first-cpu-idle.numericValue",
		},
		{
			name: "missing numeric value",
			strip: func(doc map[string]any) {
				audits := doc["lighthouseResult"].(map[string]any)["audits"].(map[string]any)
				audits["speed-index"] = map[string]any{"id": "speed-index"}
			},
			field: "lighthouseResult.audits.speed-index.numericValue",
		},
		{
			name: "unknown category",
			strip: func(doc map[string]any) {
				metrics := doc["loadingExperience"].(map[string]any)["metrics"].(map[string]any)
				metrics["FIRST_CONTENTFUL_PAINT_MS"] = map[string]any{"category": "NONE"}
			},
			field: "loadingExperience.metrics.FIRST_CONTENTFUL_PAINT_MS.category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(loadFixture(t), &doc))
			tt.strip(doc)

			body, err := json.Marshal(doc)
			require.NoError(t, err)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(body)
			}))
			defer server.Close()

			_, err = newTestClient(t, server.URL, time.Second).Measure(context.Background(), "https://www.example.com/")

			var malformed *sampling.MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestMeasure_ConfiguredMetricSet(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(loadFixture(t), &doc))

	// Current API responses: retired audits gone, newer ones present.
	metrics := doc["loadingExperience"].(map[string]any)["metrics"].(map[string]any)
	delete(metrics, "FIRST_INPUT_DELAY_MS")
	metrics["LARGEST_CONTENTFUL_PAINT_MS"] = map[string]any{"percentile": 2100, "category": "FAST"}

	audits := doc["lighthouseResult"].(map[string]any)["audits"].(map[string]any)
	delete(audits, "first-cpu-idle")
	delete(audits, "estimated-input-latency")
	audits["total-blocking-time"] = map[string]any{"id": "total-blocking-time", "numericValue": 310}

	body, err := json.Marshal(doc)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	_, err = newTestClient(t, server.URL, time.Second).Measure(context.Background(), "https://www.example.com/")

	var malformed *sampling.MalformedResponseError
	require.ErrorAs(t, err, &malformed, "default set still requires the retired metrics")

	client, err := NewClient(logrus.New(), Config{
		Endpoint: server.URL,
		APIKey:   "test-key",
		Timeout:  time.Second,
		Metrics: &MetricSet{
			Categories: []sampling.MetricName{sampling.MetricCruxLargestContentfulPaint},
			Numerics:   []sampling.MetricName{sampling.MetricSpeedIndex, sampling.MetricTotalBlockingTime},
		},
	})
	require.NoError(t, err)

	sample, err := client.Measure(context.Background(), "https://www.example.com/")
	require.NoError(t, err)

	assert.Equal(t, map[sampling.MetricName]sampling.Category{
		sampling.MetricCruxLargestContentfulPaint: sampling.CategoryFast,
	}, sample.Categories)
	assert.Equal(t, map[sampling.MetricName]float64{
		sampling.MetricSpeedIndex:        3310.25,
		sampling.MetricTotalBlockingTime: 310,
	}, sample.Numerics)
}

func TestNewClient_RejectsEmptyMetricSet(t *testing.T) {
	_, err := NewClient(logrus.New(), Config{APIKey: "k", Metrics: &MetricSet{}})
	assert.ErrorIs(t, err, sampling.ErrConfiguration)
}

func TestMeasure_InvalidJSONIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, time.Second).Measure(context.Background(), "https://www.example.com/")

	var malformed *sampling.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "(body)", malformed.Field)
}

func TestMeasure_HTTPErrorIsNotMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, time.Second).Measure(context.Background(), "https://www.example.com/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "API key not valid.")

	var malformed *sampling.MalformedResponseError
	assert.False(t, errors.As(err, &malformed))
}

func TestMeasure_TimesOut(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestClient(t, server.URL, 50*time.Millisecond).Measure(context.Background(), "https://www.example.com/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMeasure_StalledBodyIsTransportFailure(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"https://www.example.com/","loadingExperience":{"metrics":`))
		w.(http.Flusher).Flush()

		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, 100*time.Millisecond)

	_, err := client.Measure(context.Background(), "https://www.example.com/")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var malformed *sampling.MalformedResponseError
	assert.False(t, errors.As(err, &malformed))

	_, err = sampling.NewCollector(logrus.New(), client).Collect(context.Background(), sampling.PageTarget{
		Label: "stalled",
		URL:   "https://www.example.com/",
	}, 1)

	var transport *sampling.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "stalled", transport.Target)
	assert.Equal(t, 0, transport.SampleIndex)
	assert.False(t, errors.As(err, &malformed))
}

func TestMeasure_FeedsCollector(t *testing.T) {
	fixture := loadFixture(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	log := logrus.New()
	collector := sampling.NewCollector(log, newTestClient(t, server.URL, time.Second))

	result, err := collector.Collect(context.Background(), sampling.PageTarget{
		Label: "insurance",
		URL:   "https://www.example.com/insurance/",
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, sampling.RunningTotal{Sum: 3047, Count: 2}, result.Totals[sampling.MetricFirstContentfulPaint])
	assert.Equal(t, sampling.CategoryAverage, result.Category(sampling.MetricCruxFirstContentfulPaint))
}
