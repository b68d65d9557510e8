// Package config handles configuration loading and management
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ethpandaops/psi-sampler/internal/pagespeed"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIKey         string
	Endpoint       string
	Strategy       string
	RequestTimeout time.Duration
	PagesFile      string
	ReportsDir     string
	ClickHouseURL  string
	// Metrics is nil unless PSI_CATEGORY_METRICS or PSI_NUMERIC_METRICS is set.
	Metrics *pagespeed.MetricSet
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:        strings.TrimSpace(os.Getenv(APIKeyEnv)),
		Endpoint:      getEnv("PSI_ENDPOINT", pagespeed.DefaultEndpoint),
		Strategy:      strings.ToLower(getEnv("PSI_STRATEGY", "")),
		PagesFile:     getEnv("PSI_PAGES_FILE", DefaultPagesFile),
		ReportsDir:    getEnv("REPORTS_DIR", DefaultReportsDir),
		ClickHouseURL: clickHouseURL(),
	}

	timeout, err := time.ParseDuration(getEnv("PSI_REQUEST_TIMEOUT", DefaultRequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid PSI_REQUEST_TIMEOUT: %v", sampling.ErrConfiguration, err)
	}
	cfg.RequestTimeout = timeout

	cfg.Metrics = metricsFromEnv()

	return cfg, nil
}

// Validate checks the settings a measurement run needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: %s is required", sampling.ErrConfiguration, APIKeyEnv)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: PSI_REQUEST_TIMEOUT must be positive", sampling.ErrConfiguration)
	}

	switch c.Strategy {
	case "", "mobile", "desktop":
	default:
		return fmt.Errorf("%w: PSI_STRATEGY must be 'mobile' or 'desktop', got %q", sampling.ErrConfiguration, c.Strategy)
	}

	if c.Metrics != nil && c.Metrics.Empty() {
		return fmt.Errorf("%w: PSI_CATEGORY_METRICS and PSI_NUMERIC_METRICS cannot both be %q", sampling.ErrConfiguration, MetricsNone)
	}

	return nil
}

// PageSpeed returns the API client settings.
func (c *Config) PageSpeed() pagespeed.Config {
	return pagespeed.Config{
		Endpoint: c.Endpoint,
		APIKey:   c.APIKey,
		Strategy: c.Strategy,
		Timeout:  c.RequestTimeout,
		Metrics:  c.Metrics,
	}
}

// HistoryEnabled reports whether run history should be stored.
func (c *Config) HistoryEnabled() bool {
	return c.ClickHouseURL != ""
}

func (c *Config) String() string {
	keyDisplay := "(not set)"
	if c.APIKey != "" {
		keyDisplay = "********"
	}

	strategyDisplay := c.Strategy
	if strategyDisplay == "" {
		strategyDisplay = "(api default)"
	}

	metrics := pagespeed.DefaultMetrics()
	if c.Metrics != nil {
		metrics = *c.Metrics
	}

	historyDisplay := "(disabled)"
	if c.ClickHouseURL != "" {
		historyDisplay = redactURL(c.ClickHouseURL)
	}

	return fmt.Sprintf(`Current Configuration:
======================
API Key:          %s
Endpoint:         %s
Strategy:         %s
Request Timeout:  %s
Field Metrics:    %s
Lab Metrics:      %s
Pages File:       %s
Reports Dir:      %s
History Store:    %s`,
		keyDisplay,
		c.Endpoint,
		strategyDisplay,
		c.RequestTimeout,
		joinMetrics(metrics.Categories),
		joinMetrics(metrics.Numerics),
		c.PagesFile,
		c.ReportsDir,
		historyDisplay,
	)
}

// clickHouseURL returns CLICKHOUSE_URL, or a URL built from the CLICKHOUSE_*
// parts when only CLICKHOUSE_HOST is set. Empty disables history.
func clickHouseURL() string {
	if raw := os.Getenv("CLICKHOUSE_URL"); raw != "" {
		return raw
	}

	host := os.Getenv("CLICKHOUSE_HOST")
	if host == "" {
		return ""
	}

	u := &url.URL{
		Scheme: "clickhouse",
		Host:   fmt.Sprintf("%s:%s", host, getEnv("CLICKHOUSE_NATIVE_PORT", DefaultClickHousePort)),
		Path:   "/" + getEnv("CLICKHOUSE_DATABASE", DefaultClickHouseDatabase),
	}

	username := getEnv("CLICKHOUSE_USERNAME", "default")
	if password := os.Getenv("CLICKHOUSE_PASSWORD"); password != "" {
		u.User = url.UserPassword(username, password)
	} else {
		u.User = url.User(username)
	}

	return u.String()
}

// metricsFromEnv reads the comma separated metric overrides. An unset variable
// keeps that half of the default set; MetricsNone clears it.
func metricsFromEnv() *pagespeed.MetricSet {
	categories, catSet := os.LookupEnv("PSI_CATEGORY_METRICS")
	numerics, numSet := os.LookupEnv("PSI_NUMERIC_METRICS")

	categories = strings.TrimSpace(categories)
	numerics = strings.TrimSpace(numerics)

	if (!catSet || categories == "") && (!numSet || numerics == "") {
		return nil
	}

	set := pagespeed.DefaultMetrics()

	if categories != "" {
		set.Categories = parseMetricList(categories)
	}

	if numerics != "" {
		set.Numerics = parseMetricList(numerics)
	}

	return &set
}

func parseMetricList(raw string) []sampling.MetricName {
	if strings.EqualFold(raw, MetricsNone) {
		return []sampling.MetricName{}
	}

	var names []sampling.MetricName

	seen := make(map[string]struct{})

	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, sampling.MetricName(name))
	}

	return names
}

func joinMetrics(names []sampling.MetricName) string {
	if len(names) == 0 {
		return MetricsNone
	}

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}

	return strings.Join(parts, ", ")
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid url)"
	}

	return u.Redacted()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
