package config

const (
	// APIKeyEnv holds the PageSpeed Insights API key.
	APIKeyEnv = "PAGE_SPEED_INSIGHTS_API_KEY"
	// DefaultPagesFile is the page set loaded when PSI_PAGES_FILE is unset.
	DefaultPagesFile = "pages.yaml"
	// DefaultReportsDir is where HTML reports and summaries are written.
	DefaultReportsDir = "reports"
	// DefaultRequestTimeout bounds a single measurement call.
	DefaultRequestTimeout = "90s"
	// DefaultClickHouseDatabase stores run history.
	DefaultClickHouseDatabase = "psi"
	// DefaultClickHousePort is the native protocol port.
	DefaultClickHousePort = "9000"
	// MetricsNone clears a metric list in PSI_CATEGORY_METRICS or PSI_NUMERIC_METRICS.
	MetricsNone = "none"
)
