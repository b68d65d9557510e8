package report

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PageStat captures the outcome of sampling one page
type PageStat struct {
	Label    string
	URL      string
	Samples  int
	Duration time.Duration
	Err      error
}

// RunSummary provides aggregate statistics across all pages in a run
type RunSummary struct {
	TotalDuration time.Duration
	Pages         int
	Succeeded     int
	Failed        int
	Samples       int
}

// StatsCollector records page outcomes for the end-of-run summary.
// Pages may finish concurrently.
type StatsCollector interface {
	Start()
	RecordPage(stat PageStat)
	Pages() []PageStat
	Summary() RunSummary
}

// statsCollector implements StatsCollector interface
type statsCollector struct {
	log       logrus.FieldLogger
	mu        sync.RWMutex
	pages     []PageStat
	startTime time.Time
}

// NewStatsCollector creates a new run statistics collector
func NewStatsCollector(log logrus.FieldLogger) StatsCollector {
	return &statsCollector{
		log:   log.WithField("component", "stats_collector"),
		pages: make([]PageStat, 0, 8),
	}
}

func (c *statsCollector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.Debug("stats collector started")
}

func (c *statsCollector) RecordPage(stat PageStat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = append(c.pages, stat)
}

func (c *statsCollector) Pages() []PageStat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// Return copy to avoid race conditions
	result := make([]PageStat, len(c.pages))
	copy(result, c.pages)
	return result
}

func (c *statsCollector) Summary() RunSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := RunSummary{
		TotalDuration: time.Since(c.startTime),
		Pages:         len(c.pages),
	}

	for _, page := range c.pages {
		if page.Err != nil {
			summary.Failed++
			continue
		}

		summary.Succeeded++
		summary.Samples += page.Samples
	}

	return summary
}

// Compile-time interface compliance check
var _ StatsCollector = (*statsCollector)(nil)
