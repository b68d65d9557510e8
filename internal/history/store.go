// Package history stores finalized page results in ClickHouse so runs can be
// compared over time.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/sirupsen/logrus"
)

// Row kinds.
const (
	KindCategory = "category"
	KindNumeric  = "numeric"
)

const insertQuery = "INSERT INTO page_samples (run_at, label, url, page_id, metric, kind, category, total, sample_count, average)"

// Row is one metric of one page in one run.
type Row struct {
	RunAt       time.Time
	Label       string
	URL         string
	PageID      string
	Metric      string
	Kind        string
	Category    string
	Total       float64
	SampleCount uint32
	Average     float64
}

// Store records run results.
type Store interface {
	Record(ctx context.Context, runAt time.Time, results []*sampling.AggregateResult) (int, error)
	Close() error
}

type store struct {
	log  logrus.FieldLogger
	conn driver.Conn
}

// NewStore creates a Store writing to the page_samples table over conn.
func NewStore(log logrus.FieldLogger, conn driver.Conn) Store {
	return &store{
		log:  log.WithField("component", "history_store"),
		conn: conn,
	}
}

// Record inserts one batch holding every metric of every result. It returns
// the number of rows written.
func (s *store) Record(ctx context.Context, runAt time.Time, results []*sampling.AggregateResult) (int, error) {
	rows := Rows(runAt, results)
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare history batch: %w", err)
	}

	for _, row := range rows {
		if err := batch.Append(
			row.RunAt,
			row.Label,
			row.URL,
			row.PageID,
			row.Metric,
			row.Kind,
			row.Category,
			row.Total,
			row.SampleCount,
			row.Average,
		); err != nil {
			_ = batch.Abort()
			return 0, fmt.Errorf("failed to append history row for %s/%s: %w", row.Label, row.Metric, err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send history batch: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"rows":  len(rows),
		"pages": len(results),
	}).Debug("Recorded run history")

	return len(rows), nil
}

func (s *store) Close() error {
	return s.conn.Close()
}

// Rows flattens results into table rows. Nil results are skipped.
func Rows(runAt time.Time, results []*sampling.AggregateResult) []Row {
	var rows []Row

	for _, result := range results {
		if result == nil {
			continue
		}

		base := Row{
			RunAt:       runAt.UTC(),
			Label:       result.Target.Label,
			URL:         result.Target.URL,
			PageID:      result.PageID,
			SampleCount: uint32(result.SampleCount), //nolint:gosec // bounded by MaxSampleCount
		}

		for _, name := range result.CategoryNames() {
			row := base
			row.Metric = string(name)
			row.Kind = KindCategory
			row.Category = result.Category(name).String()
			rows = append(rows, row)
		}

		for _, name := range result.NumericNames() {
			row := base
			row.Metric = string(name)
			row.Kind = KindNumeric
			row.Total = result.Totals[name].Sum
			row.Average, _ = result.Average(name)
			rows = append(rows, row)
		}
	}

	return rows
}

var _ Store = (*store)(nil)
