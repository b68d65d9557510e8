package actions

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ethpandaops/psi-sampler/internal/clickhouse"
	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/ethpandaops/psi-sampler/internal/migrations"
	"github.com/ethpandaops/psi-sampler/internal/sampling"
	"github.com/sirupsen/logrus"
)

// ErrHistoryDisabled is returned when no ClickHouse URL is configured.
var ErrHistoryDisabled = fmt.Errorf("%w: history store is disabled (set CLICKHOUSE_URL or CLICKHOUSE_HOST)", sampling.ErrConfiguration)

// DescribeHistory prints the history store target without touching it.
func DescribeHistory(cfg *config.Config, out io.Writer) error {
	if !cfg.HistoryEnabled() {
		return ErrHistoryDisabled
	}

	u, err := url.Parse(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid clickhouse url: %v", sampling.ErrConfiguration, err)
	}

	fmt.Fprintln(out, "\n📋 History Store:")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "ClickHouse Host: %s\n", u.Host)
	fmt.Fprintf(out, "Username:        %s\n", u.User.Username())
	fmt.Fprintf(out, "Database Name:   %s\n", strings.TrimPrefix(u.Path, "/"))
	fmt.Fprintln(out)

	return nil
}

// MigrateHistory creates the history database if needed and applies every
// pending schema migration. Safe to run multiple times.
func MigrateHistory(ctx context.Context, log logrus.FieldLogger, cfg *config.Config, out io.Writer) error {
	if !cfg.HistoryEnabled() {
		return ErrHistoryDisabled
	}

	fmt.Fprintln(out, "📦 Creating database if it doesn't exist...")
	if err := clickhouse.EnsureDatabase(ctx, cfg.ClickHouseURL); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	fmt.Fprintln(out, "🔄 Running database migrations...")
	status, err := migrations.Up(log, cfg.ClickHouseURL)
	if err != nil {
		return err
	}

	if status.Dirty {
		return fmt.Errorf("migrations left the schema dirty at version %d", status.Version)
	}

	if status.Applied {
		fmt.Fprintf(out, "✅ Migrations applied successfully (current version: %d)\n", status.Version)
	} else {
		fmt.Fprintf(out, "ℹ️  No new migrations to apply (current version: %d)\n", status.Version)
	}

	return nil
}

// HistoryStatus prints the schema version of the history store.
func HistoryStatus(log logrus.FieldLogger, cfg *config.Config, out io.Writer) error {
	if err := DescribeHistory(cfg, out); err != nil {
		return err
	}

	status, err := migrations.GetStatus(log, cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	switch {
	case status.Dirty:
		fmt.Fprintf(out, "⚠️  Schema is dirty at version %d\n", status.Version)
	case status.Version == 0:
		fmt.Fprintln(out, "Schema has not been migrated yet")
	default:
		fmt.Fprintf(out, "✅ Schema is at version %d\n", status.Version)
	}

	return nil
}
