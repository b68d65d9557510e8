// Package clickhouse provides ClickHouse database connection and management utilities
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ErrDatabaseRequired is returned when the connection URL names no database.
var ErrDatabaseRequired = errors.New("clickhouse url must name a database")

// Options parses a clickhouse:// URL and applies the connection defaults.
func Options(rawURL string) (*clickhouse.Options, error) {
	options, err := clickhouse.ParseDSN(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clickhouse url: %w", err)
	}

	if options.Auth.Database == "" {
		return nil, ErrDatabaseRequired
	}

	if options.Settings == nil {
		options.Settings = clickhouse.Settings{}
	}

	if _, ok := options.Settings["max_execution_time"]; !ok {
		options.Settings["max_execution_time"] = 60
	}

	options.DialTimeout = 30 * time.Second
	options.MaxOpenConns = 5
	options.MaxIdleConns = 5
	options.ConnMaxLifetime = 10 * time.Minute

	if options.Compression == nil {
		options.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}

	return options, nil
}

// Connect establishes a connection to ClickHouse using native protocol
func Connect(ctx context.Context, rawURL string) (driver.Conn, error) {
	options, err := Options(rawURL)
	if err != nil {
		return nil, err
	}

	return open(ctx, options)
}

// EnsureDatabase creates the database named in rawURL if it doesn't exist.
func EnsureDatabase(ctx context.Context, rawURL string) error {
	options, err := Options(rawURL)
	if err != nil {
		return err
	}

	dbName := options.Auth.Database

	// Use "default" database for initial connection
	options.Auth.Database = "default"

	conn, err := open(ctx, options)
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}

func open(ctx context.Context, options *clickhouse.Options) (driver.Conn, error) {
	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return conn, nil
}
