// Package coolstore implements the COOL tier (C5): a columnar time-series
// store for trade records and daily candles, backed by DuckDB
// (github.com/duckdb/duckdb-go/v2) opened through database/sql, the way
// NimbleMarkets-dbn-go/internal/mcp_data/cache.go opens its analytical
// cache. The source's ClickHouse tables partition by toYYYYMM(date); DuckDB
// has no partition DDL, so month-range pruning instead relies on a
// min/max zone map DuckDB maintains automatically per column, with the
// ordering columns from spec.md §4.5 encoded in CREATE TABLE order for the
// row-group sort DuckDB applies on bulk insert.
package coolstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/domain"
)

// CoolStore wraps a DuckDB database for trade/candle analytics.
type CoolStore struct {
	conn *sql.DB
	log  zerolog.Logger
}

// New opens (and migrates) the COOL database at path.
func New(path string, log zerolog.Logger) (*CoolStore, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, domain.Invalid("cool", "New", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, domain.Invalid("cool", "New", err)
	}

	conn, err := sql.Open("duckdb", abs)
	if err != nil {
		return nil, domain.Unavailable("cool", "New", err)
	}
	conn.SetMaxOpenConns(1) // DuckDB single-process file lock

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, domain.Unavailable("cool", "New", err)
	}

	c := &CoolStore{conn: conn, log: log.With().Str("backend", "cool").Logger()}
	if err := c.migrate(ctx); err != nil {
		conn.Close()
		return nil, domain.Invalid("cool", "New", err)
	}
	return c, nil
}

func (c *CoolStore) Close() error { return c.conn.Close() }

func (c *CoolStore) migrate(ctx context.Context) error {
	_, err := c.conn.ExecContext(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (c *CoolStore) HealthCheck(ctx context.Context) bool {
	return c.conn.PingContext(ctx) == nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS trade (
	account_id    VARCHAR NOT NULL,
	code          VARCHAR NOT NULL,
	ts            TIMESTAMP NOT NULL,
	date          VARCHAR NOT NULL,
	name          VARCHAR NOT NULL,
	order_type    VARCHAR NOT NULL,
	remark        VARCHAR NOT NULL DEFAULT '',
	price         DOUBLE NOT NULL,
	volume        BIGINT NOT NULL,
	amount        DOUBLE NOT NULL,
	strategy_name VARCHAR NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS daily_kline (
	code   VARCHAR NOT NULL,
	date   VARCHAR NOT NULL,
	open   DOUBLE NOT NULL,
	high   DOUBLE NOT NULL,
	low    DOUBLE NOT NULL,
	close  DOUBLE NOT NULL,
	volume BIGINT NOT NULL,
	amount DOUBLE NOT NULL,
	PRIMARY KEY (code, date)
);
`
