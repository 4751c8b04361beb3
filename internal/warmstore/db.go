// Package warmstore implements the WARM tier (C4): a normalized relational
// schema for accounts, strategies, versioned strategy parameters,
// account-strategy allocations, and users/roles/permissions, backed by
// modernc.org/sqlite — the pure-Go driver and connection-string PRAGMA
// tuning pattern are carried over from aristath-sentinel/internal/database/
// db.go as one fixed PRAGMA set (WAL mode, foreign_keys, cache_size); there
// is no per-database profile type.
package warmstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/domain"
)

// WarmStore wraps a *sql.DB configured for the accounts/strategies schema.
type WarmStore struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
}

// New opens (and migrates) the WARM database at path.
func New(path string, log zerolog.Logger) (*WarmStore, error) {
	if !strings.HasPrefix(path, "file:") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, domain.Invalid("warm", "New", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, domain.Invalid("warm", "New", err)
		}
		path = abs
	}

	connStr := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=cache_size(-32000)" +
		"&_pragma=temp_store(MEMORY)"

	conn, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, domain.Unavailable("warm", "New", err)
	}
	conn.SetMaxOpenConns(1) // modernc.org/sqlite: single writer, WAL lets readers proceed
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, domain.Unavailable("warm", "New", err)
	}

	w := &WarmStore{conn: conn, path: path, log: log.With().Str("backend", "warm").Logger()}
	if err := w.migrate(ctx); err != nil {
		conn.Close()
		return nil, domain.Invalid("warm", "New", err)
	}
	return w, nil
}

func (w *WarmStore) Close() error { return w.conn.Close() }

func (w *WarmStore) migrate(ctx context.Context) error {
	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply schema: %w", err)
	}
	return tx.Commit()
}

// withTx runs fn inside a transaction, handling commit/rollback/panic
// recovery the way aristath-sentinel's database.WithTransaction does.
func (w *WarmStore) withTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := w.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	err = fn(tx)
	return err
}

func (w *WarmStore) HealthCheck(ctx context.Context) bool {
	return w.conn.PingContext(ctx) == nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id      TEXT NOT NULL UNIQUE,
	account_name    TEXT NOT NULL,
	broker          TEXT NOT NULL,
	initial_capital REAL NOT NULL,
	current_capital REAL NOT NULL,
	total_assets    REAL NOT NULL,
	position_value  REAL NOT NULL DEFAULT 0,
	status          TEXT NOT NULL DEFAULT 'active',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS strategies (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	strategy_name TEXT NOT NULL UNIQUE,
	strategy_code TEXT NOT NULL UNIQUE,
	strategy_type TEXT NOT NULL,
	version       TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'active',
	description   TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS strategy_params (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	strategy_id INTEGER NOT NULL REFERENCES strategies(id),
	param_key   TEXT NOT NULL,
	param_type  TEXT NOT NULL,
	value_i     INTEGER,
	value_f     REAL,
	value_s     TEXT,
	value_j     TEXT,
	version     INTEGER NOT NULL,
	is_active   INTEGER NOT NULL DEFAULT 0,
	remark      TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	UNIQUE(strategy_id, param_key, version)
);
CREATE INDEX IF NOT EXISTS idx_strategy_params_active
	ON strategy_params(strategy_id, param_key, is_active);

CREATE TABLE IF NOT EXISTS account_strategy (
	account_id        TEXT NOT NULL REFERENCES accounts(account_id),
	strategy_id       INTEGER NOT NULL REFERENCES strategies(id),
	allocated_capital REAL NOT NULL DEFAULT 0,
	risk_limit        REAL NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'active',
	PRIMARY KEY (account_id, strategy_id)
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS roles (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS permissions (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS user_roles (
	user_id INTEGER NOT NULL REFERENCES users(id),
	role_id INTEGER NOT NULL REFERENCES roles(id),
	PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS role_permissions (
	role_id       INTEGER NOT NULL REFERENCES roles(id),
	permission_id INTEGER NOT NULL REFERENCES permissions(id),
	PRIMARY KEY (role_id, permission_id)
);
`
