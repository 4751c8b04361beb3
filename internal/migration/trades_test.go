package migration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/coolstore"
)

func newTestCoolForMigration(t *testing.T) *coolstore.CoolStore {
	t.Helper()
	cs, err := coolstore.New(filepath.Join(t.TempDir(), "cool.duckdb"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestMigrateTradesAcceptsChineseColumnAliases(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "trades.csv")
	content := "日期,时间,代码,成交价,成交量,类型,注释\n" +
		"2026-01-05,09:31:00,600000.SH,12.50,1000,buy_trade,首次建仓\n" +
		"2026-01-06,,600000.SH,,500,sell_trade,\n" // missing price -> skipped
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	dest := newTestCoolForMigration(t)
	var buf bytes.Buffer
	report, err := MigrateTrades(context.Background(), &buf, zerolog.Nop(), csvPath, "acct1", dest, 1)
	require.NoError(t, err)
	require.Equal(t, 1, report.Success)
	require.Equal(t, 1, report.Skipped)

	rows, err := dest.QueryTrades(context.Background(), "acct1", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "600000.SH", rows[0].Code)
	require.InDelta(t, 12500.0, rows[0].Amount, 0.01)
}

func TestMigrateTradesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte{}, 0o644))

	dest := newTestCoolForMigration(t)
	var buf bytes.Buffer
	report, err := MigrateTrades(context.Background(), &buf, zerolog.Nop(), csvPath, "acct1", dest, 10)
	require.NoError(t, err)
	require.Equal(t, 0, report.Success)
}
