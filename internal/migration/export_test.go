package migration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/domain"
)

func TestExportWritesAccountsStrategiesTradesAndCandles(t *testing.T) {
	ctx := context.Background()
	ws := newTestWarmForMigration(t)
	cs := newTestCoolForMigration(t)

	_, err := ws.CreateAccount(ctx, domain.Account{AccountID: "acct1", AccountName: "Main", Broker: domain.BrokerQMT, InitialCapital: 1000})
	require.NoError(t, err)
	_, _, err = ws.CreateStrategy(ctx, domain.Strategy{StrategyName: "S1", StrategyCode: "S1", StrategyType: domain.StrategyWencai, Version: "1.0"})
	require.NoError(t, err)

	ts, err := time.Parse("2006-01-02 15:04:05", "2026-01-05 09:31:00")
	require.NoError(t, err)
	require.NoError(t, cs.RecordTrade(ctx, domain.TradeRecord{
		AccountID: "acct1", Timestamp: ts, Date: "2026-01-05", Code: "600000.SH",
		OrderType: domain.OrderBuyTrade, Price: 10, Volume: 100, Amount: 1000,
	}))
	require.NoError(t, cs.UpsertCandle(ctx, domain.Candle{Code: "600000.SH", Date: "2026-01-05", Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000, Amount: 10500}))

	outDir := t.TempDir()
	var buf bytes.Buffer
	report, err := Export(ctx, &buf, zerolog.Nop(), ExportSource{Warm: ws, Cool: cs}, outDir, config.BackupConfig{})
	require.NoError(t, err)
	require.Greater(t, report.Success, 0)

	require.FileExists(t, filepath.Join(outDir, "accounts.json"))
	require.FileExists(t, filepath.Join(outDir, "strategies.json"))
	require.FileExists(t, filepath.Join(outDir, "trades_export.csv"))
	require.FileExists(t, filepath.Join(outDir, "candles", "600000.SH.csv"))

	b, err := os.ReadFile(filepath.Join(outDir, "accounts.json"))
	require.NoError(t, err)
	require.Contains(t, string(b), "acct1")
}
