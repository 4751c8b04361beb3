package coolstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/domain"
)

func newTestCool(t *testing.T) *CoolStore {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cool.duckdb"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecordAndQueryTrades(t *testing.T) {
	ctx := context.Background()
	c := newTestCool(t)

	ts1, _ := time.Parse("2006-01-02 15:04:05", "2026-01-05 09:31:00")
	ts2, _ := time.Parse("2006-01-02 15:04:05", "2026-01-06 09:31:00")
	require.NoError(t, c.RecordTrade(ctx, domain.TradeRecord{
		AccountID: "acct1", Timestamp: ts1, Date: "2026-01-05", Code: "600000.SH",
		Name: "PFB", OrderType: domain.OrderBuyTrade, Price: 10.5, Volume: 100, Amount: 1050,
	}))
	require.NoError(t, c.RecordTrade(ctx, domain.TradeRecord{
		AccountID: "acct1", Timestamp: ts2, Date: "2026-01-06", Code: "600000.SH",
		Name: "PFB", OrderType: domain.OrderSellTrade, Price: 11, Volume: 100, Amount: 1100,
	}))

	rows, err := c.QueryTrades(ctx, "acct1", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	agg, err := c.AggregateTrades(ctx, "acct1", "2026-01-01", "2026-01-31", domain.GroupByStock)
	require.NoError(t, err)
	require.Len(t, agg, 1)
	require.Equal(t, int64(2), agg[0].Count)
	require.InDelta(t, 50.0, agg[0].NetAmount, 0.001)
}

func TestKlineRangeAndBatch(t *testing.T) {
	ctx := context.Background()
	c := newTestCool(t)

	require.NoError(t, c.UpsertCandle(ctx, domain.Candle{
		Code: "600000.SH", Date: "2026-01-05", Open: 10, High: 11, Low: 9.5, Close: 10.8, Volume: 1000, Amount: 10800,
	}))
	require.NoError(t, c.UpsertCandle(ctx, domain.Candle{
		Code: "600000.SH", Date: "2026-01-06", Open: 10.8, High: 11.2, Low: 10.5, Close: 11, Volume: 900, Amount: 9900,
	}))
	require.NoError(t, c.UpsertCandle(ctx, domain.Candle{
		Code: "000001.SZ", Date: "2026-01-05", Open: 5, High: 5.5, Low: 4.9, Close: 5.1, Volume: 500, Amount: 2550,
	}))

	series, err := c.GetKline(ctx, "600000.SH", "2026-01-01", "2026-01-31", "daily")
	require.NoError(t, err)
	require.Len(t, series, 2)
	require.Equal(t, "2026-01-05", series[0].Date)

	batch, err := c.BatchGetKline(ctx, []string{"600000.SH", "000001.SZ"}, "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)
	require.Len(t, batch["600000.SH"], 2)
	require.Len(t, batch["000001.SZ"], 1)
}

func TestUpsertCandleRejectsInvariantViolation(t *testing.T) {
	ctx := context.Background()
	c := newTestCool(t)

	err := c.UpsertCandle(ctx, domain.Candle{
		Code: "600000.SH", Date: "2026-01-05", Open: 10, High: 9, Low: 8, Close: 10.8, Volume: 1000, Amount: 10800,
	})
	require.Error(t, err)
}
