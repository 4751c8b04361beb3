package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return fs
}

func TestHeldDaysRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	_, ok, err := fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, fs.BatchNewHeld(ctx, "acct1", []string{"600000.SH", "000001.SZ"}))
	days, ok, err := fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, days)

	require.NoError(t, fs.UpdateHeldDays(ctx, "600000.SH", "acct1", 5))
	days, ok, err = fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5, days)

	require.NoError(t, fs.DeleteHeldDays(ctx, "600000.SH", "acct1"))
	_, ok, err = fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAllHeldIncOnlyOncePerDay(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	require.NoError(t, fs.BatchNewHeld(ctx, "acct1", []string{"600000.SH"}))

	incremented, err := fs.AllHeldInc(ctx, "acct1")
	require.NoError(t, err)
	require.True(t, incremented)

	days, _, err := fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.Equal(t, 1, days)

	incremented, err = fs.AllHeldInc(ctx, "acct1")
	require.NoError(t, err)
	require.False(t, incremented)

	days, _, err = fs.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.Equal(t, 1, days)
}

func TestPriceExtremesRoundToThreeDecimals(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	require.NoError(t, fs.UpdateMaxPrice(ctx, "600000.SH", "acct1", 12.34567))
	price, ok, err := fs.GetMaxPrice(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 12.346, price)
}

func TestRecordAndQueryTrades(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	ts, _ := time.Parse("2006-01-02 15:04:05", "2026-01-05 09:31:00")
	require.NoError(t, fs.RecordTrade(ctx, domain.TradeRecord{
		AccountID: "acct1",
		Timestamp: ts,
		Date:      "2026-01-05",
		Code:      "600000.SH",
		Name:      "浦发银行",
		OrderType: domain.OrderBuyTrade,
		Price:     10.5,
		Volume:    100,
		Amount:    1050,
	}))
	ts2, _ := time.Parse("2006-01-02 15:04:05", "2026-01-06 09:31:00")
	require.NoError(t, fs.RecordTrade(ctx, domain.TradeRecord{
		AccountID: "acct1",
		Timestamp: ts2,
		Date:      "2026-01-06",
		Code:      "600000.SH",
		Name:      "浦发银行",
		OrderType: domain.OrderSellTrade,
		Price:     11,
		Volume:    100,
		Amount:    1100,
	}))

	rows, err := fs.QueryTrades(ctx, "acct1", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "600000.SH", rows[0].Code)

	agg, err := fs.AggregateTrades(ctx, "acct1", "2026-01-01", "2026-01-31", domain.GroupByStock)
	require.NoError(t, err)
	require.Len(t, agg, 1)
	require.Equal(t, int64(2), agg[0].Count)
	require.Equal(t, int64(200), agg[0].TotalVolume)
	require.InDelta(t, 50.0, agg[0].NetAmount, 0.001)
}

func TestStrategyParamLifecycle(t *testing.T) {
	ctx := context.Background()
	fs := newTestStore(t)

	_, created, err := fs.CreateStrategy(ctx, domain.Strategy{
		StrategyCode: "wencai_v1",
		StrategyType: domain.StrategyWencai,
		Version:      "1.0.0",
	})
	require.NoError(t, err)
	require.True(t, created)

	ok, err := fs.SaveStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(10),
		"slot_capacity": domain.IntValue(10000),
	}, "")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = fs.SaveStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(12),
		"slot_capacity": domain.IntValue(15000),
	}, "")
	require.NoError(t, err)
	require.True(t, ok)

	params, found, err := fs.GetStrategyParams(ctx, "wencai_v1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(12), params["slot_count"].I)

	added, deleted, modified, err := fs.CompareStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(12),
		"slot_capacity": domain.IntValue(15000),
		"stop_loss":     domain.FloatValue(0.03),
	})
	require.NoError(t, err)
	require.Contains(t, added, "stop_loss")
	require.Empty(t, deleted)
	require.Empty(t, modified)
}
