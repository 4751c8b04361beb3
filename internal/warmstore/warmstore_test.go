package warmstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/domain"
)

func newTestWarm(t *testing.T) *WarmStore {
	t.Helper()
	w, err := New(filepath.Join(t.TempDir(), "warm.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func TestCreateAndGetAccount(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	created, err := w.CreateAccount(ctx, domain.Account{
		AccountID: "acct1", AccountName: "main", Broker: domain.BrokerQMT, InitialCapital: 100000,
	})
	require.NoError(t, err)
	require.True(t, created)

	created, err = w.CreateAccount(ctx, domain.Account{
		AccountID: "acct1", AccountName: "dup", Broker: domain.BrokerQMT, InitialCapital: 1,
	})
	require.NoError(t, err)
	require.False(t, created)

	a, err := w.GetAccount(ctx, "acct1")
	require.NoError(t, err)
	require.NotNil(t, a)
	require.Equal(t, 100000.0, a.CurrentCapital)

	require.NoError(t, w.UpdateAccountCapital(ctx, "acct1", 95000, 110000, 15000))
	a, err = w.GetAccount(ctx, "acct1")
	require.NoError(t, err)
	require.Equal(t, 95000.0, a.CurrentCapital)
}

func TestStrategyParamVersionRollover(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	_, created, err := w.CreateStrategy(ctx, domain.Strategy{
		StrategyName: "Wencai Strategy", StrategyCode: "wencai_v1",
		StrategyType: domain.StrategyWencai, Version: "1.0.0",
	})
	require.NoError(t, err)
	require.True(t, created)

	ok, err := w.SaveStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(10),
		"slot_capacity": domain.IntValue(10000),
	}, "")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = w.SaveStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(12),
		"slot_capacity": domain.IntValue(15000),
	}, "")
	require.NoError(t, err)
	require.True(t, ok)

	params, found, err := w.GetStrategyParams(ctx, "wencai_v1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, params, 2)
	require.Equal(t, int64(12), params["slot_count"].I)
	require.Equal(t, int64(15000), params["slot_capacity"].I)

	added, deleted, modified, err := w.CompareStrategyParams(ctx, "wencai_v1", map[string]domain.ParamValue{
		"slot_count":    domain.IntValue(12),
		"slot_capacity": domain.IntValue(15000),
		"stop_loss":     domain.FloatValue(0.03),
	})
	require.NoError(t, err)
	require.Contains(t, added, "stop_loss")
	require.Empty(t, deleted)
	require.Empty(t, modified)

	var activeCount int
	row := w.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM strategy_params WHERE is_active = 1`)
	require.NoError(t, row.Scan(&activeCount))
	require.Equal(t, 2, activeCount)
}

func TestUnknownStrategyParamsAbsent(t *testing.T) {
	ctx := context.Background()
	w := newTestWarm(t)

	_, found, err := w.GetStrategyParams(ctx, "does_not_exist")
	require.NoError(t, err)
	require.False(t, found)

	ok, err := w.SaveStrategyParams(ctx, "does_not_exist", map[string]domain.ParamValue{"x": domain.IntValue(1)}, "")
	require.NoError(t, err)
	require.False(t, ok)
}
