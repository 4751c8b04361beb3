package migration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

func newTestWarmForMigration(t *testing.T) *warmstore.WarmStore {
	t.Helper()
	ws, err := warmstore.New(filepath.Join(t.TempDir(), "warm.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestMigrateAccountsAndStrategiesSkipsExisting(t *testing.T) {
	ws := newTestWarmForMigration(t)
	ctx := context.Background()

	seed := &config.SeedFile{
		Accounts: []config.SeedAccount{
			{AccountID: "acct1", AccountName: "Main", Broker: "QMT", InitialCapital: 100000},
		},
		Strategies: []config.SeedStrategy{
			{
				StrategyName: "Wencai Alpha",
				StrategyCode: "WENCAI_ALPHA",
				StrategyType: "wencai",
				Version:      "1.0",
				Params:       map[string]any{"max_position": 0.2, "lookback": 20},
			},
		},
	}

	var buf bytes.Buffer
	report, err := MigrateAccountsAndStrategies(ctx, &buf, zerolog.Nop(), seed, ws, ws)
	require.NoError(t, err)
	require.Equal(t, 2, report.Success) // 1 account + 1 strategy created

	params, ok, err := ws.GetStrategyParams(ctx, "WENCAI_ALPHA")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, params, "max_position")

	// second run: both already exist, skip-with-note
	report2, err := MigrateAccountsAndStrategies(ctx, &buf, zerolog.Nop(), seed, ws, ws)
	require.NoError(t, err)
	require.Equal(t, 2, report2.Skipped)
	require.Equal(t, 0, report2.Success)
}
