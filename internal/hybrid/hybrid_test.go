package hybrid

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/filestore"
	"github.com/silvertrail/tradestore/internal/hotstore"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	hs := hotstore.New(zerolog.Nop())

	return New(Tiers{
		File:         fs,
		Hot:          hs,
		DualWrite:    true,
		AutoFallback: true,
		Log:          zerolog.Nop(),
	})
}

func TestDualWriteReachesBothTiers(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	require.NoError(t, d.BatchNewHeld(ctx, "acct1", []string{"600000.SH"}))
	require.NoError(t, d.UpdateHeldDays(ctx, "600000.SH", "acct1", 7))

	days, ok, err := d.hot.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 7, days)

	fileDays, ok, err := d.file.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 7, fileDays)
}

func TestHealthCheckAggregatesOverFileTier(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)

	status := d.HealthCheck(ctx)
	require.True(t, status.Healthy)
	require.True(t, status.Backends["file"])
	require.True(t, status.Backends["hot"])
}

func TestNoHotTierRoutesStraightToFile(t *testing.T) {
	ctx := context.Background()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	d := New(Tiers{File: fs, DualWrite: true, AutoFallback: true, Log: zerolog.Nop()})

	require.NoError(t, d.UpdateHeldDays(ctx, "600000.SH", "acct1", 3))
	days, ok, err := d.file.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, days)
}
