package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/hotstore"
)

func writeJSONFixture(t *testing.T, path string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestMigratePositionsIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeJSONFixture(t, filepath.Join(dir, "held_days.json"), map[string]int{"600000.SH": 5, "000001.SZ": 2})
	writeJSONFixture(t, filepath.Join(dir, "max_prices.json"), map[string]float64{"600000.SH": 12.345})
	writeJSONFixture(t, filepath.Join(dir, "min_prices.json"), map[string]float64{"600000.SH": 10.1})

	dest := hotstore.New(zerolog.Nop())
	ctx := context.Background()

	var buf bytes.Buffer
	report, err := MigratePositions(ctx, &buf, zerolog.Nop(), dir, "acct1", dest, 1)
	require.NoError(t, err)
	require.Equal(t, 2, report.Success)
	require.Equal(t, 0, report.Failure)

	days, ok, err := dest.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5, days)

	maxP, ok, err := dest.GetMaxPrice(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.InDelta(t, 12.345, maxP, 0.0001)

	// re-run is idempotent: same outcome, no duplication
	report2, err := MigratePositions(ctx, &buf, zerolog.Nop(), dir, "acct1", dest, 1)
	require.NoError(t, err)
	require.Equal(t, report.Success, report2.Success)

	days2, _, err := dest.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.Equal(t, 5, days2)
}

func TestMigratePositionsMissingSourceFilesIsEmpty(t *testing.T) {
	dir := t.TempDir()
	dest := hotstore.New(zerolog.Nop())

	var buf bytes.Buffer
	report, err := MigratePositions(context.Background(), &buf, zerolog.Nop(), dir, "acct1", dest, 100)
	require.NoError(t, err)
	require.Equal(t, 0, report.Success)
	require.Equal(t, 0, report.Failure)
}
