package migration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMigrateCandleDirectoryResumeSkipsCompletedFiles(t *testing.T) {
	dir := t.TempDir()
	csvContent := "date,open,high,low,close,volume,amount\n" +
		"2026-01-05,10,11,9.5,10.5,1000,10500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SH600000.csv"), []byte(csvContent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SZ000001.csv"), []byte(csvContent), 0o644))

	dest := newTestCoolForMigration(t)
	checkpointPath := filepath.Join(t.TempDir(), "candles.checkpoint")

	var buf bytes.Buffer
	report, err := MigrateCandleDirectory(context.Background(), &buf, zerolog.Nop(), dir, dest, 10000, checkpointPath)
	require.NoError(t, err)
	require.Equal(t, 2, report.Success)

	// second run: both files already checkpointed, nothing new inserted
	report2, err := MigrateCandleDirectory(context.Background(), &buf, zerolog.Nop(), dir, dest, 10000, checkpointPath)
	require.NoError(t, err)
	require.Equal(t, 0, report2.Success)
	require.Equal(t, 2, report2.Skipped)
}

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cp.msgpack")

	cp, err := LoadCheckpoint(path)
	require.NoError(t, err)
	require.Nil(t, cp)

	cp = MarkDone(cp, "candles", "SH600000.csv")
	require.NoError(t, SaveCheckpoint(path, *cp))

	loaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	require.True(t, loaded.AlreadyDone("SH600000.csv"))
	require.False(t, loaded.AlreadyDone("SZ000001.csv"))
}
