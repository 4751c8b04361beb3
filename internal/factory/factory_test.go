package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/config"
)

func testConfig(t *testing.T, mode config.Mode) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Mode:         mode,
		CacheDir:     dir,
		Hot:          config.HotConfig{Enabled: true},
		Warm:         config.WarmConfig{Path: filepath.Join(dir, "warm.db")},
		Cool:         config.CoolConfig{Path: filepath.Join(dir, "cool.duckdb")},
		DualWrite:    true,
		AutoFallback: true,
	}
}

func TestBuildFileMode(t *testing.T) {
	s, err := Build(testConfig(t, config.ModeFile), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.UpdateHeldDays(context.Background(), "600000.SH", "acct1", 1))
}

func TestBuildHybridMode(t *testing.T) {
	s, err := Build(testConfig(t, config.ModeHybrid), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	status := s.HealthCheck(context.Background())
	require.True(t, status.Healthy)
}

func TestBuildInvalidMode(t *testing.T) {
	cfg := testConfig(t, config.Mode("bogus"))
	_, err := Build(cfg, zerolog.Nop())
	require.Error(t, err)
}
