// Package factory implements the mode-based Store selector (C8): given a
// config.Mode and a config.Config, construct the matching backend
// composition. Grounded on aristath-sentinel/internal/di/databases.go's
// "build every named database, roll back whatever was already opened on
// the first failure" pattern, generalized from a fixed set of named SQLite
// databases to the file/hot/warm/cool/hybrid mode selector spec.md §4.8
// describes.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/coolstore"
	"github.com/silvertrail/tradestore/internal/filestore"
	"github.com/silvertrail/tradestore/internal/hotstore"
	"github.com/silvertrail/tradestore/internal/hybrid"
	"github.com/silvertrail/tradestore/internal/store"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

// Build constructs the Store matching cfg.Mode. Invalid mode is a
// configuration error (spec.md §4.8), caught already by cfg.Validate but
// re-checked here since Build may be called with a hand-built Config.
func Build(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	switch cfg.Mode {
	case config.ModeFile:
		return filestore.New(cfg.CacheDir, log)
	case config.ModeHot:
		return hotstore.New(log), nil
	case config.ModeWarm:
		return warmstore.New(cfg.Warm.Path, log)
	case config.ModeCool:
		return coolstore.New(cfg.Cool.Path, log)
	case config.ModeHybrid:
		return buildHybrid(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
}

// buildHybrid constructs every enabled tier, logging a WARNING and
// continuing with a reduced tier set for any tier whose construction or
// health check fails (spec.md §4.6 "Initialization"). The file tier is
// mandatory: if it fails to construct, Build returns an error.
func buildHybrid(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	fileTier, err := filestore.New(cfg.CacheDir, log)
	if err != nil {
		return nil, fmt.Errorf("file tier (mandatory) failed to construct: %w", err)
	}

	var hotTier *hotstore.HotStore
	if cfg.Hot.Enabled {
		hotTier = hotstore.New(log)
	}

	ctx := context.Background()

	var warmTier *warmstore.WarmStore
	if w, werr := warmstore.New(cfg.Warm.Path, log); werr != nil {
		log.Warn().Err(werr).Msg("warm tier unavailable, continuing without it")
	} else if !w.HealthCheck(ctx) {
		log.Warn().Msg("warm tier failed health check, continuing without it")
		w.Close()
	} else {
		warmTier = w
	}

	var coolTier *coolstore.CoolStore
	if c, cerr := coolstore.New(cfg.Cool.Path, log); cerr != nil {
		log.Warn().Err(cerr).Msg("cool tier unavailable, continuing without it")
	} else if !c.HealthCheck(ctx) {
		log.Warn().Msg("cool tier failed health check, continuing without it")
		c.Close()
	} else {
		coolTier = c
	}

	tiers := hybrid.Tiers{
		File:         fileTier,
		DualWrite:    cfg.DualWrite,
		AutoFallback: cfg.AutoFallback,
		Log:          log,
	}
	if hotTier != nil {
		tiers.Hot = hotTier
	}
	if warmTier != nil {
		tiers.Warm = warmTier
	}
	if coolTier != nil {
		tiers.Cool = coolTier
	}
	return hybrid.New(tiers), nil
}
