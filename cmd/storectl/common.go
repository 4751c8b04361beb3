package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/logging"
)

// loadConfig loads the process configuration or exits, mirroring
// dbn-go-hist's requireSymbolArgs/requireDatabentoApiKey pattern of
// printing to stderr and os.Exit(1) on missing required input rather than
// propagating an error up through cobra's RunE.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storectl: configuration error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func mustLogger(cfg *config.Config, component string) zerolog.Logger {
	log, err := logging.New(component, cfg.LogDir, cfg.LogLevel == "debug")
	if err != nil {
		fmt.Fprintf(os.Stderr, "storectl: logger init failed: %v\n", err)
		os.Exit(1)
	}
	return log
}

func requireFlag(cmd string, value, flagName string) {
	if value == "" {
		fmt.Fprintf(os.Stderr, "storectl %s: --%s is required\n", cmd, flagName)
		os.Exit(1)
	}
}

func loadSeedFileOrExit(path string, log zerolog.Logger) *config.SeedFile {
	seed, err := config.LoadSeedFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("load seed file failed")
		os.Exit(1)
	}
	return seed
}
