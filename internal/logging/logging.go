// Package logging constructs the zerolog loggers used across every tier.
// Grounded on aristath-sentinel's per-component logger style
// (log.With().Str("job", name).Logger()) and on the size-capped rotating
// file handler described in original_source/storage/logging_config.py.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	// defaultMaxBytes matches the original system's 10MB rotation threshold.
	defaultMaxBytes = 10 * 1024 * 1024
	// defaultBackups matches the original system's 5 kept backups.
	defaultBackups = 5
)

// New builds the root logger for a deployment. If dir is empty, logs go to
// stderr only (console). Otherwise a size-capped rolling file under
// dir/<name>.log is added alongside stderr, mirroring the dual
// file+console handler setup_storage_logger used.
func New(name, dir string, debug bool) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Logger{}, err
		}
		rw, err := newRollingWriter(filepath.Join(dir, name+".log"), defaultMaxBytes, defaultBackups)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, rw)
	}

	base := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("component", name).
		Logger()

	return base, nil
}

// For returns a child logger scoped to one sub-component, following the
// teacher's log.With().Str("job", ...).Logger() pattern.
func For(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
