// Package config provides explicit, non-global configuration for the
// storage substrate: which mode to run in (file/hot/warm/cool/hybrid),
// per-tier endpoints, and the dual-write/auto-fallback policy flags.
//
// Loading order mirrors aristath-sentinel/internal/config/config.go:
//  1. .env file (github.com/joho/godotenv), if present
//  2. process environment variables
//  3. an optional YAML file for list-shaped settings the flat env vars
//     don't suit (the migration toolkit's account/strategy seed list)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Mode selects which Store composition the factory builds.
type Mode string

const (
	ModeFile   Mode = "file"
	ModeHot    Mode = "hot"
	ModeWarm   Mode = "warm"
	ModeCool   Mode = "cool"
	ModeHybrid Mode = "hybrid"
)

// ValidMode reports whether m is one of the enumerated modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeFile, ModeHot, ModeWarm, ModeCool, ModeHybrid:
		return true
	default:
		return false
	}
}

// WarmConfig configures the relational (WARM) tier.
type WarmConfig struct {
	Path string // SQLite file path, or "file::memory:?cache=shared" for tests
}

// CoolConfig configures the columnar time-series (COOL) tier.
type CoolConfig struct {
	Path string // DuckDB file path; it is made absolute before opening, so no in-memory form is supported
}

// HotConfig configures the in-process HOT tier.
type HotConfig struct {
	// Enabled controls whether the hybrid dispatcher constructs a HOT tier.
	// The HOT tier itself has no network endpoint in this deployment (see
	// DESIGN.md for the Redis-substitution rationale); this flag exists so
	// configuration, not code, decides whether it participates.
	Enabled bool
}

// BackupConfig configures the optional S3/R2 disaster-recovery upload the
// migration toolkit's Export command can perform.
type BackupConfig struct {
	Enabled  bool
	Bucket   string
	Endpoint string // non-empty for R2/S3-compatible endpoints
	Region   string
	Prefix   string
}

// Config is the root, explicitly-constructed configuration object. No
// package-level globals/singletons are used anywhere in this module — see
// DESIGN.md's note on the source's global-config anti-pattern.
type Config struct {
	Mode Mode

	CacheDir string // file tier directory

	Hot  HotConfig
	Warm WarmConfig
	Cool CoolConfig

	DualWrite    bool
	AutoFallback bool

	LogDir   string
	LogLevel string

	PositionsBatchSize int // BatchNewHeld / migration batch size, default 100
	TradesBatchSize    int // trade migration batch size, default 1000
	CandlesBatchSize   int // candle migration batch size, default 10000

	Backup BackupConfig

	// TradernetAPIKey/APISecret are carried through as opaque credential
	// inputs for the out-of-scope broker delegate; this module never reads
	// them beyond Redacted(), which reports only whether they were supplied.
	TradernetAPIKey    string
	TradernetAPISecret string
}

// Load builds a Config from .env + environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cacheDir := getEnv("TRADESTORE_CACHE_DIR", "")
	if cacheDir == "" {
		cacheDir = "./_cache"
	}
	absCacheDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(absCacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	cfg := &Config{
		Mode:     Mode(getEnv("TRADESTORE_MODE", string(ModeHybrid))),
		CacheDir: absCacheDir,

		Hot: HotConfig{Enabled: getEnvAsBool("TRADESTORE_HOT_ENABLED", true)},
		Warm: WarmConfig{
			Path: getEnv("TRADESTORE_WARM_PATH", filepath.Join(absCacheDir, "warm.db")),
		},
		Cool: CoolConfig{
			Path: getEnv("TRADESTORE_COOL_PATH", filepath.Join(absCacheDir, "cool.duckdb")),
		},

		DualWrite:    getEnvAsBool("TRADESTORE_DUAL_WRITE", true),
		AutoFallback: getEnvAsBool("TRADESTORE_AUTO_FALLBACK", true),

		LogDir:   getEnv("TRADESTORE_LOG_DIR", absCacheDir),
		LogLevel: getEnv("TRADESTORE_LOG_LEVEL", "info"),

		PositionsBatchSize: getEnvAsInt("TRADESTORE_POSITIONS_BATCH", 100),
		TradesBatchSize:    getEnvAsInt("TRADESTORE_TRADES_BATCH", 1000),
		CandlesBatchSize:   getEnvAsInt("TRADESTORE_CANDLES_BATCH", 10000),

		Backup: BackupConfig{
			Enabled:  getEnvAsBool("TRADESTORE_BACKUP_ENABLED", false),
			Bucket:   getEnv("TRADESTORE_BACKUP_BUCKET", ""),
			Endpoint: getEnv("TRADESTORE_BACKUP_ENDPOINT", ""),
			Region:   getEnv("TRADESTORE_BACKUP_REGION", "auto"),
			Prefix:   getEnv("TRADESTORE_BACKUP_PREFIX", "tradestore"),
		},

		TradernetAPIKey:    getEnv("TRADERNET_API_KEY", ""),
		TradernetAPISecret: getEnv("TRADERNET_API_SECRET", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the enumerated-mode and required-endpoint rules from
// SPEC_FULL.md §4.1 / spec.md §4.8.
func (c *Config) Validate() error {
	if !ValidMode(c.Mode) {
		return fmt.Errorf("invalid storage mode %q", c.Mode)
	}
	if (c.Mode == ModeWarm || c.Mode == ModeHybrid) && c.Warm.Path == "" {
		return fmt.Errorf("warm tier requires a database path")
	}
	if (c.Mode == ModeCool || c.Mode == ModeHybrid) && c.Cool.Path == "" {
		return fmt.Errorf("cool tier requires a database path")
	}
	if c.Backup.Enabled && c.Backup.Bucket == "" {
		return fmt.Errorf("backup enabled but no bucket configured")
	}
	return nil
}

// Redacted returns a credential-scrubbed summary of the configuration
// suitable for logging or a CLI --show-config flag.
func (c *Config) Redacted() map[string]string {
	return map[string]string{
		"mode":          string(c.Mode),
		"cache_dir":     c.CacheDir,
		"hot_enabled":   strconv.FormatBool(c.Hot.Enabled),
		"warm_path":     c.Warm.Path,
		"cool_path":     c.Cool.Path,
		"dual_write":    strconv.FormatBool(c.DualWrite),
		"auto_fallback": strconv.FormatBool(c.AutoFallback),
		"backup_bucket": c.Backup.Bucket,
		"tradernet_key": redact(c.TradernetAPIKey),
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// SeedFile is the YAML shape read by the migration toolkit's
// "Accounts/Strategies → WARM" step (SPEC_FULL.md §5).
type SeedFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
	Strategies []SeedStrategy `yaml:"strategies"`
}

type SeedAccount struct {
	AccountID      string  `yaml:"account_id"`
	AccountName    string  `yaml:"account_name"`
	Broker         string  `yaml:"broker"`
	InitialCapital float64 `yaml:"initial_capital"`
}

type SeedStrategy struct {
	StrategyName string            `yaml:"strategy_name"`
	StrategyCode string            `yaml:"strategy_code"`
	StrategyType string            `yaml:"strategy_type"`
	Version      string            `yaml:"version"`
	Description  string            `yaml:"description"`
	Params       map[string]any    `yaml:"params"`
}

// LoadSeedFile reads and parses a YAML account/strategy seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &sf, nil
}
