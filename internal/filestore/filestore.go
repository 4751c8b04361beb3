// Package filestore implements the File tier (C2): the durable fallback
// that every write passes through under dual-write, and the last resort
// every read falls back to under auto-fallback (spec.md §4.2). Positions
// and accounts/strategies live in JSON documents; trades are an append-only
// CSV. All of it is guarded by a single process-local lock table keyed by
// file path (DESIGN.md "Thread coordination on the file tier").
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/silvertrail/tradestore/internal/domain"
)

// minFreeDiskBytes mirrors aristath-sentinel/internal/reliability/maintenance_jobs.go's
// disk-space guard before backups, scaled down for a single cache directory
// instead of a whole data volume.
const minFreeDiskBytes = 100 * 1024 * 1024

// FileStore is a single-account JSON/CSV store rooted at a cache directory.
// The file tier carries no per-account namespacing (spec.md §4.2 Open
// Question "should the file tier key by account?" — resolved: no, the file
// tier is the single-node fallback for one account's cache directory; a
// multi-account deployment gets one FileStore per account directory).
type FileStore struct {
	dir string
	log zerolog.Logger

	locks *lockTable

	heldPath    string
	incDatePath string
	maxPath     string
	minPath     string
	tradesPath    string
	accountPath   string
	strategyPath  string
}

// New builds a FileStore rooted at dir, creating dir if absent.
func New(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.Invalid("file", "New", err)
	}
	return &FileStore{
		dir:         dir,
		log:         log.With().Str("backend", "file").Logger(),
		locks:       newLockTable(),
		heldPath:    filepath.Join(dir, "held_days.json"),
		incDatePath: filepath.Join(dir, "held_days.incdate"),
		maxPath:     filepath.Join(dir, "max_prices.json"),
		minPath:     filepath.Join(dir, "min_prices.json"),
		tradesPath:   filepath.Join(dir, "trades.csv"),
		accountPath:  filepath.Join(dir, "accounts.json"),
		strategyPath: filepath.Join(dir, "strategies.json"),
	}, nil
}

func (f *FileStore) Close() error { return nil }

// --- held days -------------------------------------------------------

func (f *FileStore) GetHeldDays(ctx context.Context, code, account string) (int, bool, error) {
	l := f.locks.forPath(f.heldPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]int{}
	if err := loadJSON(f.heldPath, &m); err != nil {
		return 0, false, domain.Invalid("file", "GetHeldDays", err)
	}
	days, ok := m[code]
	return days, ok, nil
}

func (f *FileStore) UpdateHeldDays(ctx context.Context, code, account string, days int) error {
	l := f.locks.forPath(f.heldPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]int{}
	if err := loadJSON(f.heldPath, &m); err != nil {
		return domain.Invalid("file", "UpdateHeldDays", err)
	}
	m[code] = days
	if err := saveJSON(f.heldPath, m); err != nil {
		return domain.Invalid("file", "UpdateHeldDays", err)
	}
	return nil
}

func (f *FileStore) DeleteHeldDays(ctx context.Context, code, account string) error {
	l := f.locks.forPath(f.heldPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]int{}
	if err := loadJSON(f.heldPath, &m); err != nil {
		return domain.Invalid("file", "DeleteHeldDays", err)
	}
	delete(m, code)
	if err := saveJSON(f.heldPath, m); err != nil {
		return domain.Invalid("file", "DeleteHeldDays", err)
	}
	return nil
}

// BatchNewHeld resets the given codes to 0 held days, overwriting any
// existing entry (spec.md §4.1 "BatchNewHeld overwrites to 0, it does not
// skip codes already present" — the Open Question resolved in favor of the
// simpler, idempotent overwrite semantics).
func (f *FileStore) BatchNewHeld(ctx context.Context, account string, codes []string) error {
	l := f.locks.forPath(f.heldPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]int{}
	if err := loadJSON(f.heldPath, &m); err != nil {
		return domain.Invalid("file", "BatchNewHeld", err)
	}
	for _, c := range codes {
		m[c] = 0
	}
	if err := saveJSON(f.heldPath, m); err != nil {
		return domain.Invalid("file", "BatchNewHeld", err)
	}
	return nil
}

// AllHeldInc increments every held-days counter by one, at most once per
// calendar day. It reports whether an increment actually happened. The
// Redis original guarded this with a Lua script executing GET+compare+
// increment atomically server-side (original_source/storage/redis_store.py
// incr_all_held); here the file-path mutex is the equivalent atomic
// section, and the marker lives in a sidecar file rather than a reserved
// JSON key so the held-days map stays a plain map[string]int.
func (f *FileStore) AllHeldInc(ctx context.Context, account string) (bool, error) {
	l := f.locks.forPath(f.heldPath)
	l.Lock()
	defer l.Unlock()

	today := time.Now().Format("2006-01-02")
	last, err := readMarker(f.incDatePath)
	if err != nil {
		return false, domain.Invalid("file", "AllHeldInc", err)
	}
	if last == today {
		return false, nil
	}

	m := map[string]int{}
	if err := loadJSON(f.heldPath, &m); err != nil {
		return false, domain.Invalid("file", "AllHeldInc", err)
	}
	if len(m) == 0 {
		return false, nil
	}
	for k := range m {
		m[k]++
	}
	if err := saveJSON(f.heldPath, m); err != nil {
		return false, domain.Invalid("file", "AllHeldInc", err)
	}
	if err := writeMarker(f.incDatePath, today); err != nil {
		return false, domain.Invalid("file", "AllHeldInc", err)
	}
	f.log.Info().Str("date", today).Int("count", len(m)).Msg("aged positions")
	return true, nil
}

func readMarker(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

func writeMarker(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}

// --- price extremes ----------------------------------------------------

func (f *FileStore) GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return f.getPrice(f.maxPath, code)
}

func (f *FileStore) UpdateMaxPrice(ctx context.Context, code, account string, price float64) error {
	return f.setPrice(f.maxPath, code, price)
}

func (f *FileStore) GetMinPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return f.getPrice(f.minPath, code)
}

func (f *FileStore) UpdateMinPrice(ctx context.Context, code, account string, price float64) error {
	return f.setPrice(f.minPath, code, price)
}

func (f *FileStore) getPrice(path, code string) (float64, bool, error) {
	l := f.locks.forPath(path)
	l.Lock()
	defer l.Unlock()

	m := map[string]float64{}
	if err := loadJSON(path, &m); err != nil {
		return 0, false, domain.Invalid("file", "getPrice", err)
	}
	p, ok := m[code]
	return p, ok, nil
}

func (f *FileStore) setPrice(path, code string, price float64) error {
	l := f.locks.forPath(path)
	l.Lock()
	defer l.Unlock()

	m := map[string]float64{}
	if err := loadJSON(path, &m); err != nil {
		return domain.Invalid("file", "setPrice", err)
	}
	m[code] = domain.Round3(price)
	if err := saveJSON(path, m); err != nil {
		return domain.Invalid("file", "setPrice", err)
	}
	return nil
}

// --- candles: deliberately a stub on the file tier ---------------------
//
// The file tier never stores candle data; GetKline/BatchGetKline return an
// empty result rather than domain.Unsupported so the hybrid dispatcher's
// file-only mode and COOL-down fallback path (internal/hybrid/candles.go)
// get a documented empty read instead of a hard error (spec.md §4.2, C6
// routing table).

func (f *FileStore) GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error) {
	return nil, nil
}

func (f *FileStore) BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error) {
	return map[string][]domain.Candle{}, nil
}

// --- health --------------------------------------------------------

// HealthCheck reports whether the cache directory is reachable; it also
// logs (but does not fail on) low free disk space, the same advisory signal
// checkDiskSpace gives before a maintenance run.
func (f *FileStore) HealthCheck(ctx context.Context) (ok bool) {
	if _, err := os.Stat(f.dir); err != nil {
		return false
	}
	usage, err := disk.UsageWithContext(ctx, f.dir)
	if err != nil {
		f.log.Warn().Err(err).Msg("disk usage check failed")
		return true
	}
	if usage.Free < minFreeDiskBytes {
		f.log.Warn().Uint64("free_bytes", usage.Free).Msg("file tier cache directory low on disk space")
	}
	return true
}
