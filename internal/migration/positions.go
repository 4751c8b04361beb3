package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/store"
)

// positionSource is the file tier's three JSON documents, read directly
// from disk rather than through filestore.FileStore: the migration
// toolkit treats the file tier as a known on-disk layout (spec.md §6),
// not as a live store.Store, since the whole point of this step is
// moving data OUT of that layout into the HOT tier.
type positionSource struct {
	held map[string]int
	max  map[string]float64
	min  map[string]float64
}

func loadPositionSource(dir string) (*positionSource, error) {
	src := &positionSource{held: map[string]int{}, max: map[string]float64{}, min: map[string]float64{}}
	for path, dst := range map[string]any{
		filepath.Join(dir, "held_days.json"):  &src.held,
		filepath.Join(dir, "max_prices.json"): &src.max,
		filepath.Join(dir, "min_prices.json"): &src.min,
	} {
		b, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if len(b) == 0 {
			continue
		}
		if err := json.Unmarshal(b, dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return src, nil
}

// MigratePositions loads held-days/max-price/min-price documents from a
// file-tier cache directory and replays them into dest (normally the HOT
// tier) in batches of batchSize, overwriting whatever is already there —
// the step is idempotent: running it twice with the same source leaves
// dest in the same state (spec.md §4.7 "Positions JSON -> HOT").
//
// The source system moved these three maps through a Redis pipeline per
// batch (original_source/storage/redis_store.py); the HOT tier here is
// in-process, so "using pipelines" has no separate wire cost to amortize,
// but batching is kept to bound how much is logged/reported at once and to
// match the reporting cadence of the other migration steps.
func MigratePositions(ctx context.Context, w io.Writer, log zerolog.Logger, dir, account string, dest store.PositionStore, batchSize int) (*StepReport, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	PrintHeader(w, "Positions JSON -> HOT")

	src, err := loadPositionSource(dir)
	if err != nil {
		return nil, err
	}

	codes := map[string]struct{}{}
	for c := range src.held {
		codes[c] = struct{}{}
	}
	for c := range src.max {
		codes[c] = struct{}{}
	}
	for c := range src.min {
		codes[c] = struct{}{}
	}
	sorted := make([]string, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	report := NewStepReport("positions", time.Now())
	for i := 0; i < len(sorted); i += batchSize {
		end := i + batchSize
		if end > len(sorted) {
			end = len(sorted)
		}
		for _, code := range sorted[i:end] {
			if days, ok := src.held[code]; ok {
				if err := dest.UpdateHeldDays(ctx, code, account, days); err != nil {
					report.Failure++
					report.AddExample(fmt.Sprintf("%s: held days: %v", code, err))
					log.Error().Err(err).Str("code", code).Msg("migrate held days failed")
					continue
				}
			}
			if price, ok := src.max[code]; ok {
				if err := dest.UpdateMaxPrice(ctx, code, account, price); err != nil {
					report.Failure++
					report.AddExample(fmt.Sprintf("%s: max price: %v", code, err))
					log.Error().Err(err).Str("code", code).Msg("migrate max price failed")
					continue
				}
			}
			if price, ok := src.min[code]; ok {
				if err := dest.UpdateMinPrice(ctx, code, account, price); err != nil {
					report.Failure++
					report.AddExample(fmt.Sprintf("%s: min price: %v", code, err))
					log.Error().Err(err).Str("code", code).Msg("migrate min price failed")
					continue
				}
			}
			report.Success++
		}
		PrintProgress(w, "positions", end, len(sorted))
	}
	report.Finish(time.Now())
	PrintFooter(w, report)
	return report, nil
}
