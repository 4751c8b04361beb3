package hybrid

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

// GetKline routes to COOL; the file tier's candle stub deliberately returns
// empty (spec.md §4.2), so falling back to it on a COOL failure is still
// "dual-write for append-only" in spirit but yields no read-side recovery.
func (d *Dispatcher) GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error) {
	if d.cool == nil {
		return d.file.GetKline(ctx, code, startDate, endDate, frequency)
	}
	series, err := d.cool.GetKline(ctx, code, startDate, endDate, frequency)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("cool", "GetKline", err)
			return d.file.GetKline(ctx, code, startDate, endDate, frequency)
		}
		return nil, err
	}
	return series, nil
}

func (d *Dispatcher) BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error) {
	if d.cool == nil {
		return d.file.BatchGetKline(ctx, codes, startDate, endDate, frequency)
	}
	batch, err := d.cool.BatchGetKline(ctx, codes, startDate, endDate, frequency)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("cool", "BatchGetKline", err)
			return d.file.BatchGetKline(ctx, codes, startDate, endDate, frequency)
		}
		return nil, err
	}
	return batch, nil
}
