package coolstore

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

// UpsertCandle inserts or replaces one OHLCV row, used by the migration
// toolkit's candle CSV loader (spec.md §6 "Candles CSV directory → COOL").
func (c *CoolStore) UpsertCandle(ctx context.Context, cd domain.Candle) error {
	if cd.Low > cd.Open || cd.Low > cd.Close || cd.High < cd.Open || cd.High < cd.Close {
		return domain.Invalid("cool", "UpsertCandle", errCandleInvariant)
	}
	_, err := c.conn.ExecContext(ctx, `
		INSERT INTO daily_kline (code, date, open, high, low, close, volume, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code, date) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume, amount = excluded.amount`,
		cd.Code, cd.Date, domain.Round3(cd.Open), domain.Round3(cd.High), domain.Round3(cd.Low),
		domain.Round3(cd.Close), cd.Volume, domain.Round2(cd.Amount),
	)
	if err != nil {
		return domain.Unavailable("cool", "UpsertCandle", err)
	}
	return nil
}

var errCandleInvariant = candleInvariantError{}

type candleInvariantError struct{}

func (candleInvariantError) Error() string { return "low must be <= open,close <= high" }
