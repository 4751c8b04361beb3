package coolstore

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

// GetKline returns the daily candle series for code, ascending by date.
// Only the "daily" frequency is required (spec.md §4.5); any other value
// is a business-rule violation, not a query that silently returns nothing.
func (c *CoolStore) GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error) {
	if frequency != "" && frequency != "daily" {
		return nil, domain.Invalid("cool", "GetKline", errUnsupportedFrequency(frequency))
	}
	rows, err := c.conn.QueryContext(ctx, `
		SELECT code, date, open, high, low, close, volume, amount
		FROM daily_kline WHERE code = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`, code, startDate, endDate)
	if err != nil {
		return nil, domain.Unavailable("cool", "GetKline", err)
	}
	defer rows.Close()

	var out []domain.Candle
	for rows.Next() {
		var cd domain.Candle
		if err := rows.Scan(&cd.Code, &cd.Date, &cd.Open, &cd.High, &cd.Low, &cd.Close, &cd.Volume, &cd.Amount); err != nil {
			return nil, domain.Unavailable("cool", "GetKline", err)
		}
		out = append(out, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("cool", "GetKline", err)
	}
	return out, nil
}

// BatchGetKline runs a single IN (...) query and splits results by code
// client-side (spec.md §4.5 "BatchGetKline: single query with code IN (…)").
func (c *CoolStore) BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error) {
	if frequency != "" && frequency != "daily" {
		return nil, domain.Invalid("cool", "BatchGetKline", errUnsupportedFrequency(frequency))
	}
	if len(codes) == 0 {
		return map[string][]domain.Candle{}, nil
	}

	placeholders := make([]any, 0, len(codes)+2)
	placeholders = append(placeholders, startDate, endDate)
	query := `SELECT code, date, open, high, low, close, volume, amount FROM daily_kline WHERE date >= ? AND date <= ? AND code IN (`
	for i, code := range codes {
		if i > 0 {
			query += ", "
		}
		query += "?"
		placeholders = append(placeholders, code)
	}
	query += ") ORDER BY code ASC, date ASC"

	rows, err := c.conn.QueryContext(ctx, query, placeholders...)
	if err != nil {
		return nil, domain.Unavailable("cool", "BatchGetKline", err)
	}
	defer rows.Close()

	out := map[string][]domain.Candle{}
	for rows.Next() {
		var cd domain.Candle
		if err := rows.Scan(&cd.Code, &cd.Date, &cd.Open, &cd.High, &cd.Low, &cd.Close, &cd.Volume, &cd.Amount); err != nil {
			return nil, domain.Unavailable("cool", "BatchGetKline", err)
		}
		out[cd.Code] = append(out[cd.Code], cd)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("cool", "BatchGetKline", err)
	}
	return out, nil
}

func errUnsupportedFrequency(frequency string) error {
	return &unsupportedFrequencyError{frequency: frequency}
}

type unsupportedFrequencyError struct{ frequency string }

func (e *unsupportedFrequencyError) Error() string {
	return "unsupported kline frequency: " + e.frequency
}
