package coolstore

import (
	"context"
	"database/sql"

	"github.com/silvertrail/tradestore/internal/domain"
)

// ListAllTrades returns every trade row regardless of account, for the
// migration toolkit's Export step (spec.md §4.7). QueryTrades always
// filters by account_id, which makes it unsuitable for a full dump.
func (c *CoolStore) ListAllTrades(ctx context.Context) ([]domain.TradeRecord, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT account_id, code, ts, date, name, order_type, remark, price, volume, amount, strategy_name
		FROM trade ORDER BY ts ASC`)
	if err != nil {
		return nil, domain.Unavailable("cool", "ListAllTrades", err)
	}
	defer rows.Close()

	var out []domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var orderType string
		if err := rows.Scan(&t.AccountID, &t.Code, &t.Timestamp, &t.Date, &t.Name, &orderType,
			&t.Remark, &t.Price, &t.Volume, &t.Amount, &t.StrategyName); err != nil {
			return nil, domain.Unavailable("cool", "ListAllTrades", err)
		}
		t.OrderType = domain.OrderType(orderType)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListCandleCodes returns every distinct InstrumentCode with candle data.
func (c *CoolStore) ListCandleCodes(ctx context.Context) ([]string, error) {
	rows, err := c.conn.QueryContext(ctx, `SELECT DISTINCT code FROM daily_kline ORDER BY code ASC`)
	if err != nil {
		return nil, domain.Unavailable("cool", "ListCandleCodes", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, domain.Unavailable("cool", "ListCandleCodes", err)
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// ListCandlesForCode returns every candle row for one code, ordered by date.
func (c *CoolStore) ListCandlesForCode(ctx context.Context, code string) ([]domain.Candle, error) {
	rows, err := c.conn.QueryContext(ctx, `
		SELECT code, date, open, high, low, close, volume, amount
		FROM daily_kline WHERE code = ? ORDER BY date ASC`, code)
	if err != nil {
		return nil, domain.Unavailable("cool", "ListCandlesForCode", err)
	}
	defer rows.Close()

	var out []domain.Candle
	for rows.Next() {
		var cd domain.Candle
		var volume sql.NullInt64
		if err := rows.Scan(&cd.Code, &cd.Date, &cd.Open, &cd.High, &cd.Low, &cd.Close, &volume, &cd.Amount); err != nil {
			return nil, domain.Unavailable("cool", "ListCandlesForCode", err)
		}
		cd.Volume = volume.Int64
		out = append(out, cd)
	}
	return out, rows.Err()
}
