package hybrid

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (d *Dispatcher) RecordTrade(ctx context.Context, t domain.TradeRecord) error {
	if d.cool == nil {
		return d.file.RecordTrade(ctx, t)
	}
	coolErr := d.cool.RecordTrade(ctx, t)
	if !d.dualWrite {
		return coolErr
	}
	fileErr := d.file.RecordTrade(ctx, t)
	if coolErr != nil {
		d.warnDegraded("cool", "RecordTrade", coolErr)
	}
	if coolErr == nil || fileErr == nil {
		return nil
	}
	return coolErr
}

func (d *Dispatcher) QueryTrades(ctx context.Context, account string, startDate, endDate, code *string) ([]domain.TradeRecord, error) {
	if d.cool == nil {
		return d.file.QueryTrades(ctx, account, startDate, endDate, code)
	}
	rows, err := d.cool.QueryTrades(ctx, account, startDate, endDate, code)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("cool", "QueryTrades", err)
			return d.file.QueryTrades(ctx, account, startDate, endDate, code)
		}
		return nil, err
	}
	return rows, nil
}

func (d *Dispatcher) AggregateTrades(ctx context.Context, account, startDate, endDate string, groupBy domain.GroupBy) ([]domain.AggregateRow, error) {
	if d.cool == nil {
		return d.file.AggregateTrades(ctx, account, startDate, endDate, groupBy)
	}
	rows, err := d.cool.AggregateTrades(ctx, account, startDate, endDate, groupBy)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("cool", "AggregateTrades", err)
			return d.file.AggregateTrades(ctx, account, startDate, endDate, groupBy)
		}
		return nil, err
	}
	return rows, nil
}
