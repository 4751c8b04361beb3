package warmstore

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (w *WarmStore) GetHeldDays(ctx context.Context, code, account string) (int, bool, error) {
	return 0, false, domain.Unsupported("warm", "GetHeldDays")
}

func (w *WarmStore) UpdateHeldDays(ctx context.Context, code, account string, days int) error {
	return domain.Unsupported("warm", "UpdateHeldDays")
}

func (w *WarmStore) DeleteHeldDays(ctx context.Context, code, account string) error {
	return domain.Unsupported("warm", "DeleteHeldDays")
}

func (w *WarmStore) BatchNewHeld(ctx context.Context, account string, codes []string) error {
	return domain.Unsupported("warm", "BatchNewHeld")
}

func (w *WarmStore) AllHeldInc(ctx context.Context, account string) (bool, error) {
	return false, domain.Unsupported("warm", "AllHeldInc")
}

func (w *WarmStore) GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return 0, false, domain.Unsupported("warm", "GetMaxPrice")
}

func (w *WarmStore) UpdateMaxPrice(ctx context.Context, code, account string, price float64) error {
	return domain.Unsupported("warm", "UpdateMaxPrice")
}

func (w *WarmStore) GetMinPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return 0, false, domain.Unsupported("warm", "GetMinPrice")
}

func (w *WarmStore) UpdateMinPrice(ctx context.Context, code, account string, price float64) error {
	return domain.Unsupported("warm", "UpdateMinPrice")
}

func (w *WarmStore) RecordTrade(ctx context.Context, t domain.TradeRecord) error {
	return domain.Unsupported("warm", "RecordTrade")
}

func (w *WarmStore) QueryTrades(ctx context.Context, account string, startDate, endDate, code *string) ([]domain.TradeRecord, error) {
	return nil, domain.Unsupported("warm", "QueryTrades")
}

func (w *WarmStore) AggregateTrades(ctx context.Context, account, startDate, endDate string, groupBy domain.GroupBy) ([]domain.AggregateRow, error) {
	return nil, domain.Unsupported("warm", "AggregateTrades")
}

func (w *WarmStore) GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error) {
	return nil, domain.Unsupported("warm", "GetKline")
}

func (w *WarmStore) BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error) {
	return nil, domain.Unsupported("warm", "BatchGetKline")
}
