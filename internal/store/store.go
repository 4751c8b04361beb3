// Package store defines the uniform operation set every storage backend
// implements (spec.md §4.1, C1). One interface per operation class lets
// each tier implement only the classes it supports instead of raising
// "not implemented" from a single monolithic interface (see DESIGN.md's
// note on interface polymorphism); the hybrid dispatcher embeds all of
// them and is the only implementation that satisfies the full Store.
package store

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

// PositionStore is the HOT-class position-state operation set.
type PositionStore interface {
	GetHeldDays(ctx context.Context, code, account string) (int, bool, error)
	UpdateHeldDays(ctx context.Context, code, account string, days int) error
	DeleteHeldDays(ctx context.Context, code, account string) error
	BatchNewHeld(ctx context.Context, account string, codes []string) error
	AllHeldInc(ctx context.Context, account string) (bool, error)
	GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error)
	UpdateMaxPrice(ctx context.Context, code, account string, price float64) error
	GetMinPrice(ctx context.Context, code, account string) (float64, bool, error)
	UpdateMinPrice(ctx context.Context, code, account string, price float64) error
}

// TradeStore is the COOL-class trade-record operation set.
type TradeStore interface {
	RecordTrade(ctx context.Context, t domain.TradeRecord) error
	QueryTrades(ctx context.Context, account string, startDate, endDate, code *string) ([]domain.TradeRecord, error)
	AggregateTrades(ctx context.Context, account, startDate, endDate string, groupBy domain.GroupBy) ([]domain.AggregateRow, error)
}

// CandleStore is the COOL-class candle (OHLCV) operation set.
type CandleStore interface {
	GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error)
	BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error)
}

// AccountStore is the WARM-class account management operation set.
type AccountStore interface {
	CreateAccount(ctx context.Context, a domain.Account) (bool, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error
}

// StrategyStore is the WARM-class strategy management operation set.
type StrategyStore interface {
	CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error)
	GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error)
	SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error)
	CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (added, deleted map[string]domain.ParamValue, modified map[string][2]domain.ParamValue, err error)
}

// HealthStatus reports per-backend reachability plus an aggregate.
type HealthStatus struct {
	Backends map[string]bool
	Healthy  bool
}

// Store is the full, uniform operation set (spec.md §4.1). Only the hybrid
// dispatcher is required to implement every method without returning
// domain.ErrUnsupported; single-tier stores implement the classes natural
// to their tier and return domain.Unsupported(...) for the rest.
type Store interface {
	PositionStore
	TradeStore
	CandleStore
	AccountStore
	StrategyStore

	HealthCheck(ctx context.Context) HealthStatus
	Close() error
}
