// Package hotstore implements the HOT tier (C3): a low-latency, in-process
// position-state cache. The source backs this tier with Redis hashes keyed
// `held_days:{account}`, `max_prices:{account}`, `min_prices:{account}`, and
// a `_inc_date:{account}` idempotency marker, with all_held_inc driven by a
// server-side Lua script for atomicity (original_source/storage/
// redis_store.py). No Redis client library appears anywhere in the example
// pack, so this tier is reimplemented in-process: one mutex-guarded map
// table per account preserves the same key shape and the same atomicity
// guarantee for the daily aging step, at the cost of losing cross-process
// sharing — an explicit substitution recorded in DESIGN.md, not a Redis
// client dressed up as something else.
package hotstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/domain"
)

type accountBucket struct {
	mu       sync.Mutex
	held     map[string]int
	maxPrice map[string]float64
	minPrice map[string]float64
	incDate  string
}

func newAccountBucket() *accountBucket {
	return &accountBucket{
		held:     map[string]int{},
		maxPrice: map[string]float64{},
		minPrice: map[string]float64{},
	}
}

// HotStore is the in-process HOT tier. Safe for concurrent use.
type HotStore struct {
	mu       sync.RWMutex
	accounts map[string]*accountBucket
	log      zerolog.Logger
}

// New builds an empty HotStore.
func New(log zerolog.Logger) *HotStore {
	return &HotStore{
		accounts: map[string]*accountBucket{},
		log:      log.With().Str("backend", "hot").Logger(),
	}
}

func (h *HotStore) bucket(account string) *accountBucket {
	h.mu.RLock()
	b, ok := h.accounts[account]
	h.mu.RUnlock()
	if ok {
		return b
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if b, ok = h.accounts[account]; ok {
		return b
	}
	b = newAccountBucket()
	h.accounts[account] = b
	return b
}

func (h *HotStore) Close() error { return nil }

func (h *HotStore) HealthCheck(ctx context.Context) (ok bool) { return true }

// --- position state ----------------------------------------------------

func (h *HotStore) GetHeldDays(ctx context.Context, code, account string) (int, bool, error) {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	days, ok := b.held[code]
	return days, ok, nil
}

func (h *HotStore) UpdateHeldDays(ctx context.Context, code, account string, days int) error {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.held[code] = days
	return nil
}

func (h *HotStore) DeleteHeldDays(ctx context.Context, code, account string) error {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.held, code)
	return nil
}

func (h *HotStore) BatchNewHeld(ctx context.Context, account string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range codes {
		b.held[c] = 0
	}
	return nil
}

// AllHeldInc is the in-process equivalent of the source's Lua script: the
// per-account mutex makes the check-then-increment-then-mark sequence
// atomic with respect to every other caller on this account, which is all
// the Lua script bought over plain HGETALL/HSET on a single Redis node.
func (h *HotStore) AllHeldInc(ctx context.Context, account string) (bool, error) {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if b.incDate == today {
		return false, nil
	}
	if len(b.held) == 0 {
		b.incDate = today
		return false, nil
	}
	for code, days := range b.held {
		b.held[code] = days + 1
	}
	b.incDate = today
	h.log.Info().Str("account", account).Str("date", today).Int("count", len(b.held)).Msg("aged positions")
	return true, nil
}

func (h *HotStore) GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error) {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.maxPrice[code]
	return p, ok, nil
}

func (h *HotStore) UpdateMaxPrice(ctx context.Context, code, account string, price float64) error {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxPrice[code] = domain.Round3(price)
	return nil
}

func (h *HotStore) GetMinPrice(ctx context.Context, code, account string) (float64, bool, error) {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.minPrice[code]
	return p, ok, nil
}

func (h *HotStore) UpdateMinPrice(ctx context.Context, code, account string, price float64) error {
	b := h.bucket(account)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minPrice[code] = domain.Round3(price)
	return nil
}

// --- everything else is out of class for the HOT tier -------------------

func (h *HotStore) RecordTrade(ctx context.Context, t domain.TradeRecord) error {
	return domain.Unsupported("hot", "RecordTrade")
}

func (h *HotStore) QueryTrades(ctx context.Context, account string, startDate, endDate, code *string) ([]domain.TradeRecord, error) {
	return nil, domain.Unsupported("hot", "QueryTrades")
}

func (h *HotStore) AggregateTrades(ctx context.Context, account, startDate, endDate string, groupBy domain.GroupBy) ([]domain.AggregateRow, error) {
	return nil, domain.Unsupported("hot", "AggregateTrades")
}

func (h *HotStore) GetKline(ctx context.Context, code, startDate, endDate, frequency string) ([]domain.Candle, error) {
	return nil, domain.Unsupported("hot", "GetKline")
}

func (h *HotStore) BatchGetKline(ctx context.Context, codes []string, startDate, endDate, frequency string) (map[string][]domain.Candle, error) {
	return nil, domain.Unsupported("hot", "BatchGetKline")
}

func (h *HotStore) CreateAccount(ctx context.Context, a domain.Account) (bool, error) {
	return false, domain.Unsupported("hot", "CreateAccount")
}

func (h *HotStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return nil, domain.Unsupported("hot", "GetAccount")
}

func (h *HotStore) UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error {
	return domain.Unsupported("hot", "UpdateAccountCapital")
}

func (h *HotStore) CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error) {
	return 0, false, domain.Unsupported("hot", "CreateStrategy")
}

func (h *HotStore) GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error) {
	return nil, false, domain.Unsupported("hot", "GetStrategyParams")
}

func (h *HotStore) SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error) {
	return false, domain.Unsupported("hot", "SaveStrategyParams")
}

func (h *HotStore) CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (map[string]domain.ParamValue, map[string]domain.ParamValue, map[string][2]domain.ParamValue, error) {
	return nil, nil, nil, domain.Unsupported("hot", "CompareStrategyParams")
}
