package filestore

import (
	"context"
	"time"

	"github.com/silvertrail/tradestore/internal/domain"
)

// accountRecord is the accounts.json wire shape (spec.md §4.2: "map by
// identifier to an object with the fields from §3, plus created_at/
// updated_at ISO-8601 strings").
type accountRecord struct {
	AccountName    string    `json:"account_name"`
	Broker         string    `json:"broker"`
	InitialCapital float64   `json:"initial_capital"`
	CurrentCapital float64   `json:"current_capital"`
	TotalAssets    float64   `json:"total_assets"`
	PositionValue  float64   `json:"position_value"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// strategyRecord is the strategies.json wire shape: the strategy's own
// fields plus the inline params map for the currently-active version only.
// The file tier does not retain version history (spec.md §4.2): that is a
// WARM-tier-only concern.
type strategyRecord struct {
	StrategyType string                        `json:"strategy_type"`
	Version      string                         `json:"version"`
	Status       string                         `json:"status"`
	Description  string                         `json:"description"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
	Params       map[string]domain.ParamValue   `json:"params"`
}

func (f *FileStore) CreateAccount(ctx context.Context, a domain.Account) (bool, error) {
	l := f.locks.forPath(f.accountPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]accountRecord{}
	if err := loadJSON(f.accountPath, &m); err != nil {
		return false, domain.Invalid("file", "CreateAccount", err)
	}
	if _, exists := m[a.AccountID]; exists {
		return false, nil
	}
	now := time.Now().UTC()
	m[a.AccountID] = accountRecord{
		AccountName:    a.AccountName,
		Broker:         string(a.Broker),
		InitialCapital: domain.Round2(a.InitialCapital),
		CurrentCapital: domain.Round2(a.InitialCapital),
		TotalAssets:    domain.Round2(a.InitialCapital),
		Status:         string(domain.AccountActive),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := saveJSON(f.accountPath, m); err != nil {
		return false, domain.Invalid("file", "CreateAccount", err)
	}
	return true, nil
}

func (f *FileStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	l := f.locks.forPath(f.accountPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]accountRecord{}
	if err := loadJSON(f.accountPath, &m); err != nil {
		return nil, domain.Invalid("file", "GetAccount", err)
	}
	r, ok := m[accountID]
	if !ok {
		return nil, nil
	}
	return &domain.Account{
		AccountID:      accountID,
		AccountName:    r.AccountName,
		Broker:         domain.Broker(r.Broker),
		InitialCapital: r.InitialCapital,
		CurrentCapital: r.CurrentCapital,
		TotalAssets:    r.TotalAssets,
		PositionValue:  r.PositionValue,
		Status:         domain.AccountStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

func (f *FileStore) UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error {
	l := f.locks.forPath(f.accountPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]accountRecord{}
	if err := loadJSON(f.accountPath, &m); err != nil {
		return domain.Invalid("file", "UpdateAccountCapital", err)
	}
	r, ok := m[accountID]
	if !ok {
		return domain.NewError(domain.KindNotFound, "file", "UpdateAccountCapital", nil)
	}
	r.CurrentCapital = domain.Round2(currentCapital)
	r.TotalAssets = domain.Round2(totalAssets)
	r.PositionValue = domain.Round2(positionValue)
	r.UpdatedAt = time.Now().UTC()
	m[accountID] = r
	if err := saveJSON(f.accountPath, m); err != nil {
		return domain.Invalid("file", "UpdateAccountCapital", err)
	}
	return nil
}

func (f *FileStore) CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error) {
	l := f.locks.forPath(f.strategyPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]strategyRecord{}
	if err := loadJSON(f.strategyPath, &m); err != nil {
		return 0, false, domain.Invalid("file", "CreateStrategy", err)
	}
	if _, exists := m[s.StrategyCode]; exists {
		return 0, false, nil
	}
	now := time.Now().UTC()
	m[s.StrategyCode] = strategyRecord{
		StrategyType: string(s.StrategyType),
		Version:      s.Version,
		Status:       string(domain.StrategyActive),
		Description:  s.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
		Params:       map[string]domain.ParamValue{},
	}
	if err := saveJSON(f.strategyPath, m); err != nil {
		return 0, false, domain.Invalid("file", "CreateStrategy", err)
	}
	return 0, true, nil
}

func (f *FileStore) GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error) {
	l := f.locks.forPath(f.strategyPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]strategyRecord{}
	if err := loadJSON(f.strategyPath, &m); err != nil {
		return nil, false, domain.Invalid("file", "GetStrategyParams", err)
	}
	r, ok := m[strategyCode]
	if !ok {
		return nil, false, nil
	}
	if r.Params == nil {
		return map[string]domain.ParamValue{}, true, nil
	}
	return r.Params, true, nil
}

// SaveStrategyParams replaces the inline active-version params map. Unlike
// the WARM tier there is no version history to roll over here; the file
// tier only ever reflects the currently-active set (spec.md §4.2).
func (f *FileStore) SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error) {
	l := f.locks.forPath(f.strategyPath)
	l.Lock()
	defer l.Unlock()

	m := map[string]strategyRecord{}
	if err := loadJSON(f.strategyPath, &m); err != nil {
		return false, domain.Invalid("file", "SaveStrategyParams", err)
	}
	r, ok := m[strategyCode]
	if !ok {
		return false, nil
	}
	r.Params = params
	r.UpdatedAt = time.Now().UTC()
	m[strategyCode] = r
	if err := saveJSON(f.strategyPath, m); err != nil {
		return false, domain.Invalid("file", "SaveStrategyParams", err)
	}
	return true, nil
}

func (f *FileStore) CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (map[string]domain.ParamValue, map[string]domain.ParamValue, map[string][2]domain.ParamValue, error) {
	current, ok, err := f.GetStrategyParams(ctx, strategyCode)
	if err != nil {
		return nil, nil, nil, err
	}
	if !ok {
		current = map[string]domain.ParamValue{}
	}

	added := map[string]domain.ParamValue{}
	deleted := map[string]domain.ParamValue{}
	modified := map[string][2]domain.ParamValue{}

	for k, v := range newParams {
		old, existed := current[k]
		if !existed {
			added[k] = v
			continue
		}
		if !old.Equal(v) {
			modified[k] = [2]domain.ParamValue{old, v}
		}
	}
	for k, v := range current {
		if _, stillPresent := newParams[k]; !stillPresent {
			deleted[k] = v
		}
	}
	return added, deleted, modified, nil
}
