package coolstore

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (c *CoolStore) GetHeldDays(ctx context.Context, code, account string) (int, bool, error) {
	return 0, false, domain.Unsupported("cool", "GetHeldDays")
}

func (c *CoolStore) UpdateHeldDays(ctx context.Context, code, account string, days int) error {
	return domain.Unsupported("cool", "UpdateHeldDays")
}

func (c *CoolStore) DeleteHeldDays(ctx context.Context, code, account string) error {
	return domain.Unsupported("cool", "DeleteHeldDays")
}

func (c *CoolStore) BatchNewHeld(ctx context.Context, account string, codes []string) error {
	return domain.Unsupported("cool", "BatchNewHeld")
}

func (c *CoolStore) AllHeldInc(ctx context.Context, account string) (bool, error) {
	return false, domain.Unsupported("cool", "AllHeldInc")
}

func (c *CoolStore) GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return 0, false, domain.Unsupported("cool", "GetMaxPrice")
}

func (c *CoolStore) UpdateMaxPrice(ctx context.Context, code, account string, price float64) error {
	return domain.Unsupported("cool", "UpdateMaxPrice")
}

func (c *CoolStore) GetMinPrice(ctx context.Context, code, account string) (float64, bool, error) {
	return 0, false, domain.Unsupported("cool", "GetMinPrice")
}

func (c *CoolStore) UpdateMinPrice(ctx context.Context, code, account string, price float64) error {
	return domain.Unsupported("cool", "UpdateMinPrice")
}

func (c *CoolStore) CreateAccount(ctx context.Context, a domain.Account) (bool, error) {
	return false, domain.Unsupported("cool", "CreateAccount")
}

func (c *CoolStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return nil, domain.Unsupported("cool", "GetAccount")
}

func (c *CoolStore) UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error {
	return domain.Unsupported("cool", "UpdateAccountCapital")
}

func (c *CoolStore) CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error) {
	return 0, false, domain.Unsupported("cool", "CreateStrategy")
}

func (c *CoolStore) GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error) {
	return nil, false, domain.Unsupported("cool", "GetStrategyParams")
}

func (c *CoolStore) SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error) {
	return false, domain.Unsupported("cool", "SaveStrategyParams")
}

func (c *CoolStore) CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (map[string]domain.ParamValue, map[string]domain.ParamValue, map[string][2]domain.ParamValue, error) {
	return nil, nil, nil, domain.Unsupported("cool", "CompareStrategyParams")
}
