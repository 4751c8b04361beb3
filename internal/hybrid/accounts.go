package hybrid

import (
	"context"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (d *Dispatcher) CreateAccount(ctx context.Context, a domain.Account) (bool, error) {
	if d.warm == nil {
		return d.file.CreateAccount(ctx, a)
	}
	ok, err := d.warm.CreateAccount(ctx, a)
	if !d.dualWrite {
		return ok, err
	}
	fileOK, fileErr := d.file.CreateAccount(ctx, a)
	if err != nil {
		d.warnDegraded("warm", "CreateAccount", err)
	}
	if err == nil {
		return ok, nil
	}
	if fileErr == nil {
		return fileOK, nil
	}
	return false, err
}

func (d *Dispatcher) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if d.warm == nil {
		return d.file.GetAccount(ctx, accountID)
	}
	a, err := d.warm.GetAccount(ctx, accountID)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("warm", "GetAccount", err)
			return d.file.GetAccount(ctx, accountID)
		}
		return nil, err
	}
	return a, nil
}

func (d *Dispatcher) UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error {
	if d.warm == nil {
		return d.file.UpdateAccountCapital(ctx, accountID, currentCapital, totalAssets, positionValue)
	}
	warmErr := d.warm.UpdateAccountCapital(ctx, accountID, currentCapital, totalAssets, positionValue)
	if !d.dualWrite {
		return warmErr
	}
	fileErr := d.file.UpdateAccountCapital(ctx, accountID, currentCapital, totalAssets, positionValue)
	if warmErr != nil {
		d.warnDegraded("warm", "UpdateAccountCapital", warmErr)
	}
	if warmErr == nil || fileErr == nil {
		return nil
	}
	return warmErr
}

func (d *Dispatcher) CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error) {
	if d.warm == nil {
		return d.file.CreateStrategy(ctx, s)
	}
	id, ok, err := d.warm.CreateStrategy(ctx, s)
	if !d.dualWrite {
		return id, ok, err
	}
	_, fileOK, fileErr := d.file.CreateStrategy(ctx, s)
	if err != nil {
		d.warnDegraded("warm", "CreateStrategy", err)
	}
	if err == nil {
		return id, ok, nil
	}
	if fileErr == nil {
		return 0, fileOK, nil
	}
	return 0, false, err
}

func (d *Dispatcher) GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error) {
	if d.warm == nil {
		return d.file.GetStrategyParams(ctx, strategyCode)
	}
	params, ok, err := d.warm.GetStrategyParams(ctx, strategyCode)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("warm", "GetStrategyParams", err)
			return d.file.GetStrategyParams(ctx, strategyCode)
		}
		return nil, false, err
	}
	return params, ok, nil
}

func (d *Dispatcher) SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error) {
	if d.warm == nil {
		return d.file.SaveStrategyParams(ctx, strategyCode, params, remark)
	}
	ok, err := d.warm.SaveStrategyParams(ctx, strategyCode, params, remark)
	if !d.dualWrite {
		return ok, err
	}
	fileOK, fileErr := d.file.SaveStrategyParams(ctx, strategyCode, params, remark)
	if err != nil {
		d.warnDegraded("warm", "SaveStrategyParams", err)
	}
	if err == nil {
		return ok, nil
	}
	if fileErr == nil {
		return fileOK, nil
	}
	return false, err
}

func (d *Dispatcher) CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (map[string]domain.ParamValue, map[string]domain.ParamValue, map[string][2]domain.ParamValue, error) {
	if d.warm == nil {
		return d.file.CompareStrategyParams(ctx, strategyCode, newParams)
	}
	added, deleted, modified, err := d.warm.CompareStrategyParams(ctx, strategyCode, newParams)
	if err != nil {
		if d.autoFallback {
			d.warnDegraded("warm", "CompareStrategyParams", err)
			return d.file.CompareStrategyParams(ctx, strategyCode, newParams)
		}
		return nil, nil, nil, err
	}
	return added, deleted, modified, nil
}
