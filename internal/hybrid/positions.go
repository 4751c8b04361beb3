package hybrid

import (
	"context"
)

// primaryPosition returns the HOT tier if present, else the file tier
// (a deployment with no HOT tier configured routes position state straight
// to the file tier — still correct, just without the low-latency path).
func (d *Dispatcher) primaryPosition() domainPositionStore {
	if d.hot != nil {
		return d.hot
	}
	return d.file
}

type domainPositionStore interface {
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

func (d *Dispatcher) GetHeldDays(ctx context.Context, code, account string) (int, bool, error) {
	primary := d.primaryPosition()
	days, ok, err := primary.GetHeldDays(ctx, code, account)
	if err != nil {
		if d.autoFallback && primary != d.file {
			d.warnDegraded("hot", "GetHeldDays", err)
			return d.file.GetHeldDays(ctx, code, account)
		}
		return 0, false, err
	}
	return days, ok, nil
}

func (d *Dispatcher) UpdateHeldDays(ctx context.Context, code, account string, days int) error {
	primary := d.primaryPosition()
	primaryErr := primary.UpdateHeldDays(ctx, code, account, days)
	if !d.dualWrite || primary == d.file {
		return primaryErr
	}
	fileErr := d.file.UpdateHeldDays(ctx, code, account, days)
	if primaryErr != nil {
		d.warnDegraded("hot", "UpdateHeldDays", primaryErr)
	}
	if primaryErr == nil || fileErr == nil {
		return nil
	}
	return primaryErr
}

func (d *Dispatcher) DeleteHeldDays(ctx context.Context, code, account string) error {
	primary := d.primaryPosition()
	primaryErr := primary.DeleteHeldDays(ctx, code, account)
	if !d.dualWrite || primary == d.file {
		return primaryErr
	}
	fileErr := d.file.DeleteHeldDays(ctx, code, account)
	if primaryErr != nil {
		d.warnDegraded("hot", "DeleteHeldDays", primaryErr)
	}
	if primaryErr == nil || fileErr == nil {
		return nil
	}
	return primaryErr
}

func (d *Dispatcher) BatchNewHeld(ctx context.Context, account string, codes []string) error {
	primary := d.primaryPosition()
	primaryErr := primary.BatchNewHeld(ctx, account, codes)
	if !d.dualWrite || primary == d.file {
		return primaryErr
	}
	fileErr := d.file.BatchNewHeld(ctx, account, codes)
	if primaryErr != nil {
		d.warnDegraded("hot", "BatchNewHeld", primaryErr)
	}
	if primaryErr == nil || fileErr == nil {
		return nil
	}
	return primaryErr
}

// AllHeldInc dual-writes the daily aging step to both tiers when both are
// present, so the file tier's own _inc_date marker stays in sync with the
// HOT tier's — each tier tracks its own idempotency marker independently.
func (d *Dispatcher) AllHeldInc(ctx context.Context, account string) (bool, error) {
	primary := d.primaryPosition()
	incremented, primaryErr := primary.AllHeldInc(ctx, account)
	if !d.dualWrite || primary == d.file {
		return incremented, primaryErr
	}
	fileIncremented, fileErr := d.file.AllHeldInc(ctx, account)
	if primaryErr != nil {
		d.warnDegraded("hot", "AllHeldInc", primaryErr)
	}
	if primaryErr == nil {
		return incremented, nil
	}
	if fileErr == nil {
		return fileIncremented, nil
	}
	return false, primaryErr
}

func (d *Dispatcher) GetMaxPrice(ctx context.Context, code, account string) (float64, bool, error) {
	primary := d.primaryPosition()
	price, ok, err := primary.GetMaxPrice(ctx, code, account)
	if err != nil {
		if d.autoFallback && primary != d.file {
			d.warnDegraded("hot", "GetMaxPrice", err)
			return d.file.GetMaxPrice(ctx, code, account)
		}
		return 0, false, err
	}
	return price, ok, nil
}

func (d *Dispatcher) UpdateMaxPrice(ctx context.Context, code, account string, price float64) error {
	primary := d.primaryPosition()
	primaryErr := primary.UpdateMaxPrice(ctx, code, account, price)
	if !d.dualWrite || primary == d.file {
		return primaryErr
	}
	fileErr := d.file.UpdateMaxPrice(ctx, code, account, price)
	if primaryErr != nil {
		d.warnDegraded("hot", "UpdateMaxPrice", primaryErr)
	}
	if primaryErr == nil || fileErr == nil {
		return nil
	}
	return primaryErr
}

func (d *Dispatcher) GetMinPrice(ctx context.Context, code, account string) (float64, bool, error) {
	primary := d.primaryPosition()
	price, ok, err := primary.GetMinPrice(ctx, code, account)
	if err != nil {
		if d.autoFallback && primary != d.file {
			d.warnDegraded("hot", "GetMinPrice", err)
			return d.file.GetMinPrice(ctx, code, account)
		}
		return 0, false, err
	}
	return price, ok, nil
}

func (d *Dispatcher) UpdateMinPrice(ctx context.Context, code, account string, price float64) error {
	primary := d.primaryPosition()
	primaryErr := primary.UpdateMinPrice(ctx, code, account, price)
	if !d.dualWrite || primary == d.file {
		return primaryErr
	}
	fileErr := d.file.UpdateMinPrice(ctx, code, account, price)
	if primaryErr != nil {
		d.warnDegraded("hot", "UpdateMinPrice", primaryErr)
	}
	if primaryErr == nil || fileErr == nil {
		return nil
	}
	return primaryErr
}
