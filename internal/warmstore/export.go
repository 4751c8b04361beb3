package warmstore

import (
	"context"
	"time"

	"github.com/silvertrail/tradestore/internal/domain"
)

// ListAccounts returns every account row, for the migration toolkit's
// Export step (spec.md §4.7 "Export ... reverse direction"). It is not
// part of store.AccountStore: enumeration across the whole table is an
// offline-toolkit concern, not an operation the live trading path needs.
func (w *WarmStore) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := w.conn.QueryContext(ctx, `
		SELECT account_id, account_name, broker, initial_capital, current_capital,
		       total_assets, position_value, status, created_at, updated_at
		FROM accounts ORDER BY account_id ASC`)
	if err != nil {
		return nil, domain.Unavailable("warm", "ListAccounts", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var a domain.Account
		var broker, status, createdAt, updated string
		if err := rows.Scan(&a.AccountID, &a.AccountName, &broker, &a.InitialCapital,
			&a.CurrentCapital, &a.TotalAssets, &a.PositionValue, &status, &createdAt, &updated); err != nil {
			return nil, domain.Unavailable("warm", "ListAccounts", err)
		}
		a.Broker = domain.Broker(broker)
		a.Status = domain.AccountStatus(status)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, a)
	}
	return out, rows.Err()
}

// StrategyExport bundles a strategy record with its current active params,
// the shape the Export step writes to strategies.json.
type StrategyExport struct {
	Strategy domain.Strategy
	Params   map[string]domain.ParamValue
}

// ListStrategies returns every strategy with its currently-active params.
func (w *WarmStore) ListStrategies(ctx context.Context) ([]StrategyExport, error) {
	rows, err := w.conn.QueryContext(ctx, `
		SELECT id, strategy_name, strategy_code, strategy_type, version, status,
		       description, created_at, updated_at
		FROM strategies ORDER BY strategy_code ASC`)
	if err != nil {
		return nil, domain.Unavailable("warm", "ListStrategies", err)
	}
	defer rows.Close()

	var strategies []domain.Strategy
	for rows.Next() {
		var s domain.Strategy
		var strategyType, status, createdAt, updated string
		if err := rows.Scan(&s.ID, &s.StrategyName, &s.StrategyCode, &strategyType, &s.Version,
			&status, &s.Description, &createdAt, &updated); err != nil {
			return nil, domain.Unavailable("warm", "ListStrategies", err)
		}
		s.StrategyType = domain.StrategyType(strategyType)
		s.Status = domain.StrategyStatus(status)
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		strategies = append(strategies, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("warm", "ListStrategies", err)
	}

	out := make([]StrategyExport, 0, len(strategies))
	for _, s := range strategies {
		params, err := readActiveParams(ctx, w.conn, s.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, StrategyExport{Strategy: s, Params: params})
	}
	return out, nil
}
