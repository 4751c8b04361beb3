package warmstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (w *WarmStore) CreateStrategy(ctx context.Context, s domain.Strategy) (int64, bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := w.conn.ExecContext(ctx, `
		INSERT INTO strategies (strategy_name, strategy_code, strategy_type, version, status, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.StrategyName, s.StrategyCode, string(s.StrategyType), s.Version,
		string(domain.StrategyActive), s.Description, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, false, nil
		}
		return 0, false, domain.Unavailable("warm", "CreateStrategy", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, domain.Unavailable("warm", "CreateStrategy", err)
	}
	return id, true, nil
}

func (w *WarmStore) strategyIDFor(ctx context.Context, q queryer, strategyCode string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM strategies WHERE strategy_code = ?`, strategyCode).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, domain.Unavailable("warm", "strategyIDFor", err)
	}
	return id, true, nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx, so the active-param
// read path works identically inside and outside a transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (w *WarmStore) GetStrategyParams(ctx context.Context, strategyCode string) (map[string]domain.ParamValue, bool, error) {
	id, ok, err := w.strategyIDFor(ctx, w.conn, strategyCode)
	if err != nil || !ok {
		return nil, ok, err
	}
	params, err := readActiveParams(ctx, w.conn, id)
	if err != nil {
		return nil, false, err
	}
	return params, true, nil
}

func readActiveParams(ctx context.Context, q queryer, strategyID int64) (map[string]domain.ParamValue, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT param_key, param_type, value_i, value_f, value_s, value_j
		FROM strategy_params WHERE strategy_id = ? AND is_active = 1`, strategyID)
	if err != nil {
		return nil, domain.Unavailable("warm", "readActiveParams", err)
	}
	defer rows.Close()

	out := map[string]domain.ParamValue{}
	for rows.Next() {
		var (
			key, ptype      string
			vi               sql.NullInt64
			vf               sql.NullFloat64
			vs, vj           sql.NullString
		)
		if err := rows.Scan(&key, &ptype, &vi, &vf, &vs, &vj); err != nil {
			return nil, domain.Unavailable("warm", "readActiveParams", err)
		}
		pv, err := decodeParamRow(domain.ParamType(ptype), vi, vf, vs, vj)
		if err != nil {
			return nil, domain.Invalid("warm", "readActiveParams", err)
		}
		out[key] = pv
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("warm", "readActiveParams", err)
	}
	return out, nil
}

func decodeParamRow(t domain.ParamType, vi sql.NullInt64, vf sql.NullFloat64, vs, vj sql.NullString) (domain.ParamValue, error) {
	switch t {
	case domain.ParamInt:
		return domain.IntValue(vi.Int64), nil
	case domain.ParamFloat:
		return domain.FloatValue(vf.Float64), nil
	case domain.ParamString:
		return domain.StringValue(vs.String), nil
	case domain.ParamJSON:
		var v any
		if vj.Valid && vj.String != "" {
			if err := json.Unmarshal([]byte(vj.String), &v); err != nil {
				return domain.ParamValue{}, err
			}
		}
		return domain.JSONValue(v), nil
	default:
		return domain.ParamValue{}, domain.NewError(domain.KindInvalidArgument, "warm", "decodeParamRow", nil)
	}
}

// SaveStrategyParams performs the version rollover described in spec.md §3
// inside one transaction: read max(version), deactivate every currently
// active row for this strategy, insert the new set at version = max+1 with
// is_active = 1. On any failure the whole set rolls back, matching
// aristath-sentinel's WithTransaction usage in internal/database/db.go.
func (w *WarmStore) SaveStrategyParams(ctx context.Context, strategyCode string, params map[string]domain.ParamValue, remark string) (bool, error) {
	id, ok, err := w.strategyIDFor(ctx, w.conn, strategyCode)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	err = w.withTx(ctx, func(tx *sql.Tx) error {
		var maxVersion sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(version) FROM strategy_params WHERE strategy_id = ?`, id,
		).Scan(&maxVersion); err != nil {
			return err
		}
		nextVersion := int64(1)
		if maxVersion.Valid {
			nextVersion = maxVersion.Int64 + 1
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE strategy_params SET is_active = 0 WHERE strategy_id = ? AND is_active = 1`, id,
		); err != nil {
			return err
		}

		now := time.Now().UTC().Format(time.RFC3339)
		for key, v := range params {
			vi, vf, vs, vj, err := encodeParamRow(v)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO strategy_params
					(strategy_id, param_key, param_type, value_i, value_f, value_s, value_j, version, is_active, remark, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
				id, key, string(v.Type), vi, vf, vs, vj, nextVersion, remark, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, domain.Unavailable("warm", "SaveStrategyParams", err)
	}
	return true, nil
}

func encodeParamRow(v domain.ParamValue) (vi sql.NullInt64, vf sql.NullFloat64, vs, vj sql.NullString, err error) {
	switch v.Type {
	case domain.ParamInt:
		vi = sql.NullInt64{Int64: v.I, Valid: true}
	case domain.ParamFloat:
		vf = sql.NullFloat64{Float64: v.F, Valid: true}
	case domain.ParamString:
		vs = sql.NullString{String: v.S, Valid: true}
	case domain.ParamJSON:
		b, marshalErr := json.Marshal(v.J)
		if marshalErr != nil {
			err = marshalErr
			return
		}
		vj = sql.NullString{String: string(b), Valid: true}
	}
	return
}

func (w *WarmStore) CompareStrategyParams(ctx context.Context, strategyCode string, newParams map[string]domain.ParamValue) (map[string]domain.ParamValue, map[string]domain.ParamValue, map[string][2]domain.ParamValue, error) {
	current, ok, err := w.GetStrategyParams(ctx, strategyCode)
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
