package warmstore

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/silvertrail/tradestore/internal/domain"
)

func (w *WarmStore) CreateAccount(ctx context.Context, a domain.Account) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := w.conn.ExecContext(ctx, `
		INSERT INTO accounts
			(account_id, account_name, broker, initial_capital, current_capital, total_assets, position_value, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		a.AccountID, a.AccountName, string(a.Broker), a.InitialCapital, a.InitialCapital, a.InitialCapital,
		string(domain.AccountActive), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, domain.Unavailable("warm", "CreateAccount", err)
	}
	return true, nil
}

func (w *WarmStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	row := w.conn.QueryRowContext(ctx, `
		SELECT id, account_id, account_name, broker, initial_capital, current_capital,
		       total_assets, position_value, status, created_at, updated_at
		FROM accounts WHERE account_id = ?`, accountID)

	var (
		a                  domain.Account
		broker, status     string
		createdAt, updated string
	)
	if err := row.Scan(&a.ID, &a.AccountID, &a.AccountName, &broker, &a.InitialCapital,
		&a.CurrentCapital, &a.TotalAssets, &a.PositionValue, &status, &createdAt, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, domain.Unavailable("warm", "GetAccount", err)
	}
	a.Broker = domain.Broker(broker)
	a.Status = domain.AccountStatus(status)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &a, nil
}

func (w *WarmStore) UpdateAccountCapital(ctx context.Context, accountID string, currentCapital, totalAssets, positionValue float64) error {
	res, err := w.conn.ExecContext(ctx, `
		UPDATE accounts SET current_capital = ?, total_assets = ?, position_value = ?, updated_at = ?
		WHERE account_id = ?`,
		currentCapital, totalAssets, positionValue, time.Now().UTC().Format(time.RFC3339), accountID,
	)
	if err != nil {
		return domain.Unavailable("warm", "UpdateAccountCapital", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Unavailable("warm", "UpdateAccountCapital", err)
	}
	if n == 0 {
		return domain.NewError(domain.KindNotFound, "warm", "UpdateAccountCapital", nil)
	}
	return nil
}

// isUniqueViolation reports whether err looks like a SQLite UNIQUE
// constraint failure; modernc.org/sqlite surfaces this as a plain string
// rather than a typed sentinel.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint")
}
