package migration

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/domain"
	"github.com/silvertrail/tradestore/internal/filestore"
	"github.com/silvertrail/tradestore/internal/hotstore"
)

func TestVerifyPositionsDetectsDrift(t *testing.T) {
	ctx := context.Background()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	hs := hotstore.New(zerolog.Nop())

	require.NoError(t, fs.UpdateHeldDays(ctx, "600000.SH", "acct1", 5))
	require.NoError(t, hs.UpdateHeldDays(ctx, "600000.SH", "acct1", 7)) // diverged

	var buf bytes.Buffer
	report, err := VerifyPositions(ctx, &buf, zerolog.Nop(), fs, hs, "acct1", []string{"600000.SH"})
	require.NoError(t, err)
	require.Equal(t, 1, report.Failure)
	require.Len(t, report.Examples, 1)
}

func TestVerifyPositionsConsistent(t *testing.T) {
	ctx := context.Background()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	hs := hotstore.New(zerolog.Nop())

	require.NoError(t, fs.UpdateHeldDays(ctx, "600000.SH", "acct1", 3))
	require.NoError(t, hs.UpdateHeldDays(ctx, "600000.SH", "acct1", 3))

	var buf bytes.Buffer
	report, err := VerifyPositions(ctx, &buf, zerolog.Nop(), fs, hs, "acct1", []string{"600000.SH"})
	require.NoError(t, err)
	require.Equal(t, 0, report.Failure)
	require.Equal(t, 1, report.Success)
}

func TestVerifyTradesDetectsCountMismatch(t *testing.T) {
	ctx := context.Background()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	cs := newTestCoolForMigration(t)

	ts, err := time.Parse("2006-01-02 15:04:05", "2026-01-05 09:31:00")
	require.NoError(t, err)
	trade := domain.TradeRecord{
		AccountID: "acct1", Timestamp: ts, Date: "2026-01-05", Code: "600000.SH",
		OrderType: domain.OrderBuyTrade, Price: 10, Volume: 100, Amount: 1000,
	}
	require.NoError(t, fs.RecordTrade(ctx, trade))
	require.NoError(t, cs.RecordTrade(ctx, trade))
	require.NoError(t, cs.RecordTrade(ctx, trade)) // cool tier has one extra

	var buf bytes.Buffer
	report, err := VerifyTrades(ctx, &buf, zerolog.Nop(), fs, cs, "acct1", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.GreaterOrEqual(t, report.Failure, 1)
}

func TestVerifyAccountsDetectsCapitalDrift(t *testing.T) {
	ctx := context.Background()
	fs, err := filestore.New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ws := newTestWarmForMigration(t)

	acct := domain.Account{AccountID: "acct1", AccountName: "Main", Broker: domain.BrokerQMT, InitialCapital: 1000}
	_, err = fs.CreateAccount(ctx, acct)
	require.NoError(t, err)
	_, err = ws.CreateAccount(ctx, acct)
	require.NoError(t, err)
	require.NoError(t, ws.UpdateAccountCapital(ctx, "acct1", 1500, 1500, 0)) // warm drifted ahead

	var buf bytes.Buffer
	report, err := VerifyAccounts(ctx, &buf, zerolog.Nop(), fs, ws, []string{"acct1"})
	require.NoError(t, err)
	require.Equal(t, 1, report.Failure)
}
