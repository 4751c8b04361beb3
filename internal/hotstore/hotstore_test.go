package hotstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/silvertrail/tradestore/internal/domain"
)

func TestHeldDaysLifecycle(t *testing.T) {
	ctx := context.Background()
	h := New(zerolog.Nop())

	require.NoError(t, h.BatchNewHeld(ctx, "acct1", []string{"600000.SH"}))
	days, ok, err := h.GetHeldDays(ctx, "600000.SH", "acct1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, days)

	incremented, err := h.AllHeldInc(ctx, "acct1")
	require.NoError(t, err)
	require.True(t, incremented)

	incremented, err = h.AllHeldInc(ctx, "acct1")
	require.NoError(t, err)
	require.False(t, incremented)

	days, _, _ = h.GetHeldDays(ctx, "600000.SH", "acct1")
	require.Equal(t, 1, days)
}

func TestAccountsAreIsolated(t *testing.T) {
	ctx := context.Background()
	h := New(zerolog.Nop())

	require.NoError(t, h.UpdateHeldDays(ctx, "600000.SH", "acct1", 3))
	require.NoError(t, h.UpdateHeldDays(ctx, "600000.SH", "acct2", 9))

	d1, _, _ := h.GetHeldDays(ctx, "600000.SH", "acct1")
	d2, _, _ := h.GetHeldDays(ctx, "600000.SH", "acct2")
	require.Equal(t, 3, d1)
	require.Equal(t, 9, d2)
}

func TestUnsupportedOperationsReturnUnsupportedKind(t *testing.T) {
	ctx := context.Background()
	h := New(zerolog.Nop())

	_, err := h.GetAccount(ctx, "acct1")
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrUnsupported))
}

func TestAllHeldIncConcurrentCallersOnlyIncrementOnce(t *testing.T) {
	ctx := context.Background()
	h := New(zerolog.Nop())
	require.NoError(t, h.BatchNewHeld(ctx, "acct1", []string{"600000.SH"}))

	var wg sync.WaitGroup
	results := make([]bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ok, _ := h.AllHeldInc(ctx, "acct1")
			results[idx] = ok
		}(i)
	}
	wg.Wait()

	trueCount := 0
	for _, r := range results {
		if r {
			trueCount++
		}
	}
	require.Equal(t, 1, trueCount)

	days, _, _ := h.GetHeldDays(ctx, "600000.SH", "acct1")
	require.Equal(t, 1, days)
}
