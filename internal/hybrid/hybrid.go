// Package hybrid implements the hybrid dispatcher (C6): it holds a
// mandatory file tier and optional HOT/WARM/COOL tiers, routes each
// operation class to its primary tier, dual-writes to the file tier for
// durability, and falls back to the file tier when a primary read fails
// (spec.md §4.6). This is the only Store implementation with no
// domain.ErrUnsupported branches — everything is routed somewhere.
package hybrid

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/store"
)

type closer interface{ Close() error }

type healthChecker interface {
	HealthCheck(ctx context.Context) bool
}

type fileTier interface {
	store.PositionStore
	store.TradeStore
	store.CandleStore
	store.AccountStore
	store.StrategyStore
	healthChecker
	closer
}

type hotTier interface {
	store.PositionStore
	healthChecker
	closer
}

type warmTier interface {
	store.AccountStore
	store.StrategyStore
	healthChecker
	closer
}

type coolTier interface {
	store.TradeStore
	store.CandleStore
	healthChecker
	closer
}

// Dispatcher wires the four tiers together: position state is served by
// HOT, trades and candles by COOL, accounts and strategies by WARM, with the
// file tier as the dual-write target and fallback for each class.
type Dispatcher struct {
	file fileTier
	hot  hotTier  // nil if absent
	warm warmTier // nil if absent
	cool coolTier // nil if absent

	dualWrite    bool
	autoFallback bool

	log zerolog.Logger
}

// Tiers bundles the constructed backend handles passed to New. Hot/Warm/Cool
// are optional (nil means absent); File is mandatory.
type Tiers struct {
	File         fileTier
	Hot          hotTier
	Warm         warmTier
	Cool         coolTier
	DualWrite    bool
	AutoFallback bool
	Log          zerolog.Logger
}

// New builds a Dispatcher. File must be non-nil; Hot/Warm/Cool are
// optional and recorded absent (with a WARNING) by the factory before
// reaching here if their construction or health check failed.
func New(t Tiers) *Dispatcher {
	return &Dispatcher{
		file:         t.File,
		hot:          t.Hot,
		warm:         t.Warm,
		cool:         t.Cool,
		dualWrite:    t.DualWrite,
		autoFallback: t.AutoFallback,
		log:          t.Log.With().Str("component", "hybrid").Logger(),
	}
}

func (d *Dispatcher) Close() error {
	var first error
	for _, c := range []closer{d.hot, d.warm, d.cool, d.file} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// HealthCheck aggregates per-backend reachability; overall health is true
// iff the file tier is healthy (spec.md §4.6).
func (d *Dispatcher) HealthCheck(ctx context.Context) store.HealthStatus {
	backends := map[string]bool{"file": d.file.HealthCheck(ctx)}
	if d.hot != nil {
		backends["hot"] = d.hot.HealthCheck(ctx)
	}
	if d.warm != nil {
		backends["warm"] = d.warm.HealthCheck(ctx)
	}
	if d.cool != nil {
		backends["cool"] = d.cool.HealthCheck(ctx)
	}
	return store.HealthStatus{Backends: backends, Healthy: backends["file"]}
}

func (d *Dispatcher) warnDegraded(backend, op string, cause error) {
	d.log.Warn().Str("backend", backend).Str("op", op).Err(cause).Msg("tier degraded, falling back")
}

var _ store.Store = (*Dispatcher)(nil)
