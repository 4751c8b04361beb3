package migration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/domain"
	"github.com/silvertrail/tradestore/internal/store"
)

// seedParamValue converts one YAML-decoded scalar/structured value from a
// config.SeedStrategy.Params entry into a domain.ParamValue, tagging by Go
// runtime type the way encoding/json would decode it (int64/float64/string
// fall to their matching ParamValue branch; everything else is ParamJSON).
func seedParamValue(v any) domain.ParamValue {
	switch t := v.(type) {
	case int:
		return domain.IntValue(int64(t))
	case int64:
		return domain.IntValue(t)
	case float64:
		return domain.FloatValue(t)
	case string:
		return domain.StringValue(t)
	default:
		return domain.JSONValue(t)
	}
}

// MigrateAccountsAndStrategies inserts every account/strategy in seed into
// dest, skipping (not failing) entries whose AccountId/StrategyCode already
// exist (spec.md §4.7 "Accounts/Strategies -> WARM: insert if absent,
// skip-with-note otherwise").
func MigrateAccountsAndStrategies(ctx context.Context, w io.Writer, log zerolog.Logger, seed *config.SeedFile, accounts store.AccountStore, strategies store.StrategyStore) (*StepReport, error) {
	PrintHeader(w, "Accounts/Strategies -> WARM")
	report := NewStepReport("accounts+strategies", time.Now())

	for _, sa := range seed.Accounts {
		created, err := accounts.CreateAccount(ctx, domain.Account{
			AccountID:      sa.AccountID,
			AccountName:    sa.AccountName,
			Broker:         domain.Broker(sa.Broker),
			InitialCapital: sa.InitialCapital,
		})
		if err != nil {
			report.Failure++
			report.AddExample(fmt.Sprintf("account %s: %v", sa.AccountID, err))
			log.Error().Err(err).Str("account_id", sa.AccountID).Msg("seed account failed")
			continue
		}
		if !created {
			report.Skipped++
			log.Info().Str("account_id", sa.AccountID).Msg("account already exists, skipped")
			continue
		}
		report.Success++
	}

	for _, ss := range seed.Strategies {
		_, created, err := strategies.CreateStrategy(ctx, domain.Strategy{
			StrategyName: ss.StrategyName,
			StrategyCode: ss.StrategyCode,
			StrategyType: domain.StrategyType(ss.StrategyType),
			Version:      ss.Version,
			Description:  ss.Description,
		})
		if err != nil {
			report.Failure++
			report.AddExample(fmt.Sprintf("strategy %s: %v", ss.StrategyCode, err))
			log.Error().Err(err).Str("strategy_code", ss.StrategyCode).Msg("seed strategy failed")
			continue
		}
		if !created {
			report.Skipped++
			log.Info().Str("strategy_code", ss.StrategyCode).Msg("strategy already exists, skipped")
			continue
		}
		report.Success++

		if len(ss.Params) == 0 {
			continue
		}
		params := make(map[string]domain.ParamValue, len(ss.Params))
		for k, v := range ss.Params {
			params[k] = seedParamValue(v)
		}
		if _, err := strategies.SaveStrategyParams(ctx, ss.StrategyCode, params, "seeded at migration"); err != nil {
			report.Failure++
			report.AddExample(fmt.Sprintf("strategy %s params: %v", ss.StrategyCode, err))
			log.Error().Err(err).Str("strategy_code", ss.StrategyCode).Msg("seed strategy params failed")
		}
	}

	report.Finish(time.Now())
	PrintFooter(w, report)
	return report, nil
}
