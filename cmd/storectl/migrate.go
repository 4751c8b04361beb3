package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/silvertrail/tradestore/internal/coolstore"
	"github.com/silvertrail/tradestore/internal/hotstore"
	"github.com/silvertrail/tradestore/internal/migration"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate file-tier or CSV data into the HOT/WARM/COOL tiers",
}

var (
	migrateAccount        string
	migratePositionsDir   string
	migrateBatchSize      int
	migrateTradesCSVPath  string
	migrateCandlesDir     string
	migrateCheckpointPath string
	migrateSeedPath       string
)

var migratePositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Load held-days/max-price/min-price JSON documents into the HOT tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("migrate positions", migratePositionsDir, "source-dir")
		requireFlag("migrate positions", migrateAccount, "account")

		cfg := loadConfig()
		log := mustLogger(cfg, "migrate-positions")
		dest := hotstore.New(log)
		defer dest.Close()

		if _, err := migration.MigratePositions(context.Background(), os.Stdout, log, migratePositionsDir, migrateAccount, dest, migrateBatchSize); err != nil {
			log.Error().Err(err).Msg("migrate positions failed")
			os.Exit(1)
		}
	},
}

var migrateTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Stream a trade CSV export into the COOL tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("migrate trades", migrateTradesCSVPath, "csv")
		requireFlag("migrate trades", migrateAccount, "account")

		cfg := loadConfig()
		log := mustLogger(cfg, "migrate-trades")
		dest, err := coolstore.New(cfg.Cool.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open cool tier failed")
			os.Exit(1)
		}
		defer dest.Close()

		if _, err := migration.MigrateTrades(context.Background(), os.Stdout, log, migrateTradesCSVPath, migrateAccount, dest, migrateBatchSize); err != nil {
			log.Error().Err(err).Msg("migrate trades failed")
			os.Exit(1)
		}
	},
}

var migrateCandlesCmd = &cobra.Command{
	Use:   "candles",
	Short: "Batch-insert a directory of per-symbol candle CSVs into the COOL tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("migrate candles", migrateCandlesDir, "dir")

		cfg := loadConfig()
		log := mustLogger(cfg, "migrate-candles")
		dest, err := coolstore.New(cfg.Cool.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open cool tier failed")
			os.Exit(1)
		}
		defer dest.Close()

		if _, err := migration.MigrateCandleDirectory(context.Background(), os.Stdout, log, migrateCandlesDir, dest, migrateBatchSize, migrateCheckpointPath); err != nil {
			log.Error().Err(err).Msg("migrate candles failed")
			os.Exit(1)
		}
	},
}

var migrateAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Seed accounts/strategies from a YAML seed file into the WARM tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("migrate accounts", migrateSeedPath, "seed")

		cfg := loadConfig()
		log := mustLogger(cfg, "migrate-accounts")

		seed := loadSeedFileOrExit(migrateSeedPath, log)

		dest, err := warmstore.New(cfg.Warm.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open warm tier failed")
			os.Exit(1)
		}
		defer dest.Close()

		if _, err := migration.MigrateAccountsAndStrategies(context.Background(), os.Stdout, log, seed, dest, dest); err != nil {
			log.Error().Err(err).Msg("migrate accounts failed")
			os.Exit(1)
		}
	},
}

func init() {
	migrateCmd.AddCommand(migratePositionsCmd)
	migratePositionsCmd.Flags().StringVar(&migratePositionsDir, "source-dir", "", "file-tier cache directory holding held_days.json/max_prices.json/min_prices.json")
	migratePositionsCmd.Flags().StringVar(&migrateAccount, "account", "", "account ID to tag migrated positions with")
	migratePositionsCmd.Flags().IntVar(&migrateBatchSize, "batch", 100, "batch size for progress reporting")

	migrateCmd.AddCommand(migrateTradesCmd)
	migrateTradesCmd.Flags().StringVar(&migrateTradesCSVPath, "csv", "", "trade CSV file to ingest")
	migrateTradesCmd.Flags().StringVar(&migrateAccount, "account", "", "account ID to use when the CSV has no account_id column")
	migrateTradesCmd.Flags().IntVar(&migrateBatchSize, "batch", 1000, "progress-reporting batch size")

	migrateCmd.AddCommand(migrateCandlesCmd)
	migrateCandlesCmd.Flags().StringVar(&migrateCandlesDir, "dir", "", "directory of per-symbol candle CSVs")
	migrateCandlesCmd.Flags().IntVar(&migrateBatchSize, "batch", 10000, "progress-reporting batch size")
	migrateCandlesCmd.Flags().StringVar(&migrateCheckpointPath, "checkpoint", "", "msgpack checkpoint file for resuming a partial run")

	migrateCmd.AddCommand(migrateAccountsCmd)
	migrateAccountsCmd.Flags().StringVar(&migrateSeedPath, "seed", "", "YAML file listing accounts/strategies to seed")
}
