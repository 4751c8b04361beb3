package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/silvertrail/tradestore/internal/coolstore"
	"github.com/silvertrail/tradestore/internal/filestore"
	"github.com/silvertrail/tradestore/internal/hotstore"
	"github.com/silvertrail/tradestore/internal/migration"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the file tier against a primary tier and report inconsistencies",
}

var (
	verifyAccount   string
	verifyCodes     string
	verifyAccounts  string
	verifyStart     string
	verifyEnd       string
)

var verifyPositionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Compare held days (not prices) between the file tier and the HOT tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("verify positions", verifyAccount, "account")
		requireFlag("verify positions", verifyCodes, "codes")

		cfg := loadConfig()
		log := mustLogger(cfg, "verify-positions")

		fileStore, err := filestore.New(cfg.CacheDir, log)
		if err != nil {
			log.Error().Err(err).Msg("open file tier failed")
			os.Exit(1)
		}
		defer fileStore.Close()
		hot := hotstore.New(log)

		codes := strings.Split(verifyCodes, ",")
		report, err := migration.VerifyPositions(context.Background(), os.Stdout, log, fileStore, hot, verifyAccount, codes)
		if err != nil {
			log.Error().Err(err).Msg("verify positions failed")
			os.Exit(1)
		}
		if report.Failure > 0 {
			os.Exit(1)
		}
	},
}

var verifyAccountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Compare account capital between the file tier and the WARM tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("verify accounts", verifyAccounts, "account-ids")

		cfg := loadConfig()
		log := mustLogger(cfg, "verify-accounts")

		fileStore, err := filestore.New(cfg.CacheDir, log)
		if err != nil {
			log.Error().Err(err).Msg("open file tier failed")
			os.Exit(1)
		}
		defer fileStore.Close()

		warm, err := warmstore.New(cfg.Warm.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open warm tier failed")
			os.Exit(1)
		}
		defer warm.Close()

		ids := strings.Split(verifyAccounts, ",")
		report, err := migration.VerifyAccounts(context.Background(), os.Stdout, log, fileStore, warm, ids)
		if err != nil {
			log.Error().Err(err).Msg("verify accounts failed")
			os.Exit(1)
		}
		if report.Failure > 0 {
			os.Exit(1)
		}
	},
}

var verifyTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Compare trade counts/amounts between the file tier and the COOL tier",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("verify trades", verifyAccount, "account")
		requireFlag("verify trades", verifyStart, "start")
		requireFlag("verify trades", verifyEnd, "end")

		cfg := loadConfig()
		log := mustLogger(cfg, "verify-trades")

		fileStore, err := filestore.New(cfg.CacheDir, log)
		if err != nil {
			log.Error().Err(err).Msg("open file tier failed")
			os.Exit(1)
		}
		defer fileStore.Close()

		cool, err := coolstore.New(cfg.Cool.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open cool tier failed")
			os.Exit(1)
		}
		defer cool.Close()

		report, err := migration.VerifyTrades(context.Background(), os.Stdout, log, fileStore, cool, verifyAccount, verifyStart, verifyEnd)
		if err != nil {
			log.Error().Err(err).Msg("verify trades failed")
			os.Exit(1)
		}
		if report.Failure > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	verifyCmd.AddCommand(verifyPositionsCmd)
	verifyPositionsCmd.Flags().StringVar(&verifyAccount, "account", "", "account ID")
	verifyPositionsCmd.Flags().StringVar(&verifyCodes, "codes", "", "comma-separated instrument codes to compare")

	verifyCmd.AddCommand(verifyAccountsCmd)
	verifyAccountsCmd.Flags().StringVar(&verifyAccounts, "account-ids", "", "comma-separated account IDs to compare")

	verifyCmd.AddCommand(verifyTradesCmd)
	verifyTradesCmd.Flags().StringVar(&verifyAccount, "account", "", "account ID")
	verifyTradesCmd.Flags().StringVar(&verifyStart, "start", "", "start date YYYY-MM-DD")
	verifyTradesCmd.Flags().StringVar(&verifyEnd, "end", "", "end date YYYY-MM-DD")
}
