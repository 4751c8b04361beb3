package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/silvertrail/tradestore/internal/coolstore"
	"github.com/silvertrail/tradestore/internal/migration"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the WARM/COOL tiers back out to a file layout, optionally uploading it for disaster recovery",
	Run: func(cmd *cobra.Command, args []string) {
		requireFlag("export", exportOutDir, "out")

		cfg := loadConfig()
		log := mustLogger(cfg, "export")

		var src migration.ExportSource

		warm, err := warmstore.New(cfg.Warm.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open warm tier failed")
			os.Exit(1)
		}
		defer warm.Close()
		src.Warm = warm

		cool, err := coolstore.New(cfg.Cool.Path, log)
		if err != nil {
			log.Error().Err(err).Msg("open cool tier failed")
			os.Exit(1)
		}
		defer cool.Close()
		src.Cool = cool

		if _, err := migration.Export(context.Background(), os.Stdout, log, src, exportOutDir, cfg.Backup); err != nil {
			log.Error().Err(err).Msg("export failed")
			os.Exit(1)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutDir, "out", "", "directory to write the exported file layout to")
}
