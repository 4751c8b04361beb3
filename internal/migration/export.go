package migration

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/config"
	"github.com/silvertrail/tradestore/internal/coolstore"
	"github.com/silvertrail/tradestore/internal/domain"
	"github.com/silvertrail/tradestore/internal/warmstore"
)

// ExportSource bundles the DB-tier handles Export reads from. Any of them
// may be nil, in which case that class is skipped (a file-only or
// cool-only deployment still exports what it has).
type ExportSource struct {
	Warm *warmstore.WarmStore
	Cool *coolstore.CoolStore
}

// Export dumps the WARM and COOL tiers back into the file layout (JSON for
// the RDBMS account/strategy classes, CSV for the columnar trade/candle
// classes); the HOT tier's position state is not exported. Files are rooted at
// outDir, the reverse of the migration steps above (spec.md §4.7
// "Export: reverse direction"). If backup.Enabled, the written files are
// additionally uploaded to an S3/R2-compatible bucket for disaster
// recovery.
func Export(ctx context.Context, w io.Writer, log zerolog.Logger, src ExportSource, outDir string, backup config.BackupConfig) (*StepReport, error) {
	PrintHeader(w, "Export DB tiers -> file layout")
	report := NewStepReport("export", time.Now())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir %s: %w", outDir, err)
	}

	if src.Warm != nil {
		if err := exportAccounts(ctx, src.Warm, outDir, report); err != nil {
			return nil, err
		}
		if err := exportStrategies(ctx, src.Warm, outDir, report); err != nil {
			return nil, err
		}
	}
	if src.Cool != nil {
		if err := exportTrades(ctx, src.Cool, outDir, report); err != nil {
			return nil, err
		}
		if err := exportCandles(ctx, src.Cool, outDir, report); err != nil {
			return nil, err
		}
	}

	report.Finish(time.Now())
	PrintFooter(w, report)

	if backup.Enabled {
		if err := uploadExportDir(ctx, log, outDir, backup); err != nil {
			return report, fmt.Errorf("upload export to backup bucket: %w", err)
		}
		log.Info().Str("bucket", backup.Bucket).Str("prefix", backup.Prefix).Msg("export uploaded to backup bucket")
	}

	return report, nil
}

func exportAccounts(ctx context.Context, warm *warmstore.WarmStore, outDir string, report *StepReport) error {
	accounts, err := warm.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if err := writeJSON(filepath.Join(outDir, "accounts.json"), accounts); err != nil {
		return err
	}
	report.Success += len(accounts)
	return nil
}

func exportStrategies(ctx context.Context, warm *warmstore.WarmStore, outDir string, report *StepReport) error {
	strategies, err := warm.ListStrategies(ctx)
	if err != nil {
		return fmt.Errorf("list strategies: %w", err)
	}
	if err := writeJSON(filepath.Join(outDir, "strategies.json"), strategies); err != nil {
		return err
	}
	report.Success += len(strategies)
	return nil
}

func exportTrades(ctx context.Context, cool *coolstore.CoolStore, outDir string, report *StepReport) error {
	trades, err := cool.ListAllTrades(ctx)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}
	fh, err := os.Create(filepath.Join(outDir, "trades_export.csv"))
	if err != nil {
		return err
	}
	defer fh.Close()

	cw := csv.NewWriter(fh)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Date,
			t.Timestamp.Format("15:04:05"),
			t.AccountID,
			t.Code,
			t.Name,
			string(t.OrderType),
			t.Remark,
			strconv.FormatFloat(domain.Round3(t.Price), 'f', -1, 64),
			strconv.FormatInt(t.Volume, 10),
			strconv.FormatFloat(domain.Round2(t.Amount), 'f', -1, 64),
			t.StrategyName,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	report.Success += len(trades)
	return nil
}

// tradeHeader mirrors filestore/trades.go's CSV header — the export file
// is meant to be re-ingestible by MigrateTrades.
var tradeHeader = []string{
	"date", "time", "account_id", "code", "name", "order_type",
	"remark", "price", "volume", "amount", "strategy_name",
}

func exportCandles(ctx context.Context, cool *coolstore.CoolStore, outDir string, report *StepReport) error {
	codes, err := cool.ListCandleCodes(ctx)
	if err != nil {
		return fmt.Errorf("list candle codes: %w", err)
	}
	candleDir := filepath.Join(outDir, "candles")
	if err := os.MkdirAll(candleDir, 0o755); err != nil {
		return err
	}

	for _, code := range codes {
		candles, err := cool.ListCandlesForCode(ctx, code)
		if err != nil {
			return fmt.Errorf("list candles for %s: %w", code, err)
		}
		fh, err := os.Create(filepath.Join(candleDir, code+".csv"))
		if err != nil {
			return err
		}
		cw := csv.NewWriter(fh)
		if err := cw.Write([]string{"date", "open", "high", "low", "close", "volume", "amount"}); err != nil {
			fh.Close()
			return err
		}
		for _, c := range candles {
			row := []string{
				c.Date,
				strconv.FormatFloat(c.Open, 'f', -1, 64),
				strconv.FormatFloat(c.High, 'f', -1, 64),
				strconv.FormatFloat(c.Low, 'f', -1, 64),
				strconv.FormatFloat(c.Close, 'f', -1, 64),
				strconv.FormatInt(c.Volume, 10),
				strconv.FormatFloat(c.Amount, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				fh.Close()
				return err
			}
		}
		cw.Flush()
		err = cw.Error()
		fh.Close()
		if err != nil {
			return err
		}
		report.Success += len(candles)
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, b, 0o644)
}

// uploadExportDir uploads every regular file under dir to backup.Bucket
// under backup.Prefix, using the s3 manager's Uploader the way any
// ecosystem consumer of aws-sdk-go-v2 would (no corpus example exercises
// this SDK directly — see DESIGN.md's note on this dependency). A custom
// endpoint is honored for R2/S3-compatible targets.
func uploadExportDir(ctx context.Context, log zerolog.Logger, dir string, backup config.BackupConfig) error {
	optFns := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(backup.Region)}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if backup.Endpoint != "" {
			o.BaseEndpoint = &backup.Endpoint
			o.UsePathStyle = true
		}
	})
	uploader := manager.NewUploader(client)

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := backup.Prefix + "/" + filepath.ToSlash(rel)

		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fh.Close()

		_, err = uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: &backup.Bucket,
			Key:    &key,
			Body:   fh,
		})
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("backup upload failed")
			return fmt.Errorf("upload %s: %w", key, err)
		}
		return nil
	})
}
