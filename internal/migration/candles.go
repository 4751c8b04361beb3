package migration

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/silvertrail/tradestore/internal/domain"
)

// candleInserter is the narrow write surface MigrateCandleFile needs; the
// COOL tier's UpsertCandle is the production implementation, passed
// directly rather than through store.CandleStore (which is read-only).
type candleInserter interface {
	UpsertCandle(ctx context.Context, c domain.Candle) error
}

var (
	prefixedCodePattern = regexp.MustCompile(`^(SH|SZ)\d{6}`)
	rawCodePattern      = regexp.MustCompile(`^\d{6}`)
)

// instrumentCodeFromFilename derives an InstrumentCode from a kline CSV's
// filename, accepting either an already-prefixed market code
// (SH600000.csv) or a raw 6-digit code (600000_daily.csv), mapping the raw
// form to a market by its leading digit (6 -> Shanghai, 0/3 -> Shenzhen),
// ported from original_source/scripts/migrate_kline.py's
// extract_stock_code_from_filename (spec.md §4.7).
func instrumentCodeFromFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if m := prefixedCodePattern.FindString(name); m != "" {
		return m
	}
	if m := rawCodePattern.FindString(name); m != "" {
		switch m[0] {
		case '6':
			return "SH" + m
		case '0', '3':
			return "SZ" + m
		default:
			return m
		}
	}
	return name
}

// candleColumnAliases mirrors migrate_kline.py's multi-language header
// tolerance for OHLCV columns.
var candleColumnAliases = map[string][]string{
	"date":   {"date", "日期", "交易日期"},
	"open":   {"open", "开盘", "开盘价"},
	"high":   {"high", "最高", "最高价"},
	"low":    {"low", "最低", "最低价"},
	"close":  {"close", "收盘", "收盘价"},
	"volume": {"volume", "成交量", "量"},
	"amount": {"amount", "成交额", "额"},
}

// MigrateCandleFile reads one kline CSV and upserts every row into dest one
// row at a time; rows are not grouped into batched inserts, and batchSize
// only sets how often a progress line is printed. Rows with no date or a
// zero close are skipped
// (migrate_kline.py's "verify required fields").
func MigrateCandleFile(ctx context.Context, w io.Writer, log zerolog.Logger, path string, dest candleInserter, batchSize int) (*StepReport, error) {
	if batchSize <= 0 {
		batchSize = 10000
	}
	code := instrumentCodeFromFilename(path)

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(decodeTradesTolerant(fh))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			report := NewStepReport(code, time.Now())
			report.Finish(time.Now())
			return report, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	col := resolveAliasedColumns(header, candleColumnAliases)

	report := NewStepReport(code, time.Now())
	processed := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", path, err)
		}
		processed++

		cd, ok := parseCandleRow(col, row, code)
		if !ok {
			report.Skipped++
		} else if err := dest.UpsertCandle(ctx, cd); err != nil {
			report.Failure++
			report.AddExample(fmt.Sprintf("%s %s: %v", code, cd.Date, err))
			log.Error().Err(err).Str("code", code).Str("date", cd.Date).Msg("upsert candle failed")
		} else {
			report.Success++
		}

		if processed%batchSize == 0 {
			PrintProgress(w, code, processed, 0)
		}
	}
	report.Finish(time.Now())
	return report, nil
}

// MigrateCandleDirectory walks every *.csv file in dir and migrates each
// in turn, printing one combined header/footer for the whole directory
// (spec.md §4.7 "Candles CSV directory -> COOL ... each file batch-inserted").
// If checkpointPath is non-empty, files already recorded as done in a prior
// run are skipped, and the checkpoint is updated after each file completes
// — a directory of thousands of per-symbol files is the one migration step
// long-running enough to want mid-run resume (see checkpoint.go).
func MigrateCandleDirectory(ctx context.Context, w io.Writer, log zerolog.Logger, dir string, dest candleInserter, batchSize int, checkpointPath string) (*StepReport, error) {
	PrintHeader(w, "Candles CSV directory -> COOL")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read candle directory %s: %w", dir, err)
	}

	var cp *Checkpoint
	if checkpointPath != "" {
		cp, err = LoadCheckpoint(checkpointPath)
		if err != nil {
			return nil, fmt.Errorf("load checkpoint %s: %w", checkpointPath, err)
		}
	}

	total := NewStepReport("candles", time.Now())
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		if cp.AlreadyDone(e.Name()) {
			total.Skipped++
			continue
		}
		fileReport, err := MigrateCandleFile(ctx, w, log, filepath.Join(dir, e.Name()), dest, batchSize)
		if err != nil {
			total.Failure++
			total.AddExample(fmt.Sprintf("%s: %v", e.Name(), err))
			log.Error().Err(err).Str("file", e.Name()).Msg("migrate candle file failed")
			continue
		}
		total.Success += fileReport.Success
		total.Failure += fileReport.Failure
		total.Skipped += fileReport.Skipped
		total.Examples = append(total.Examples, fileReport.Examples...)

		if checkpointPath != "" {
			cp = MarkDone(cp, "candles", e.Name())
			if err := SaveCheckpoint(checkpointPath, *cp); err != nil {
				log.Warn().Err(err).Msg("checkpoint save failed, resume will restart this file")
			}
		}
	}
	total.Finish(time.Now())
	PrintFooter(w, total)
	return total, nil
}

func resolveAliasedColumns(header []string, aliases map[string][]string) map[string]int {
	byHeader := map[string]int{}
	for i, h := range header {
		byHeader[h] = i
	}
	resolved := map[string]int{}
	for canonical, names := range aliases {
		for _, alias := range names {
			if i, ok := byHeader[alias]; ok {
				resolved[canonical] = i
				break
			}
		}
	}
	return resolved
}

func parseCandleRow(col map[string]int, row []string, code string) (domain.Candle, bool) {
	get := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}
	parseFloat := func(name string) float64 {
		v, _ := get(name)
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}

	date, ok := get("date")
	if !ok || date == "" {
		return domain.Candle{}, false
	}
	closeVal := parseFloat("close")
	if closeVal == 0 {
		return domain.Candle{}, false
	}
	volume, _ := strconv.ParseFloat(func() string { v, _ := get("volume"); return v }(), 64)

	return domain.Candle{
		Code:   code,
		Date:   date,
		Open:   domain.Round3(parseFloat("open")),
		High:   domain.Round3(parseFloat("high")),
		Low:    domain.Round3(parseFloat("low")),
		Close:  domain.Round3(closeVal),
		Volume: int64(volume),
		Amount: domain.Round2(parseFloat("amount")),
	}, true
}
