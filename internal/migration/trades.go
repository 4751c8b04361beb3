package migration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/silvertrail/tradestore/internal/domain"
	"github.com/silvertrail/tradestore/internal/store"
)

const tradeUTF8BOM = "﻿"

// tradeColumnAliases maps a canonical field name to every header spelling
// the toolkit accepts, English and Chinese (spec.md §6: brokerage-exported
// CSVs use either depending on terminal vendor).
var tradeColumnAliases = map[string][]string{
	"date":       {"date", "日期"},
	"time":       {"time", "时间"},
	"account_id": {"account_id", "账户"},
	"code":       {"code", "stock_code", "代码"},
	"name":       {"name", "名称"},
	"order_type": {"order_type", "类型"},
	"remark":     {"remark", "注释"},
	"price":      {"price", "成交价"},
	"volume":     {"volume", "成交量"},
	"amount":     {"amount", "成交额"},
	"strategy_name": {"strategy_name", "策略"},
}

// tradeRequiredFields is the minimum a row must carry to be migrated; rows
// missing any of these are skipped, not failed (spec.md §4.7 "skip rows
// with missing required fields").
var tradeRequiredFields = []string{"date", "code", "price", "volume", "order_type"}

// MigrateTrades streams a trade CSV export into dest (normally the COOL
// tier) one RecordTrade call per row; rows are not grouped into batched
// inserts, and batchSize only sets how often a progress line is printed.
// It tolerates the English/Chinese column
// aliases above and the same BOM/GBK tolerance the file tier's own CSV
// reader uses (grounded on filestore/trades.go's decodeTolerant, which this
// mirrors rather than imports — the migration toolkit treats CSV inputs as
// arbitrary broker exports, not only the file tier's own trades.csv).
func MigrateTrades(ctx context.Context, w io.Writer, log zerolog.Logger, csvPath, defaultAccount string, dest store.TradeStore, batchSize int) (*StepReport, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}
	PrintHeader(w, "Trades CSV -> COOL")

	fh, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer fh.Close()

	r := csv.NewReader(decodeTradesTolerant(fh))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			report := NewStepReport("trades", time.Now())
			report.Finish(time.Now())
			PrintFooter(w, report)
			return report, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", csvPath, err)
	}
	col := columnResolver(header)

	report := NewStepReport("trades", time.Now())
	processed := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row of %s: %w", csvPath, err)
		}
		processed++

		rec, ok := parseTradeRow(col, row, defaultAccount)
		if !ok {
			report.Skipped++
		} else if err := dest.RecordTrade(ctx, rec); err != nil {
			report.Failure++
			report.AddExample(fmt.Sprintf("row %d (%s): %v", processed, rec.Code, err))
			log.Error().Err(err).Int("row", processed).Msg("migrate trade failed")
		} else {
			report.Success++
		}

		if processed%batchSize == 0 {
			PrintProgress(w, "trades", processed, 0)
		}
	}
	report.Finish(time.Now())
	PrintFooter(w, report)
	return report, nil
}

// columnResolver builds a canonical-name -> column-index lookup from the
// CSV header, accepting any alias in tradeColumnAliases.
func columnResolver(header []string) map[string]int {
	byHeader := map[string]int{}
	for i, h := range header {
		byHeader[h] = i
	}
	resolved := map[string]int{}
	for canonical, aliases := range tradeColumnAliases {
		for _, alias := range aliases {
			if i, ok := byHeader[alias]; ok {
				resolved[canonical] = i
				break
			}
		}
	}
	return resolved
}

func parseTradeRow(col map[string]int, row []string, defaultAccount string) (domain.TradeRecord, bool) {
	get := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	for _, req := range tradeRequiredFields {
		v, ok := get(req)
		if !ok || v == "" {
			return domain.TradeRecord{}, false
		}
	}

	date, _ := get("date")
	clock, _ := get("time")
	priceStr, _ := get("price")
	volumeStr, _ := get("volume")
	orderType, _ := get("order_type")
	code, _ := get("code")

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return domain.TradeRecord{}, false
	}
	volume, err := strconv.ParseInt(volumeStr, 10, 64)
	if err != nil {
		return domain.TradeRecord{}, false
	}

	ts, err := time.Parse("2006-01-02 15:04:05", date+" "+clock)
	if err != nil {
		ts, err = time.Parse("2006-01-02", date)
		if err != nil {
			return domain.TradeRecord{}, false
		}
	}

	account, ok := get("account_id")
	if !ok || account == "" {
		account = defaultAccount
	}
	name, _ := get("name")
	remark, _ := get("remark")
	strategyName, _ := get("strategy_name")

	amount := domain.Round2(price * float64(volume))
	if amountStr, ok := get("amount"); ok && amountStr != "" {
		if parsed, perr := strconv.ParseFloat(amountStr, 64); perr == nil {
			amount = domain.Round2(parsed)
		}
	}

	return domain.TradeRecord{
		AccountID:    account,
		Timestamp:    ts,
		Date:         date,
		Code:         code,
		Name:         name,
		OrderType:    domain.OrderType(orderType),
		Remark:       remark,
		Price:        domain.Round3(price),
		Volume:       volume,
		Amount:       amount,
		StrategyName: strategyName,
	}, true
}

func decodeTradesTolerant(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)
	if bytes.HasPrefix(peek, []byte(tradeUTF8BOM)) {
		io.CopyN(io.Discard, br, int64(len(tradeUTF8BOM)))
		return br
	}
	if utf8.Valid(peek) {
		return br
	}
	return transform.NewReader(br, simplifiedchinese.GBK.NewDecoder())
}
