package filestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/silvertrail/tradestore/internal/domain"
)

var tradeHeader = []string{
	"date", "time", "account_id", "code", "name", "order_type",
	"remark", "price", "volume", "amount", "strategy_name",
}

const utf8BOM = "﻿"

// RecordTrade appends one trade row to the CSV fallback, creating the file
// and writing a BOM-prefixed UTF-8 header if the file does not exist yet
// (spec.md §4.2 "the CSV file tier for trades is append-only").
func (f *FileStore) RecordTrade(ctx context.Context, t domain.TradeRecord) error {
	l := f.locks.forPath(f.tradesPath)
	l.Lock()
	defer l.Unlock()

	isNew := false
	if _, err := os.Stat(f.tradesPath); os.IsNotExist(err) {
		isNew = true
	}

	fh, err := os.OpenFile(f.tradesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Invalid("file", "RecordTrade", err)
	}
	defer fh.Close()

	if isNew {
		if _, err := fh.WriteString(utf8BOM); err != nil {
			return domain.Invalid("file", "RecordTrade", err)
		}
	}

	w := csv.NewWriter(fh)
	if isNew {
		if err := w.Write(tradeHeader); err != nil {
			return domain.Invalid("file", "RecordTrade", err)
		}
	}
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
	if err := w.Write(row); err != nil {
		return domain.Invalid("file", "RecordTrade", err)
	}
	w.Flush()
	return w.Error()
}

// QueryTrades reads the whole CSV (there is no index on the file tier),
// filters, and sorts by timestamp descending (newest first).
func (f *FileStore) QueryTrades(ctx context.Context, account string, startDate, endDate, code *string) ([]domain.TradeRecord, error) {
	l := f.locks.forPath(f.tradesPath)
	l.Lock()
	defer l.Unlock()

	rows, err := f.readTradeRows()
	if err != nil {
		return nil, err
	}

	out := make([]domain.TradeRecord, 0, len(rows))
	for _, r := range rows {
		if account != "" && r.AccountID != account {
			continue
		}
		if startDate != nil && r.Date < *startDate {
			continue
		}
		if endDate != nil && r.Date > *endDate {
			continue
		}
		if code != nil && r.Code != *code {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// AggregateTrades groups the filtered rows and sums volume/amount, adding
// NetAmount (sells minus buys, signed) — a column absent from spec.md's
// narrower contract but present in the original system
// (original_source/storage/clickhouse_store.py aggregate_trades), carried
// forward here because it costs nothing to compute alongside the rest.
func (f *FileStore) AggregateTrades(ctx context.Context, account, startDate, endDate string, groupBy domain.GroupBy) ([]domain.AggregateRow, error) {
	rows, err := f.QueryTrades(ctx, account, &startDate, &endDate, nil)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count  int64
		volume int64
		amount float64
		net    float64
	}
	groups := map[string]*acc{}
	var order []string

	keyFor := func(r domain.TradeRecord) (string, error) {
		switch groupBy {
		case domain.GroupByStock:
			return r.Code, nil
		case domain.GroupByDate:
			return r.Date, nil
		case domain.GroupByMonth:
			if len(r.Date) < 7 {
				return r.Date, nil
			}
			return r.Date[:7], nil
		case domain.GroupByType:
			return string(r.OrderType), nil
		default:
			return "", domain.Invalid("file", "AggregateTrades", fmt.Errorf("unknown group-by %q", groupBy))
		}
	}

	for _, r := range rows {
		k, err := keyFor(r)
		if err != nil {
			return nil, err
		}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
			order = append(order, k)
		}
		a.count++
		a.volume += r.Volume
		a.amount += r.Amount
		switch r.OrderType {
		case domain.OrderSellOrder, domain.OrderSellTrade:
			a.net += r.Amount
		case domain.OrderBuyOrder, domain.OrderBuyTrade:
			a.net -= r.Amount
		}
	}

	sort.Strings(order)
	out := make([]domain.AggregateRow, 0, len(order))
	for _, k := range order {
		a := groups[k]
		out = append(out, domain.AggregateRow{
			Key:         k,
			Count:       a.count,
			TotalVolume: a.volume,
			TotalAmount: domain.Round2(a.amount),
			NetAmount:   domain.Round2(a.net),
		})
	}
	return out, nil
}

func (f *FileStore) readTradeRows() ([]domain.TradeRecord, error) {
	fh, err := os.Open(f.tradesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.Invalid("file", "readTradeRows", err)
	}
	defer fh.Close()

	r := csv.NewReader(decodeTolerant(fh))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, domain.Invalid("file", "readTradeRows", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	idx := map[string]int{}
	for i, h := range header {
		idx[h] = i
	}
	col := func(row []string, name string) string {
		if i, ok := idx[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	out := make([]domain.TradeRecord, 0, len(records)-1)
	for _, row := range records[1:] {
		date := col(row, "date")
		clock := col(row, "time")
		ts, _ := time.Parse("2006-01-02 15:04:05", date+" "+clock)
		price, _ := strconv.ParseFloat(col(row, "price"), 64)
		volume, _ := strconv.ParseInt(col(row, "volume"), 10, 64)
		amount, _ := strconv.ParseFloat(col(row, "amount"), 64)
		out = append(out, domain.TradeRecord{
			AccountID:    col(row, "account_id"),
			Timestamp:    ts,
			Date:         date,
			Code:         col(row, "code"),
			Name:         col(row, "name"),
			OrderType:    domain.OrderType(col(row, "order_type")),
			Remark:       col(row, "remark"),
			Price:        price,
			Volume:       volume,
			Amount:       amount,
			StrategyName: col(row, "strategy_name"),
		})
	}
	return out, nil
}

// decodeTolerant strips a UTF-8 BOM if present, and falls back to GBK
// decoding when the bytes are not valid UTF-8 — trade CSVs exported by
// brokerage terminals are frequently GBK-encoded (SPEC_FULL.md domain-stack
// note on golang.org/x/text/encoding/simplifiedchinese).
func decodeTolerant(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(4096)
	if bytes.HasPrefix(peek, []byte(utf8BOM)) {
		io.CopyN(io.Discard, br, int64(len(utf8BOM)))
		return br
	}
	if utf8.Valid(peek) {
		return br
	}
	return transform.NewReader(br, simplifiedchinese.GBK.NewDecoder())
}
