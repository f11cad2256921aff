package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"acclens/market"
)

// CSV writes the trade table as a flat spreadsheet, indicator snapshot
// included, one row per completed trade.
type CSV struct {
	w *csv.Writer
	f *os.File
}

// csvHeader is the fixed column layout; indicator columns follow the scalar
// fields in market.IndicatorColumns order.
func csvHeader() []string {
	head := []string{
		"trade_id", "date", "market",
		"buy_time", "sell_time",
		"buy_krw", "buy_price", "sell_price", "volume", "sell_krw",
		"profit_krw", "yield", "result", "sell_type",
	}
	return append(head, market.IndicatorColumns...)
}

// NewCSV creates (truncating) the spreadsheet at path and writes the header.
func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader()); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (j *CSV) RecordTrade(t market.Trade) error {
	row := []string{
		t.ID,
		t.Date,
		t.Market,
		t.BuyTime.Format(time.RFC3339Nano),
		t.SellTime.Format(time.RFC3339Nano),
		f(t.BuyKRW),
		f(t.BuyPrice),
		f(t.SellPrice),
		f(t.Volume),
		f(t.SellKRW),
		f(t.ProfitKRW),
		f(t.Yield),
		string(t.Result),
		t.SellType,
	}
	for _, col := range market.IndicatorColumns {
		row = append(row, f(t.Indicator(col)))
	}

	if err := j.w.Write(row); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
