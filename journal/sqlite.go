package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"acclens/market"
)

// SQLite writes the trade table into a single-file database, indicator
// snapshot flattened into columns so chart tooling can query it directly.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t market.Trade) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, date, market, buy_time, sell_time,
		 buy_krw, buy_price, sell_price, volume, sell_krw,
		 profit_krw, yield, result, sell_type,
		 pass1_ratio, bid5_ratio, wide_trend_avg, wide_trend_avg2,
		 trend_avg, cross_avg, fast_rate, up_rate, prev_price_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.Market, t.BuyTime, t.SellTime,
		t.BuyKRW, t.BuyPrice, t.SellPrice, t.Volume, t.SellKRW,
		t.ProfitKRW, t.Yield, string(t.Result), t.SellType,
		t.Indicator("PASS1_Ratio"), t.Indicator("BID5_Ratio"),
		t.Indicator("wideTrendAvg"), t.Indicator("wideTrendAvg2"),
		t.Indicator("trendAvg"), t.Indicator("crossAvg"),
		t.Indicator("fastRate"), t.Indicator("upRate"),
		t.Indicator("prevPriceRate"),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
