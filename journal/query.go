package journal

import (
	"database/sql"
	"fmt"
	"time"

	"acclens/market"
)

const selectColumns = `
	trade_id, date, market, buy_time, sell_time,
	buy_krw, buy_price, sell_price, volume, sell_krw,
	profit_krw, yield, result, sell_type,
	pass1_ratio, bid5_ratio, wide_trend_avg, wide_trend_avg2,
	trend_avg, cross_avg, fast_rate, up_rate, prev_price_rate`

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (market.Trade, error) {
	row := j.db.QueryRow(`SELECT`+selectColumns+`
		FROM trades WHERE trade_id = ?`, tradeID)

	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return market.Trade{}, fmt.Errorf("trade %q not found", tradeID)
	}
	return t, err
}

// ListTradesByDate returns the trades for one calendar date in buy order.
func (j *SQLite) ListTradesByDate(date string) ([]market.Trade, error) {
	return j.list(`SELECT`+selectColumns+`
		FROM trades WHERE date = ? ORDER BY buy_time ASC`, date)
}

// ListTradesByMarket returns every trade for one market, oldest first.
func (j *SQLite) ListTradesByMarket(mkt string) ([]market.Trade, error) {
	return j.list(`SELECT`+selectColumns+`
		FROM trades WHERE market = ? ORDER BY buy_time ASC`, mkt)
}

// ListTradesClosedBetween returns trades whose sell time is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]market.Trade, error) {
	return j.list(`SELECT`+selectColumns+`
		FROM trades WHERE sell_time >= ? AND sell_time < ?
		ORDER BY sell_time ASC`, start, end)
}

// Summary computes the headline counts straight from the database.
func (j *SQLite) Summary() (Summary, error) {
	var s Summary
	row := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN result = 'ok' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN result = 'x' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(profit_krw), 0)
		FROM trades`)
	if err := row.Scan(&s.Total, &s.OK, &s.Loss, &s.ProfitKRW); err != nil {
		return Summary{}, err
	}
	s.Neutral = s.Total - s.OK - s.Loss
	if decided := s.OK + s.Loss; decided > 0 {
		s.WinRate = float64(s.OK) / float64(decided) * 100
	}
	return s, nil
}

func (j *SQLite) list(query string, args ...any) ([]market.Trade, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []market.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (market.Trade, error) {
	var (
		t      market.Trade
		result string
		ind    [9]float64
	)
	err := s.Scan(
		&t.ID, &t.Date, &t.Market, &t.BuyTime, &t.SellTime,
		&t.BuyKRW, &t.BuyPrice, &t.SellPrice, &t.Volume, &t.SellKRW,
		&t.ProfitKRW, &t.Yield, &result, &t.SellType,
		&ind[0], &ind[1], &ind[2], &ind[3], &ind[4], &ind[5], &ind[6], &ind[7], &ind[8],
	)
	if err != nil {
		return market.Trade{}, err
	}
	t.Result = market.Outcome(result)
	t.Indicators = make(map[string]float64, len(market.IndicatorColumns))
	for i, col := range market.IndicatorColumns {
		t.Indicators[col] = ind[i]
	}
	return t, nil
}
