// Package journal gets the reconstructed trade table out of the process:
// a CSV spreadsheet or a SQLite file, written on demand from whatever is
// currently loaded. Neither sink is an operational store; both are export
// artifacts a chart tool or spreadsheet opens afterwards.
package journal

import "acclens/market"

// Journal is anything that can persist trade records.
type Journal interface {
	RecordTrade(market.Trade) error
	Close() error
}

// RecordAll writes every trade to j, stopping at the first failure.
func RecordAll(j Journal, trades []market.Trade) error {
	for _, t := range trades {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

// Summary is the headline read of a trade table.
type Summary struct {
	Total   int
	OK      int
	Loss    int
	Neutral int
	// WinRate is OK / (OK + Loss) in percent; neutral trades don't count
	// toward either side. 0 when no decided trades exist.
	WinRate   float64
	ProfitKRW float64
}

// Summarize computes counts, win rate, and net profit over trades.
func Summarize(trades []market.Trade) Summary {
	var s Summary
	for _, t := range trades {
		s.Total++
		s.ProfitKRW += t.ProfitKRW
		switch t.Result {
		case market.OK:
			s.OK++
		case market.Loss:
			s.Loss++
		default:
			s.Neutral++
		}
	}
	if decided := s.OK + s.Loss; decided > 0 {
		s.WinRate = float64(s.OK) / float64(decided) * 100
	}
	return s
}
