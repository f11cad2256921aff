package market

import "time"

// Outcome is the coarse result label attached to a completed trade.
type Outcome string

const (
	// OK means realized profit was strictly positive.
	OK Outcome = "ok"
	// Loss means realized profit was strictly negative.
	Loss Outcome = "x"
	// Neutral covers exact breakeven and trades finalized with missing
	// fill fields (no clear gain or loss signal).
	Neutral Outcome = "NB"
)

// Classify maps a realized profit to its outcome label.
func Classify(profit float64) Outcome {
	switch {
	case profit > 0:
		return OK
	case profit < 0:
		return Loss
	default:
		return Neutral
	}
}

// Trade is one reconstructed buy/sell pair for a market, together with the
// indicator snapshot that was visible when the buy decision fired.
type Trade struct {
	ID     string // ULID, time-sortable
	Date   string // calendar date of the source log, YYYY-MM-DD
	Market string // e.g. "KRW-BTC"

	BuyTime  time.Time
	SellTime time.Time

	BuyKRW    float64 // invested notional, quote currency
	BuyPrice  float64 // executed unit buy price (0 when no fill line was seen)
	SellPrice float64 // executed unit sell price
	Volume    float64 // base units sold
	SellKRW   float64 // SellPrice * Volume

	ProfitKRW float64 // fee-adjusted realized profit
	Yield     float64 // percent

	Result   Outcome
	SellType string // which sell-result marker closed the trade

	// Indicators is the decision-time snapshot, keyed by indicator name.
	Indicators map[string]float64
}

// IndicatorColumns is the fixed column order used when the trade table leaves
// the process (CSV, SQLite). Snapshot keys outside this list are dropped on
// export.
var IndicatorColumns = []string{
	"PASS1_Ratio",
	"BID5_Ratio",
	"wideTrendAvg",
	"wideTrendAvg2",
	"trendAvg",
	"crossAvg",
	"fastRate",
	"upRate",
	"prevPriceRate",
}

// Indicator returns the named snapshot value, 0 when absent.
func (t Trade) Indicator(name string) float64 {
	if t.Indicators == nil {
		return 0
	}
	return t.Indicators[name]
}
