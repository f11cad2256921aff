// Package acclog reconstructs completed trades from the trading bot's
// free-text account log. One forward pass, bounded per-market state, no
// lookahead: the log is application logging, not a protocol, so everything
// here is best-effort pattern matching.
package acclog

import (
	"regexp"
	"strconv"
)

// FieldPattern extracts one live indicator value from a log line. The value
// sits in capture group 1; later lines overwrite earlier values for the same
// field (last value wins, no averaging).
type FieldPattern struct {
	Name string
	re   *regexp.Regexp
}

// Patterns is the full line-pattern contract with the log-producing bot.
// The marker texts are a versioned convention of the upstream application:
// when the bot's log phrasing changes, this table is what gets re-tuned, not
// the state machine that consumes it.
type Patterns struct {
	// Timestamp matches the bracketed millisecond time of day every
	// relevant line starts with.
	Timestamp *regexp.Regexp
	// Market matches the quote-base market token anywhere in a line.
	Market *regexp.Regexp

	Fields []FieldPattern

	// PassCheck marks the bot's final pre-trade filter passing for a
	// market. The live field map is frozen at that moment.
	PassCheck *regexp.Regexp

	// BuyOrder matches the bid-order confirmation with its embedded
	// key-value payload; capture groups are market and invested notional.
	BuyOrder      *regexp.Regexp
	BuyOrderPrice *regexp.Regexp

	// BuyFill matches the executed-bid line refining the nominal order
	// price with the fill unit price.
	BuyFill *regexp.Regexp

	// SellOrder matches the ask-order confirmation; the payload carries
	// the executed volume in base units.
	SellOrder       *regexp.Regexp
	SellOrderVolume *regexp.Regexp

	// SellResult matches the ask-monitoring result line that closes a
	// trade: groups are result marker, market, and unit sell price.
	SellResult *regexp.Regexp

	// PayloadMarket extracts the market from an order payload, which is
	// more reliable than the free-text token when a line mentions several
	// markets.
	PayloadMarket *regexp.Regexp
}

const marketToken = `(KRW-[A-Z0-9]+)`

// number patterns: volumes show up in scientific notation (1.2E8), rates can
// be negative.
const (
	volNum  = `([0-9.eE+]+)`
	rateNum = `(-?[0-9.]+)`
)

// DefaultPatterns is the consolidated pattern set for the current log format.
// Earlier generations of the bot phrased several of these lines differently;
// only the current phrasing is matched here.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Timestamp: regexp.MustCompile(`\[(\d{2}:\d{2}:\d{2}\.\d{3})\]`),
		Market:    regexp.MustCompile(marketToken),

		// Word boundaries matter: a bare `trendAvg` pattern would also
		// fire inside `wideTrendAvg` lines.
		Fields: []FieldPattern{
			{"pass1_avg", regexp.MustCompile(`prevAccTradePrice12Avg.*?/\s*` + volNum)},
			{"pass1_1min", regexp.MustCompile(`getAccTradePrice1min\(\).*?/\s*` + volNum)},
			{"bid5_24h", regexp.MustCompile(`getAccTradePrice24h\(\).*?/\s*` + volNum)},
			{"bid5_total", regexp.MustCompile(`total candles acc trade price.*?/\s*` + volNum)},
			{"wideTrendAvg", regexp.MustCompile(`\bwideTrendAvg\s*:\s*` + rateNum)},
			{"wideTrendAvg2", regexp.MustCompile(`\bwideTrendAvg2\s*:\s*` + rateNum)},
			{"trendAvg", regexp.MustCompile(`\btrendAvg\s*:\s*` + rateNum)},
			{"crossAvg", regexp.MustCompile(`\bcrossAvg\s*:\s*` + rateNum)},
			{"fastRate", regexp.MustCompile(`\bfastRate\s*:\s*` + rateNum)},
			{"upRate", regexp.MustCompile(`\bupRate\s*:\s*` + rateNum)},
			{"prevPriceRate", regexp.MustCompile(`\bprevPriceRate\s*:\s*` + rateNum)},
		},

		PassCheck: regexp.MustCompile(`BidSignalServiceImpl.*final pass`),

		BuyOrder:      regexp.MustCompile(`OrdersServiceImpl\.bidOrder.*"side":"bid"`),
		BuyOrderPrice: regexp.MustCompile(`"price":"([0-9.]+)"`),

		BuyFill: regexp.MustCompile(`BidMonitoringServiceImpl.*executed bid\s+` + marketToken + `\s*/\s*([0-9.]+)`),

		SellOrder:       regexp.MustCompile(`OrdersServiceImpl\.askOrder.*"side":"ask"`),
		SellOrderVolume: regexp.MustCompile(`"volume":"([0-9.]+)"`),

		SellResult: regexp.MustCompile(`AskMonitoringServiceImpl.*(down ask|up ask|highest ask)\s+` + marketToken + `\s*/\s*([0-9.]+)`),

		PayloadMarket: regexp.MustCompile(`"market":"` + marketToken + `"`),
	}
}

// matchFloat runs re against line and parses capture group g as a float.
// A miss or an unparseable number both read as "not there".
func matchFloat(re *regexp.Regexp, line string, g int) (float64, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil || g >= len(m) {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[g], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
