package acclog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"acclens/market"
	"acclens/pkg/id"
)

// FeeRate is the round-trip exchange fee charged against the invested
// notional when profit is settled.
const FeeRate = 0.001

// phase is the per-market position in the reconstruction lifecycle.
type phase int

const (
	idle         phase = iota // nothing seen for this market yet
	tracking                  // indicator fields updating line by line
	passCaptured              // final pre-trade check fired, snapshot frozen
	pending                   // buy confirmed, waiting for the sell side
)

// position is one open (unmatched) buy. At most one exists per market; a
// later buy simply replaces it.
type position struct {
	buyTime    time.Time
	buyKRW     float64
	buyPrice   float64
	sellVolume float64
	haveVolume bool
	indicators map[string]float64
}

// marketState is the tagged per-market record the scan mutates. Keeping the
// phase explicit in one place is what enforces the single-position-per-market,
// latest-wins policy.
type marketState struct {
	phase    phase
	fields   map[string]float64
	snapshot map[string]float64
	pos      *position
}

// Parser turns one day's account log into completed trade records.
type Parser struct {
	pats *Patterns
	fee  float64
}

// Option tweaks a Parser.
type Option func(*Parser)

// WithPatterns swaps in an alternate pattern set (for older log formats).
func WithPatterns(p *Patterns) Option {
	return func(pr *Parser) { pr.pats = p }
}

// WithFeeRate overrides the settlement fee rate.
func WithFeeRate(rate float64) Option {
	return func(pr *Parser) { pr.fee = rate }
}

// New creates a Parser with the current pattern set and the default fee.
func New(opts ...Option) *Parser {
	p := &Parser{pats: DefaultPatterns(), fee: FeeRate}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseFile scans the log file at path for the given calendar date
// (YYYY-MM-DD). Only I/O problems surface as errors; log content never does.
func (p *Parser) ParseFile(path, date string) ([]market.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f, date), nil
}

// Parse scans r line by line in file order (assumed chronological) and
// returns the trades that completed within it. Unparseable lines, unmatched
// sells, and malformed payloads are dropped without comment: the job is
// heuristic reconstruction, not validation.
func (p *Parser) Parse(r io.Reader, date string) []market.Trade {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}

	states := make(map[string]*marketState)
	var trades []market.Trade

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()

		ts, ok := p.lineTime(day, line)
		if !ok {
			continue
		}

		if mkt := p.lineMarket(line); mkt != "" {
			st := p.state(states, mkt)
			p.trackFields(st, line)

			if p.pats.PassCheck.MatchString(line) {
				p.capturePass(st)
			}
		}

		switch {
		case p.pats.BuyOrder.MatchString(line):
			p.openPosition(states, line, ts)
		case p.pats.BuyFill.MatchString(line):
			p.fillBuy(states, line)
		case p.pats.SellOrder.MatchString(line):
			p.attachSellVolume(states, line)
		default:
			if t, ok := p.settle(states, line, ts, date); ok {
				trades = append(trades, t)
			}
		}
	}
	// Scanner errors (oversized lines, read failures mid-stream) just end
	// the scan early; whatever settled before that still counts.

	return trades
}

// lineTime anchors the in-line time of day on the supplied calendar date.
func (p *Parser) lineTime(day time.Time, line string) (time.Time, bool) {
	m := p.pats.Timestamp.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	tod, err := time.Parse("15:04:05.000", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), tod.Nanosecond(), time.UTC), true
}

func (p *Parser) lineMarket(line string) string {
	m := p.pats.Market.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// payloadMarket prefers the market named inside an order payload over the
// first free-text token on the line.
func (p *Parser) payloadMarket(line string) string {
	if m := p.pats.PayloadMarket.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return p.lineMarket(line)
}

func (p *Parser) state(states map[string]*marketState, mkt string) *marketState {
	st, ok := states[mkt]
	if !ok {
		st = &marketState{phase: idle, fields: make(map[string]float64)}
		states[mkt] = st
	}
	return st
}

// trackFields applies the declarative field table: one value per matching
// pattern, last value wins.
func (p *Parser) trackFields(st *marketState, line string) {
	for _, fp := range p.pats.Fields {
		if v, ok := matchFloat(fp.re, line, 1); ok {
			st.fields[fp.Name] = v
			if st.phase == idle {
				st.phase = tracking
			}
		}
	}
}

// capturePass freezes the live field map and derives the two decision-time
// ratios from the cached raw inputs. A later pass for the same market simply
// replaces the snapshot.
func (p *Parser) capturePass(st *marketState) {
	snap := make(map[string]float64, len(st.fields)+2)
	for k, v := range st.fields {
		snap[k] = v
	}
	snap["PASS1_Ratio"] = safeRatio(snap["pass1_1min"], snap["pass1_avg"])
	snap["BID5_Ratio"] = safeRatio(snap["bid5_total"], snap["bid5_24h"])

	st.snapshot = snap
	if st.phase != pending {
		st.phase = passCaptured
	}
}

// openPosition promotes a market to pending on a bid-order confirmation,
// carrying the frozen snapshot (or, lacking one, a copy of whatever live
// state exists) plus the invested notional from the payload. An existing
// pending position for the market is overwritten.
func (p *Parser) openPosition(states map[string]*marketState, line string, ts time.Time) {
	mkt := p.payloadMarket(line)
	if mkt == "" {
		return
	}
	buyKRW, ok := matchFloat(p.pats.BuyOrderPrice, line, 1)
	if !ok {
		return
	}

	st := p.state(states, mkt)

	snap := st.snapshot
	if snap == nil {
		snap = make(map[string]float64, len(st.fields))
		for k, v := range st.fields {
			snap[k] = v
		}
		snap["PASS1_Ratio"] = safeRatio(snap["pass1_1min"], snap["pass1_avg"])
		snap["BID5_Ratio"] = safeRatio(snap["bid5_total"], snap["bid5_24h"])
	}

	st.pos = &position{
		buyTime:    ts,
		buyKRW:     buyKRW,
		indicators: snap,
	}
	st.phase = pending
	st.snapshot = nil
}

func (p *Parser) fillBuy(states map[string]*marketState, line string) {
	m := p.pats.BuyFill.FindStringSubmatch(line)
	if m == nil {
		return
	}
	st, ok := states[m[1]]
	if !ok || st.pos == nil {
		return
	}
	if price, ok := matchFloat(p.pats.BuyFill, line, 2); ok {
		st.pos.buyPrice = price
	}
}

func (p *Parser) attachSellVolume(states map[string]*marketState, line string) {
	mkt := p.payloadMarket(line)
	if mkt == "" {
		return
	}
	st, ok := states[mkt]
	if !ok || st.pos == nil {
		return
	}
	if vol, ok := matchFloat(p.pats.SellOrderVolume, line, 1); ok {
		st.pos.sellVolume = vol
		st.pos.haveVolume = true
	}
}

// settle closes a pending position on a sell-result line and emits the
// finalized record. A result for a market with no pending position, or one
// whose sell order was never seen, is ignored.
func (p *Parser) settle(states map[string]*marketState, line string, ts time.Time, date string) (market.Trade, bool) {
	m := p.pats.SellResult.FindStringSubmatch(line)
	if m == nil {
		return market.Trade{}, false
	}
	sellType, mkt := m[1], m[2]

	st, ok := states[mkt]
	if !ok || st.pos == nil || !st.pos.haveVolume {
		return market.Trade{}, false
	}
	sellPrice, ok := matchFloat(p.pats.SellResult, line, 3)
	if !ok {
		return market.Trade{}, false
	}

	pos := st.pos
	st.pos = nil
	st.phase = idle

	sellKRW := sellPrice * pos.sellVolume
	fee := p.fee * pos.buyKRW

	var profit, yield float64
	if pos.buyPrice > 0 {
		profit = (sellPrice-pos.buyPrice)*pos.sellVolume - fee
		yield = (sellPrice - pos.buyPrice) / pos.buyPrice * 100
	} else {
		// No fill line was seen; settle against the invested notional.
		profit = sellKRW - pos.buyKRW - fee
		if pos.buyKRW > 0 {
			yield = profit / pos.buyKRW * 100
		}
	}

	result := market.Classify(profit)
	if pos.buyPrice <= 0 && pos.buyKRW <= 0 {
		result = market.Neutral
	}

	return market.Trade{
		ID:         id.New(),
		Date:       date,
		Market:     mkt,
		BuyTime:    pos.buyTime,
		SellTime:   ts,
		BuyKRW:     pos.buyKRW,
		BuyPrice:   pos.buyPrice,
		SellPrice:  sellPrice,
		Volume:     pos.sellVolume,
		SellKRW:    sellKRW,
		ProfitKRW:  profit,
		Yield:      yield,
		Result:     result,
		SellType:   sellType,
		Indicators: pos.indicators,
	}, true
}

func safeRatio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
