// Package compare replays historical candles through the indicator formulas
// to inspect what the bot saw at a given moment, and judges how the entry
// would have played out over the following hour.
package compare

import (
	"context"
	"fmt"
	"time"

	"acclens/indicator"
	"acclens/market"
)

// Fetcher is the candle source. Satisfied by *upbit.Client.
type Fetcher interface {
	GetCandles(ctx context.Context, mkt string, to time.Time, interval market.Interval, count int) ([]market.Candle, error)
}

// Outcome judgement over the post-entry window.
const (
	Success = "SUCCESS" // high reached +2% after entry
	Failure = "FAILURE" // low reached -2% after entry
	Hold    = "HOLD"    // neither threshold hit within the window
	NoData  = "NO DATA" // no candles after the entry time
)

// thresholds for the hour following entry, in percent.
const (
	takeProfitPct = 2.0
	stopLossPct   = -2.0
)

// Evaluation is one market/time point run through the formulas.
type Evaluation struct {
	Market     string
	At         time.Time
	EntryPrice float64
	Outcome    string
	// ExtremeRate is the percent move that decided the outcome: the best
	// high for SUCCESS/HOLD, the worst low for FAILURE.
	ExtremeRate float64
	Indicators  map[string]float64
}

// Comparer runs evaluations against a candle source. Calls are sequential
// and synchronous; a failed fetch degrades to "insufficient data".
type Comparer struct {
	Fetcher  Fetcher
	Interval market.Interval
	Params   indicator.Params
}

// New builds a Comparer on the given source with the default base interval
// and parameter set.
func New(f Fetcher) *Comparer {
	return &Comparer{Fetcher: f, Interval: market.M3, Params: indicator.DefaultParams()}
}

// Evaluate fetches the decision-time windows for mkt at the given UTC time,
// computes the indicator snapshot, and judges the following hour.
func (c *Comparer) Evaluate(ctx context.Context, mkt string, at time.Time) (Evaluation, error) {
	base, err := c.Fetcher.GetCandles(ctx, mkt, at, c.Interval, 200)
	if err != nil {
		return Evaluation{}, err
	}
	if len(base) == 0 {
		return Evaluation{}, fmt.Errorf("no candle data for %s at %s", mkt, at.Format(time.RFC3339))
	}

	oneMin, err := c.Fetcher.GetCandles(ctx, mkt, at, market.M1, 60)
	if err != nil {
		return Evaluation{}, err
	}
	future, err := c.Fetcher.GetCandles(ctx, mkt, at.Add(60*time.Minute), market.M1, 120)
	if err != nil {
		return Evaluation{}, err
	}

	entry := base[len(base)-1].Close
	outcome, rate := judge(future, entry, at)

	return Evaluation{
		Market:      mkt,
		At:          at,
		EntryPrice:  entry,
		Outcome:     outcome,
		ExtremeRate: rate,
		Indicators:  indicator.Calculate(base, oneMin, 0, c.Params),
	}, nil
}

// Compare evaluates two market/time pairs for side-by-side inspection.
func (c *Comparer) Compare(ctx context.Context, mktA string, atA time.Time, mktB string, atB time.Time) (Evaluation, Evaluation, error) {
	a, err := c.Evaluate(ctx, mktA, atA)
	if err != nil {
		return Evaluation{}, Evaluation{}, err
	}
	b, err := c.Evaluate(ctx, mktB, atB)
	if err != nil {
		return Evaluation{}, Evaluation{}, err
	}
	return a, b, nil
}

// judge classifies the entry by the extremes of the candles strictly after
// the entry time: take-profit threshold first, then stop-loss, else hold.
func judge(future []market.Candle, entry float64, at time.Time) (string, float64) {
	if entry <= 0 {
		return NoData, 0
	}

	var (
		maxHigh float64
		minLow  float64
		any     bool
	)
	for _, cdl := range future {
		if !cdl.Time.After(at) {
			continue
		}
		if !any || cdl.High > maxHigh {
			maxHigh = cdl.High
		}
		if !any || cdl.Low < minLow {
			minLow = cdl.Low
		}
		any = true
	}
	if !any {
		return NoData, 0
	}

	highRate := (maxHigh - entry) / entry * 100
	lowRate := (minLow - entry) / entry * 100

	switch {
	case highRate >= takeProfitPct:
		return Success, highRate
	case lowRate <= stopLossPct:
		return Failure, lowRate
	default:
		return Hold, highRate
	}
}
