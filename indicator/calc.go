// Package indicator computes the rolling-window ratios the trading bot logs
// at decision time, from raw candle windows. All windows are trailing windows
// over *completed* bars: the most recent candle is still forming and is
// excluded everywhere, so live and replayed values line up.
package indicator

import "acclens/market"

// Params holds the five window lengths the ratios are computed over.
type Params struct {
	Pass1N int `json:"pass1_n" yaml:"pass1_n"` // volume-baseline window for PASS1_Ratio
	WideN  int `json:"wide_n" yaml:"wide_n"`   // long-term trend window
	Wide2N int `json:"wide2_n" yaml:"wide2_n"` // mid-term trend window
	TrendN int `json:"trend_n" yaml:"trend_n"` // short-term trend window
	FastN  int `json:"fast_n" yaml:"fast_n"`   // volume-peak lookback for fastRate
}

// DefaultParams are the window lengths the live bot runs with.
func DefaultParams() Params {
	return Params{Pass1N: 3, WideN: 17, Wide2N: 3, TrendN: 2, FastN: 24}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Pass1N <= 0 {
		p.Pass1N = d.Pass1N
	}
	if p.WideN <= 0 {
		p.WideN = d.WideN
	}
	if p.Wide2N <= 0 {
		p.Wide2N = d.Wide2N
	}
	if p.TrendN <= 0 {
		p.TrendN = d.TrendN
	}
	if p.FastN <= 0 {
		p.FastN = d.FastN
	}
	return p
}

// MinCandles is the shortest base window Calculate accepts for the given
// params; anything shorter yields no values at all.
func (p Params) MinCandles() int {
	p = p.withDefaults()
	return 2*p.WideN + 5
}

// Calculate derives the indicator snapshot from a base-interval candle window,
// an auxiliary 1-minute window, and a 24h cumulative volume reference.
// It returns nil when the base window is too short to be meaningful.
//
// Division guards follow the same convention throughout: volume ratios default
// to 0, trend ratios default to the neutral 1.0.
func Calculate(base, oneMin []market.Candle, vol24h float64, p Params) map[string]float64 {
	p = p.withDefaults()

	n := len(base)
	if n < p.MinCandles() {
		return nil
	}

	vols := market.Volumes(base)
	closes := market.Closes(base)

	// PASS1: last completed 1m volume vs the mean of the last Pass1N
	// completed base-interval volumes.
	var cur1m float64
	switch {
	case len(oneMin) >= 2:
		cur1m = oneMin[len(oneMin)-2].Volume
	case len(oneMin) == 1:
		cur1m = oneMin[0].Volume
	}
	pass1 := ratioOrZero(cur1m, market.Mean(vols[n-1-p.Pass1N:n-1]))

	// BID5: the two candles just before the current one vs 24h turnover.
	ref24h := vol24h
	if ref24h <= 0 {
		ref24h = market.Sum(vols)
	}
	bid5 := ratioOrZero(market.Sum(vols[n-3:n-1]), ref24h)

	wideCur := market.Mean(closes[n-1-p.WideN : n-1])
	wide := trendRatio(wideCur, market.Mean(closes[n-1-2*p.WideN:n-1-p.WideN]))
	wide2 := trendRatio(
		market.Mean(closes[n-1-p.Wide2N:n-1]),
		market.Mean(closes[n-1-2*p.Wide2N:n-1-p.Wide2N]))
	trendCur := market.Mean(closes[n-1-p.TrendN : n-1])
	trend := trendRatio(trendCur, market.Mean(closes[n-1-2*p.TrendN:n-1-p.TrendN]))

	// Disparity of the short-term trailing mean over the long-term one.
	cross := trendRatio(trendCur, wideCur)

	fast := fastRate(vols, p.FastN)

	upRate := ratioOrZero(vols[n-2]-vols[n-3], vols[n-3])
	priceRate := ratioOrZero(closes[n-2]-closes[n-3], closes[n-3]) * 100

	return map[string]float64{
		"PASS1_Ratio":   pass1,
		"BID5_Ratio":    bid5,
		"wideTrendAvg":  wide,
		"wideTrendAvg2": wide2,
		"trendAvg":      trend,
		"crossAvg":      cross,
		"fastRate":      fast,
		"upRate":        upRate,
		"prevPriceRate": priceRate,
	}
}

// fastRate finds the max-volume bar among the last n completed bars and
// reports the fractional volume change from that peak back to the bar two
// slots earlier. Peaks too close to the start of the data yield 0.
func fastRate(vols []float64, n int) float64 {
	end := len(vols) - 1 // exclude the forming bar
	start := end - n
	if start < 0 {
		start = 0
	}
	if start >= end {
		return 0
	}

	maxIdx := start
	for i := start + 1; i < end; i++ {
		if vols[i] > vols[maxIdx] {
			maxIdx = i
		}
	}

	target := maxIdx - 2
	if target < 0 || vols[maxIdx] <= 0 {
		return 0
	}
	return (vols[target] - vols[maxIdx]) / vols[maxIdx]
}

func ratioOrZero(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func trendRatio(cur, prev float64) float64 {
	if prev <= 0 {
		return 1.0
	}
	return cur / prev
}
