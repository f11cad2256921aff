package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acclens/market"
)

// window builds an ascending candle window from parallel close/volume
// columns.
func window(closes, vols []float64) []market.Candle {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	cs := make([]market.Candle, len(closes))
	for i := range closes {
		cs[i] = market.Candle{
			Time:   base.Add(time.Duration(i) * 3 * time.Minute),
			Open:   closes[i],
			High:   closes[i],
			Low:    closes[i],
			Close:  closes[i],
			Volume: vols[i],
		}
	}
	return cs
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateInsufficientHistory(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}
	require.Equal(t, 9, p.MinCandles())

	short := window(repeat(1, 8), repeat(1, 8))
	assert.Nil(t, Calculate(short, nil, 0, p))

	enough := window(repeat(1, 9), repeat(1, 9))
	assert.NotNil(t, Calculate(enough, nil, 0, p))
}

func TestCalculateKnownValues(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}

	closes := []float64{1, 2, 3, 4, 5, 6, 7, 8, 10, 99}
	vols := []float64{5, 10, 40, 20, 10, 10, 10, 20, 10, 999}
	base := window(closes, vols)

	oneMin := window([]float64{1, 1, 1}, []float64{1, 2, 3})

	got := Calculate(base, oneMin, 100, p)
	require.NotNil(t, got)

	// PASS1: completed 1m volume (2) over mean of the last two completed
	// base volumes (20, 10).
	assert.InDelta(t, 2.0/15.0, got["PASS1_Ratio"], 1e-12)

	// BID5: volumes 20+10 over the 24h reference.
	assert.InDelta(t, 0.3, got["BID5_Ratio"], 1e-12)

	// trend windows: mean(8,10) over mean(6,7).
	assert.InDelta(t, 9.0/6.5, got["trendAvg"], 1e-12)
	assert.InDelta(t, 9.0/6.5, got["wideTrendAvg"], 1e-12)
	assert.InDelta(t, 9.0/6.5, got["wideTrendAvg2"], 1e-12)

	// short and long trailing means coincide here.
	assert.InDelta(t, 1.0, got["crossAvg"], 1e-12)

	// peak volume 20 at the second-to-last completed bar, two before it
	// sits volume 10.
	assert.InDelta(t, -0.5, got["fastRate"], 1e-12)

	assert.InDelta(t, -0.5, got["upRate"], 1e-12)
	assert.InDelta(t, 25.0, got["prevPriceRate"], 1e-12)
}

func TestCalculateTrendDefaultsToNeutral(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}

	// zero closes make every denominator window mean non-positive.
	base := window(repeat(0, 10), repeat(1, 10))
	got := Calculate(base, nil, 0, p)
	require.NotNil(t, got)

	assert.Equal(t, 1.0, got["wideTrendAvg"])
	assert.Equal(t, 1.0, got["wideTrendAvg2"])
	assert.Equal(t, 1.0, got["trendAvg"])
	assert.Equal(t, 1.0, got["crossAvg"])
}

func TestCalculateVolumeRatiosDefaultToZero(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}

	base := window(repeat(5, 10), repeat(0, 10))
	got := Calculate(base, window([]float64{1, 1}, []float64{7, 7}), 0, p)
	require.NotNil(t, got)

	assert.Equal(t, 0.0, got["PASS1_Ratio"])
	assert.Equal(t, 0.0, got["BID5_Ratio"])
	assert.Equal(t, 0.0, got["upRate"])
	assert.Equal(t, 0.0, got["fastRate"])
}

func TestCalculateBID5FallsBackToWindowSum(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}

	vols := repeat(10, 10)
	base := window(repeat(5, 10), vols)

	// no 24h reference: denominator is the whole window sum (100).
	got := Calculate(base, nil, 0, p)
	require.NotNil(t, got)
	assert.InDelta(t, 20.0/100.0, got["BID5_Ratio"], 1e-12)
}

func TestFastRatePeakAtWindowStart(t *testing.T) {
	// FastN larger than the data: the trailing window starts at index 0,
	// and the peak sits there, so "two before the peak" is out of range.
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 20}

	vols := []float64{40, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	base := window(repeat(5, 10), vols)

	got := Calculate(base, nil, 0, p)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, got["fastRate"])
}

func TestCalculatePASS1SingleAuxCandle(t *testing.T) {
	p := Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}

	base := window(repeat(5, 10), repeat(10, 10))
	oneMin := window([]float64{1}, []float64{30})

	got := Calculate(base, oneMin, 0, p)
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, got["PASS1_Ratio"], 1e-12)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 3, p.Pass1N)
	assert.Equal(t, 17, p.WideN)
	assert.Equal(t, 3, p.Wide2N)
	assert.Equal(t, 2, p.TrendN)
	assert.Equal(t, 24, p.FastN)
	assert.Equal(t, 39, p.MinCandles())

	// zero values fill in from defaults.
	assert.Equal(t, 39, Params{}.MinCandles())
}
