package market

import (
	"fmt"
	"time"
)

// Candle represents one OHLCV bar for a market at a fixed minute interval.
//
// Volume is the accumulated trade *price* for the interval (notional turnover
// in the quote currency), not a unit count. Upbit reports candles this way and
// every downstream ratio assumes it.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Interval is a minute-candle granularity supported by the exchange.
type Interval int

const (
	M1  Interval = 1
	M3  Interval = 3
	M5  Interval = 5
	M10 Interval = 10
	M15 Interval = 15
	M30 Interval = 30
	M60 Interval = 60
)

var validIntervals = map[Interval]bool{
	M1: true, M3: true, M5: true, M10: true, M15: true, M30: true, M60: true,
}

// Valid reports whether the interval is one the candle endpoint accepts.
func (iv Interval) Valid() bool { return validIntervals[iv] }

// Minutes returns the interval length in minutes.
func (iv Interval) Minutes() int { return int(iv) }

func (iv Interval) String() string { return fmt.Sprintf("%dm", int(iv)) }

// ParseInterval converts a minute count into an Interval.
func ParseInterval(minutes int) (Interval, error) {
	iv := Interval(minutes)
	if !iv.Valid() {
		return 0, fmt.Errorf("unsupported candle interval %dm", minutes)
	}
	return iv, nil
}

// Closes extracts the close column from a candle window.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts the volume column from a candle window.
func Volumes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Volume
	}
	return out
}

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Sum returns the sum of xs.
func Sum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum
}
