package compare

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acclens/indicator"
	"acclens/market"
)

// stubFetcher serves canned windows keyed by interval and count, mirroring
// the three fetches Evaluate performs.
type stubFetcher struct {
	base   []market.Candle
	oneMin []market.Candle
	future []market.Candle
	calls  int
}

func (s *stubFetcher) GetCandles(_ context.Context, _ string, to time.Time, iv market.Interval, count int) ([]market.Candle, error) {
	s.calls++
	switch {
	case iv != market.M1:
		return s.base, nil
	case count == 120:
		return s.future, nil
	default:
		return s.oneMin, nil
	}
}

func flatWindow(n int, close float64, start time.Time, step time.Duration) []market.Candle {
	cs := make([]market.Candle, n)
	for i := range cs {
		cs[i] = market.Candle{
			Time:   start.Add(time.Duration(i) * step),
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: 1000,
		}
	}
	return cs
}

func futureWindow(entry time.Time, highs, lows []float64) []market.Candle {
	cs := make([]market.Candle, len(highs))
	for i := range highs {
		cs[i] = market.Candle{
			Time: entry.Add(time.Duration(i+1) * time.Minute),
			High: highs[i],
			Low:  lows[i],
		}
	}
	return cs
}

func newTestComparer(f Fetcher) *Comparer {
	c := New(f)
	// small windows keep the fixtures readable.
	c.Params = indicator.Params{Pass1N: 2, WideN: 2, Wide2N: 2, TrendN: 2, FastN: 4}
	return c
}

func TestEvaluateSuccess(t *testing.T) {
	entry := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	fetcher := &stubFetcher{
		base:   flatWindow(20, 100, entry.Add(-60*time.Minute), 3*time.Minute),
		oneMin: flatWindow(10, 100, entry.Add(-10*time.Minute), time.Minute),
		// +3% high within the hour.
		future: futureWindow(entry, []float64{101, 103}, []float64{100, 100}),
	}

	ev, err := newTestComparer(fetcher).Evaluate(context.Background(), "KRW-BTC", entry)
	require.NoError(t, err)

	assert.Equal(t, Success, ev.Outcome)
	assert.InDelta(t, 3.0, ev.ExtremeRate, 1e-9)
	assert.Equal(t, 100.0, ev.EntryPrice)
	assert.NotEmpty(t, ev.Indicators)
	assert.Equal(t, 3, fetcher.calls)
}

func TestEvaluateFailure(t *testing.T) {
	entry := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	fetcher := &stubFetcher{
		base:   flatWindow(20, 100, entry.Add(-60*time.Minute), 3*time.Minute),
		oneMin: flatWindow(10, 100, entry.Add(-10*time.Minute), time.Minute),
		future: futureWindow(entry, []float64{100.5, 100.2}, []float64{99, 97.5}),
	}

	ev, err := newTestComparer(fetcher).Evaluate(context.Background(), "KRW-BTC", entry)
	require.NoError(t, err)

	assert.Equal(t, Failure, ev.Outcome)
	assert.InDelta(t, -2.5, ev.ExtremeRate, 1e-9)
}

func TestEvaluateHold(t *testing.T) {
	entry := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	fetcher := &stubFetcher{
		base:   flatWindow(20, 100, entry.Add(-60*time.Minute), 3*time.Minute),
		oneMin: flatWindow(10, 100, entry.Add(-10*time.Minute), time.Minute),
		future: futureWindow(entry, []float64{101, 100.5}, []float64{99.5, 99}),
	}

	ev, err := newTestComparer(fetcher).Evaluate(context.Background(), "KRW-BTC", entry)
	require.NoError(t, err)

	assert.Equal(t, Hold, ev.Outcome)
	assert.InDelta(t, 1.0, ev.ExtremeRate, 1e-9)
}

func TestEvaluateNoFutureData(t *testing.T) {
	entry := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	fetcher := &stubFetcher{
		base:   flatWindow(20, 100, entry.Add(-60*time.Minute), 3*time.Minute),
		oneMin: flatWindow(10, 100, entry.Add(-10*time.Minute), time.Minute),
		// only candles at or before the entry time.
		future: flatWindow(5, 100, entry.Add(-5*time.Minute), time.Minute),
	}

	ev, err := newTestComparer(fetcher).Evaluate(context.Background(), "KRW-BTC", entry)
	require.NoError(t, err)
	assert.Equal(t, NoData, ev.Outcome)
}

func TestEvaluateEmptyBaseWindow(t *testing.T) {
	fetcher := &stubFetcher{}

	_, err := newTestComparer(fetcher).
		Evaluate(context.Background(), "KRW-BTC", time.Now().UTC())
	assert.Error(t, err)
}

func TestCompareEvaluatesBoth(t *testing.T) {
	entry := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	fetcher := &stubFetcher{
		base:   flatWindow(20, 100, entry.Add(-60*time.Minute), 3*time.Minute),
		oneMin: flatWindow(10, 100, entry.Add(-10*time.Minute), time.Minute),
		future: futureWindow(entry, []float64{103}, []float64{100}),
	}

	a, b, err := newTestComparer(fetcher).
		Compare(context.Background(), "KRW-BTC", entry, "KRW-ETH", entry)
	require.NoError(t, err)

	assert.Equal(t, "KRW-BTC", a.Market)
	assert.Equal(t, "KRW-ETH", b.Market)
	assert.Equal(t, Success, a.Outcome)
	assert.Equal(t, Success, b.Outcome)
}
