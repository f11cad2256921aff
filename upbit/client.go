// Package upbit fetches minute candles from the Upbit public quotation API
// and normalizes them into the canonical market schema.
package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"acclens/market"
)

// BaseURL is the Upbit public quotation API.
const BaseURL = "https://api.upbit.com"

// timeLayout is the ISO-8601 form Upbit expects for the "to" parameter
// (UTC with a trailing Z).
const timeLayout = "2006-01-02T15:04:05Z"

// Client talks to the minute-candle endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public API.
func NewClient() *Client {
	return &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithBaseURL creates a client against an alternate endpoint.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// apiCandle is one element of the minute-candle response. Upbit reports
// volume as accumulated trade price (quote-currency turnover), which is what
// the calculator wants.
type apiCandle struct {
	Market    string  `json:"market"`
	TimeUTC   string  `json:"candle_date_time_utc"`
	Open      float64 `json:"opening_price"`
	High      float64 `json:"high_price"`
	Low       float64 `json:"low_price"`
	Close     float64 `json:"trade_price"`
	AccPrice  float64 `json:"candle_acc_trade_price"`
	AccVolume float64 `json:"candle_acc_trade_volume"`
}

// GetCandles returns up to count candles at the given interval ending at or
// before to (zero time means "now"), sorted ascending by time.
//
// The fetch is best-effort: transport failures, non-200 responses, and
// payloads that are not a candle list all come back as an empty slice with a
// nil error. Callers treat empty as "no data" and move on; nothing here is
// worth aborting a batch for.
func (c *Client) GetCandles(ctx context.Context, mkt string, to time.Time, interval market.Interval, count int) ([]market.Candle, error) {
	if mkt == "" {
		return nil, fmt.Errorf("market is required")
	}
	if !interval.Valid() {
		return nil, fmt.Errorf("unsupported candle interval %dm", int(interval))
	}
	if count <= 0 {
		count = 200
	}

	params := url.Values{}
	params.Set("market", mkt)
	params.Set("count", fmt.Sprintf("%d", count))
	if !to.IsZero() {
		params.Set("to", to.UTC().Format(timeLayout))
	}

	apiURL := fmt.Sprintf("%s/v1/candles/minutes/%d?%s", c.baseURL, interval.Minutes(), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil // transport failure reads as "no data"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	// Upbit returns a JSON object (not a list) for errors such as an unknown
	// market; a failed decode into a list is treated the same way.
	var raw []apiCandle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, nil
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, ac := range raw {
		t, err := time.Parse("2006-01-02T15:04:05", ac.TimeUTC)
		if err != nil {
			continue
		}
		candles = append(candles, market.Candle{
			Time:   t.UTC(),
			Open:   ac.Open,
			High:   ac.High,
			Low:    ac.Low,
			Close:  ac.Close,
			Volume: ac.AccPrice,
		})
	}

	// The endpoint reports newest-first; everything downstream wants
	// ascending time.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return candles, nil
}
