package market

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"FuturesSentinel/internal/model"
)

// YahooSource quotes an index via the Yahoo Finance public chart API,
// deriving the percent change from the two most recent daily closes.
type YahooSource struct {
	Client *http.Client
	Symbol string // Yahoo ticker, e.g. "^TWII", "^IXIC", "^VIX"
}

// NewYahooSource creates a source with optional proxy support.
func NewYahooSource(symbol, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooSource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Symbol: symbol,
	}
}

func (f *YahooSource) Name() string { return "yahoo:" + f.Symbol }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// FetchQuote returns the latest close and its change versus the prior close.
// Fewer than two usable closes counts as unavailable.
func (f *YahooSource) FetchQuote() (model.PriceQuote, error) {
	closes, err := f.fetchCloses("1d", "5d")
	if err != nil {
		return model.PriceQuote{}, err
	}
	if len(closes) < 2 {
		return model.PriceQuote{}, fmt.Errorf("yahoo %s: only %d closes, need 2", f.Symbol, len(closes))
	}
	cur := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	return model.PriceQuote{
		Price:     cur,
		ChangePct: (cur - prev) / prev * 100,
	}, nil
}

type closeBar struct {
	ts    int64
	close float64
}

func (f *YahooSource) fetchCloses(interval, rng string) ([]float64, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&range=%s",
		url.PathEscape(f.Symbol), interval, rng)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]closeBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c, ok := toFloat(quote.Close[i])
		if !ok || c == 0 {
			continue // null bars on holidays
		}
		bars = append(bars, closeBar{ts: ts, close: c})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].ts < bars[j].ts })

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.close
	}
	return closes, nil
}
