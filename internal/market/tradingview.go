package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"FuturesSentinel/internal/model"
)

// TradingViewSource quotes the near-month TAIEX futures contract
// (TAIFEX:TXF1!) via the TradingView scanner API. Change is computed against
// the session open, which is what the scanner exposes intraday.
type TradingViewSource struct {
	Client   *http.Client
	Exchange string // e.g. "TAIFEX"
	Symbol   string // e.g. "TXF1!"
	Screener string // e.g. "taiwan"
}

// NewTradingViewSource creates a source with optional proxy support.
func NewTradingViewSource(exchange, symbol, screener, proxyURL string) *TradingViewSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TradingViewSource{
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		Exchange: exchange,
		Symbol:   symbol,
		Screener: screener,
	}
}

func (f *TradingViewSource) Name() string {
	return fmt.Sprintf("tradingview:%s:%s", f.Exchange, f.Symbol)
}

type tvScanRequest struct {
	Symbols struct {
		Tickers []string `json:"tickers"`
		Query   struct {
			Types []string `json:"types"`
		} `json:"query"`
	} `json:"symbols"`
	Columns []string `json:"columns"`
}

type tvScanResponse struct {
	Data []struct {
		Symbol string    `json:"s"`
		Values []float64 `json:"d"`
	} `json:"data"`
}

// FetchQuote returns the latest 1-minute close and its change versus the
// session open.
func (f *TradingViewSource) FetchQuote() (model.PriceQuote, error) {
	var reqBody tvScanRequest
	reqBody.Symbols.Tickers = []string{f.Exchange + ":" + f.Symbol}
	reqBody.Symbols.Query.Types = []string{}
	reqBody.Columns = []string{"close", "open"}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("marshal scan request: %w", err)
	}

	endpoint := fmt.Sprintf("https://scanner.tradingview.com/%s/scan", f.Screener)
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.PriceQuote{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("tradingview fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceQuote{}, fmt.Errorf("tradingview: status %d, body: %s", resp.StatusCode, string(body))
	}

	var scan tvScanResponse
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return model.PriceQuote{}, fmt.Errorf("tradingview decode: %w", err)
	}
	if len(scan.Data) == 0 || len(scan.Data[0].Values) < 2 {
		return model.PriceQuote{}, fmt.Errorf("tradingview: no data for %s", f.Symbol)
	}

	cur := scan.Data[0].Values[0]
	open := scan.Data[0].Values[1]
	if open == 0 {
		return model.PriceQuote{}, fmt.Errorf("tradingview: zero open for %s", f.Symbol)
	}
	return model.PriceQuote{
		Price:     cur,
		ChangePct: (cur - open) / open * 100,
	}, nil
}
