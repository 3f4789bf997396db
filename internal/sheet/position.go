package sheet

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FuturesSentinel/internal/model"
)

// PositionSource reads the account holder's position from a Google Sheet CSV
// export. Row 1 is the header; row 2 carries lots, entry price, margin cash,
// and optionally a note and an updated-at stamp.
type PositionSource struct {
	Client *http.Client
	URL    string
}

// NewPositionSource creates a source with optional proxy support.
func NewPositionSource(csvURL, proxyURL string) *PositionSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &PositionSource{
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		URL: csvURL,
	}
}

// Fetch returns the current position. The caller substitutes its configured
// default position on any error.
func (s *PositionSource) Fetch() (*model.Position, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("no sheet url configured")
	}
	resp, err := s.Client.Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet: status %d", resp.StatusCode)
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet csv: %w", err)
	}
	rows := records[:0]
	for _, rec := range records {
		if len(rec) > 0 && strings.TrimSpace(strings.Join(rec, "")) != "" {
			rows = append(rows, rec)
		}
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no position row")
	}
	return parseRow(rows[1])
}

func parseRow(row []string) (*model.Position, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("position row has %d fields, need 3", len(row))
	}
	lots, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, fmt.Errorf("parse lots: %w", err)
	}
	entry, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse entry price: %w", err)
	}
	cash, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("parse margin cash: %w", err)
	}

	pos := &model.Position{
		Lots:       lots,
		EntryPrice: entry,
		MarginCash: cash,
		UpdatedAt:  "未知",
	}
	if len(row) > 3 {
		pos.Note = strings.TrimSpace(row[3])
	}
	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		pos.UpdatedAt = strings.TrimSpace(row[4])
	}
	return pos, nil
}
