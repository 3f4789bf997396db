package twse

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FuturesSentinel/internal/calendar"
)

// DefaultScheduleURL is the TWSE market holiday schedule endpoint. The query
// year is in the ROC calendar (civil year minus 1911).
const DefaultScheduleURL = "https://www.twse.com.tw/rwd/zh/holiday/holidaySchedule"

// HolidaySource fetches the exchange holiday calendar from TWSE.
type HolidaySource struct {
	Client *http.Client
	URL    string
}

// NewHolidaySource creates a source with optional proxy support.
func NewHolidaySource(proxyURL string) *HolidaySource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HolidaySource{
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		URL: DefaultScheduleURL,
	}
}

type scheduleResponse struct {
	Stat string     `json:"stat"`
	Data [][]string `json:"data"`
}

// FetchYears loads holidays for the given civil years into one set. A year
// that fails is logged and skipped; the error is returned only when no year
// yielded any dates, so the caller can fall back to its configured list.
func (s *HolidaySource) FetchYears(years ...int) (calendar.HolidaySet, error) {
	holidays := calendar.NewHolidaySet()
	for _, year := range years {
		if err := s.fetchYear(year, holidays); err != nil {
			log.Printf("[WARN] TWSE holidays for %d: %v", year, err)
			continue
		}
		log.Printf("[INFO] TWSE holidays %d: %d days", year, holidays.CountYear(year))
	}
	if len(holidays) == 0 {
		return nil, fmt.Errorf("no holiday data for any of %v", years)
	}
	return holidays, nil
}

func (s *HolidaySource) fetchYear(year int, holidays calendar.HolidaySet) error {
	rocYear := year - 1911
	u := fmt.Sprintf("%s?response=json&queryYear=%d", s.URL, rocYear)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("schedule: status %d", resp.StatusCode)
	}

	var sched scheduleResponse
	if err := json.Unmarshal(body, &sched); err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}
	if sched.Stat != "OK" {
		return fmt.Errorf("schedule stat %q", sched.Stat)
	}

	for _, row := range sched.Data {
		if len(row) == 0 {
			continue
		}
		if iso, ok := rocToISO(row[0]); ok {
			holidays.Add(iso)
		}
	}
	return nil
}

// rocToISO converts a "114/01/01" ROC-calendar date to "2025-01-01".
// Malformed rows are skipped rather than failing the whole year.
func rocToISO(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return "", false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y+1911, m, d), true
}
