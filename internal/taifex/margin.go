package taifex

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"FuturesSentinel/internal/model"
)

// DefaultBulletinURL is the TAIFEX margining bulletin page listing per-lot
// margin requirements for every contract.
const DefaultBulletinURL = "https://www.taifex.com.tw/cht/5/margin_1"

// mxfKeywords identify the micro TAIEX futures row in the bulletin table.
var mxfKeywords = []string{"微型臺股", "微型台股", "MXF"}

// MarginSource scrapes the MXF initial and maintenance margin from the
// TAIFEX bulletin.
type MarginSource struct {
	Client *http.Client
	URL    string
}

// NewMarginSource creates a source with optional proxy support.
func NewMarginSource(proxyURL string) *MarginSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &MarginSource{
		Client: &http.Client{
			Timeout:   20 * time.Second,
			Transport: transport,
		},
		URL: DefaultBulletinURL,
	}
}

// Fetch returns the posted margin schedule. The caller falls back to its
// configured defaults on error.
func (s *MarginSource) Fetch() (model.MarginSchedule, error) {
	req, err := http.NewRequest("GET", s.URL, nil)
	if err != nil {
		return model.MarginSchedule{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0")
	req.Header.Set("Referer", "https://www.taifex.com.tw/")

	resp, err := s.Client.Do(req)
	if err != nil {
		return model.MarginSchedule{}, fmt.Errorf("fetch bulletin: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.MarginSchedule{}, fmt.Errorf("bulletin: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return model.MarginSchedule{}, fmt.Errorf("parse bulletin: %w", err)
	}
	return extractSchedule(doc)
}

// extractSchedule walks the document for a table row mentioning the micro
// contract and takes the first two plausible per-lot amounts in it: the
// bulletin lists initial margin before maintenance margin.
func extractSchedule(doc *html.Node) (model.MarginSchedule, error) {
	var sched model.MarginSchedule
	found := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "tr" {
			if amounts := rowAmounts(n); len(amounts) >= 2 {
				sched = model.MarginSchedule{Initial: amounts[0], Maintenance: amounts[1]}
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !found {
		return model.MarginSchedule{}, fmt.Errorf("micro contract row not found in bulletin")
	}
	return sched, nil
}

// rowAmounts returns the margin amounts in a row, or nil when the row is not
// the micro contract's.
func rowAmounts(tr *html.Node) []int {
	if !containsKeyword(nodeText(tr)) {
		return nil
	}
	var amounts []int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			txt := strings.ReplaceAll(strings.TrimSpace(nodeText(n)), ",", "")
			if v, err := strconv.Atoi(txt); err == nil && v > 5000 && v < 500000 {
				amounts = append(amounts, v)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(tr)
	return amounts
}

func containsKeyword(text string) bool {
	for _, kw := range mxfKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
