package market

import (
	"log"

	"FuturesSentinel/internal/model"
)

// QuoteSource provides one instrument's current price and percent change.
// A source reports failure through its error return; it never panics and the
// resolver treats any error as "this source is unavailable".
type QuoteSource interface {
	FetchQuote() (model.PriceQuote, error)
	Name() string
}

// Resolve tries each source in declared priority order and returns the first
// success. ok=false means every source was unavailable; the caller decides
// whether that is fatal (day session) or degrades to a fallback (night).
func Resolve(sources ...QuoteSource) (model.PriceQuote, bool) {
	for _, s := range sources {
		q, err := s.FetchQuote()
		if err != nil {
			log.Printf("[WARN] quote source %s unavailable: %v", s.Name(), err)
			continue
		}
		log.Printf("[INFO] quote via %s: %.0f (%+.2f%%)", s.Name(), q.Price, q.ChangePct)
		return q, true
	}
	return model.PriceQuote{}, false
}
