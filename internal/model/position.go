package model

// Position is one long MXF position, loaded fresh each run and never mutated.
type Position struct {
	Lots       int
	EntryPrice float64
	MarginCash float64
	Note       string
	UpdatedAt  string
}

// MarginSchedule holds the per-lot margin requirements from the exchange
// bulletin, in TWD.
type MarginSchedule struct {
	Initial     int
	Maintenance int
}

// PriceQuote is a resolved price and its percent change versus the previous
// close (or session open, depending on the source).
type PriceQuote struct {
	Price     float64
	ChangePct float64
}
