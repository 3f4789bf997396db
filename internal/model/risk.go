package model

import "time"

// RiskSnapshot is the computed margin risk state for one evaluation.
// Values are display-rounded: points and TWD to whole units, the ratio and
// buffer to one decimal place. MarginCallPrice is derived from the unrounded
// buffer, so it does not compound rounding error.
type RiskSnapshot struct {
	CurrentPrice    float64
	PnLPoints       float64
	PnLTWD          float64
	Equity          float64
	MarginRatio     float64 // equity / (initial margin × lots) × 100
	BufferPoints    float64 // points of adverse movement until maintenance breach
	MarginCallPrice float64
}

// SettlementInfo describes the contract rollover calendar for this run.
type SettlementInfo struct {
	Current         time.Time
	Next            time.Time
	TradingDaysLeft int
}
