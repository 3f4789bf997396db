package risk

import (
	"math"

	"FuturesSentinel/internal/model"
)

// Calculate computes the margin risk state for a long position at the given
// price. multiplier converts index points to TWD (10 for MXF). Pure: no I/O,
// identical inputs always give identical outputs.
func Calculate(pos model.Position, price float64, sched model.MarginSchedule, multiplier float64) model.RiskSnapshot {
	lots := float64(pos.Lots)
	pnlPoints := (price - pos.EntryPrice) * lots
	pnlTWD := pnlPoints * multiplier
	equity := pos.MarginCash + pnlTWD

	var ratio, bufPts float64
	if pos.Lots > 0 {
		ratio = equity / (float64(sched.Initial) * lots) * 100
		bufPts = (equity - float64(sched.Maintenance)*lots) / (multiplier * lots)
	}
	// Call price must come from the unrounded buffer.
	callPrice := pos.EntryPrice - bufPts

	return model.RiskSnapshot{
		CurrentPrice:    price,
		PnLPoints:       math.Round(pnlPoints),
		PnLTWD:          math.Round(pnlTWD),
		Equity:          math.Round(equity),
		MarginRatio:     round1(ratio),
		BufferPoints:    round1(bufPts),
		MarginCallPrice: math.Round(callPrice),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Band grades a margin ratio. Boundary values belong to the safer band.
type Band int

const (
	BandCritical Band = iota // < 80%: top up or cut immediately
	BandHigh                 // 80-100%: approaching the call line
	BandWatch                // 100-120%: keep top-up cash ready
	BandSafe                 // >= 120%
)

// ClassifyRatio maps a margin ratio percentage to its danger band.
func ClassifyRatio(ratio float64) Band {
	switch {
	case ratio < 80:
		return BandCritical
	case ratio < 100:
		return BandHigh
	case ratio < 120:
		return BandWatch
	}
	return BandSafe
}
