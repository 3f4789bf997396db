package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FuturesSentinel/internal/model"
)

var (
	testPosition = model.Position{Lots: 1, EntryPrice: 22000, MarginCash: 25000}
	testSchedule = model.MarginSchedule{Initial: 17000, Maintenance: 13000}
)

func TestCalculate_ModestDrawdown(t *testing.T) {
	t.Parallel()

	snap := Calculate(testPosition, 21800, testSchedule, 10)

	assert.InDelta(t, -200, snap.PnLPoints, 1e-9)
	assert.InDelta(t, -2000, snap.PnLTWD, 1e-9)
	assert.InDelta(t, 23000, snap.Equity, 1e-9)
	assert.InDelta(t, 135.3, snap.MarginRatio, 1e-9)
	assert.InDelta(t, 1000.0, snap.BufferPoints, 1e-9)
	assert.InDelta(t, 21000, snap.MarginCallPrice, 1e-9)
	assert.Equal(t, BandSafe, ClassifyRatio(snap.MarginRatio))
}

func TestCalculate_DeepDrawdown(t *testing.T) {
	t.Parallel()

	snap := Calculate(testPosition, 20500, testSchedule, 10)

	assert.InDelta(t, -15000, snap.PnLTWD, 1e-9)
	assert.InDelta(t, 10000, snap.Equity, 1e-9)
	assert.InDelta(t, 58.8, snap.MarginRatio, 1e-9)
	assert.Equal(t, BandCritical, ClassifyRatio(snap.MarginRatio))
}

func TestCalculate_MultiLot(t *testing.T) {
	t.Parallel()

	pos := model.Position{Lots: 3, EntryPrice: 22000, MarginCash: 80000}
	snap := Calculate(pos, 21900, testSchedule, 10)

	assert.InDelta(t, -300, snap.PnLPoints, 1e-9)
	assert.InDelta(t, -3000, snap.PnLTWD, 1e-9)
	assert.InDelta(t, 77000, snap.Equity, 1e-9)
	// 77000 / 51000 * 100
	assert.InDelta(t, 151.0, snap.MarginRatio, 1e-9)
	// (77000 - 39000) / 30
	assert.InDelta(t, 1266.7, snap.BufferPoints, 1e-9)
	// Derived from the unrounded buffer, not the displayed 1266.7.
	assert.InDelta(t, 20733, snap.MarginCallPrice, 1e-9)
}

func TestCalculate_ZeroLots(t *testing.T) {
	t.Parallel()

	pos := model.Position{Lots: 0, EntryPrice: 22000, MarginCash: 25000}
	snap := Calculate(pos, 21000, testSchedule, 10)

	assert.Zero(t, snap.MarginRatio)
	assert.Zero(t, snap.BufferPoints)
	assert.InDelta(t, 22000, snap.MarginCallPrice, 1e-9)
}

func TestCalculate_Deterministic(t *testing.T) {
	t.Parallel()

	a := Calculate(testPosition, 21537.5, testSchedule, 10)
	b := Calculate(testPosition, 21537.5, testSchedule, 10)
	assert.Equal(t, a, b)
}

func TestClassifyRatio_Bands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  Band
	}{
		{79.9, BandCritical},
		{80.0, BandHigh},
		{99.9, BandHigh},
		{100.0, BandWatch},
		{119.9, BandWatch},
		{120.0, BandSafe},
		{135.3, BandSafe},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRatio(tt.ratio), "ratio %.1f", tt.ratio)
	}
}
