package alert

import (
	"FuturesSentinel/internal/model"
)

// Thresholds are the alert trigger levels, supplied from configuration.
type Thresholds struct {
	RolloverWarnDays int     // fire when this many trading days or fewer remain
	MarginRatioWarn  float64 // fire below this margin ratio percent
	CrashTWPct       float64 // negative; session instrument drop
	CrashUSPct       float64 // negative; Nasdaq drop (night only)
	VIXWarn          float64 // VIX panic level (night only)
}

// Inputs is everything the evaluator looks at. Pointer fields are optional;
// an absent value suppresses its check rather than firing or erroring.
type Inputs struct {
	Session     model.Session
	Risk        model.RiskSnapshot
	DaysLeft    int
	IndexChange *float64          // session instrument percent change
	Nasdaq      *model.PriceQuote // night only
	VIX         *model.PriceQuote // night only
}

// Evaluate runs the alert checks in fixed order and returns the triggered
// alerts in that order. Each check is independent.
func Evaluate(in Inputs, th Thresholds) []model.Alert {
	var alerts []model.Alert

	if in.DaysLeft <= th.RolloverWarnDays {
		alerts = append(alerts, model.Alert{Kind: model.AlertRollover, Days: in.DaysLeft})
	}
	if in.Risk.MarginRatio < th.MarginRatioWarn {
		alerts = append(alerts, model.Alert{Kind: model.AlertMarginLow, Ratio: in.Risk.MarginRatio})
	}
	if in.IndexChange != nil && *in.IndexChange <= th.CrashTWPct {
		alerts = append(alerts, model.Alert{Kind: model.AlertIndexCrash, ChangePct: *in.IndexChange})
	}
	if in.Session == model.SessionNight {
		if in.Nasdaq != nil && in.Nasdaq.ChangePct <= th.CrashUSPct {
			alerts = append(alerts, model.Alert{Kind: model.AlertNasdaqCrash, ChangePct: in.Nasdaq.ChangePct})
		}
		if in.VIX != nil && in.VIX.Price >= th.VIXWarn {
			alerts = append(alerts, model.Alert{Kind: model.AlertVIXHigh, Level: in.VIX.Price})
		}
	}
	return alerts
}
