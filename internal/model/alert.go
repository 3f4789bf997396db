package model

// AlertKind identifies a triggered alert condition.
type AlertKind string

const (
	AlertRollover    AlertKind = "ROLLOVER"
	AlertMarginLow   AlertKind = "MARGIN_LOW"
	AlertIndexCrash  AlertKind = "INDEX_CRASH"
	AlertNasdaqCrash AlertKind = "NASDAQ_CRASH"
	AlertVIXHigh     AlertKind = "VIX_HIGH"
)

// Alert is one triggered condition. Only the fields relevant to its kind are
// populated; rendering to message text happens in the notifier, never here.
type Alert struct {
	Kind      AlertKind
	Days      int     // ROLLOVER: trading days until settlement
	Ratio     float64 // MARGIN_LOW: margin ratio percent
	ChangePct float64 // *_CRASH: percent change that tripped the threshold
	Level     float64 // VIX_HIGH: index level
}
