package session

import (
	"strings"
	"time"

	"FuturesSentinel/internal/model"
)

// TAIFEX windows, in minutes since local midnight. The day report window is
// buffered past the 13:45 close so a 13:50 trigger still catches the close,
// and the night window starts at 15:10 once the opening auction settles.
const (
	dayOpen    = 8*60 + 45
	dayClose   = 13*60 + 55
	nightOpen  = 15*60 + 10
	nightClose = 5 * 60 // next morning
	dayShift   = 6 * 60 // before this, night belongs to the previous day
)

// Classify maps a local wall-clock time to the session it falls in.
func Classify(t time.Time) model.Session {
	total := t.Hour()*60 + t.Minute()
	switch {
	case total >= dayOpen && total <= dayClose:
		return model.SessionDay
	case total >= nightOpen || total <= nightClose:
		return model.SessionNight
	}
	return model.SessionClosed
}

// TradingDayFor returns the calendar day whose trading-day status governs a
// night evaluation at t. Between midnight and 06:00 the night session is the
// continuation of the previous day, so that day is checked instead.
func TradingDayFor(t time.Time) time.Time {
	if t.Hour()*60+t.Minute() < dayShift {
		return t.AddDate(0, 0, -1)
	}
	return t
}

// Parse interprets a forced-session override ("DAY" or "NIGHT", case
// insensitive). Anything else, including empty, means no override.
func Parse(s string) (model.Session, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAY":
		return model.SessionDay, true
	case "NIGHT":
		return model.SessionNight, true
	}
	return "", false
}
