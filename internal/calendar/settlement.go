package calendar

import (
	"errors"
	"time"
)

// MXF contracts settle on the third Wednesday of the delivery month, pushed
// forward day by day while it lands on a weekend or holiday.

// SettlementDate returns the settlement date for a delivery month, or
// ok=false when the month has fewer than three Wednesdays (impossible on a
// real calendar, but handled instead of trusting the loop).
func SettlementDate(year int, month time.Month, holidays HolidaySet) (time.Time, bool) {
	count := 0
	for day := 1; day <= 31; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if d.Month() != month {
			break
		}
		if d.Weekday() != time.Wednesday {
			continue
		}
		count++
		if count < 3 {
			continue
		}
		for holidays.Contains(d) || d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		return d, true
	}
	return time.Time{}, false
}

// Settlements returns the settlement governing "now" and the one for the
// month after it. When now is already past this month's settlement, the
// current contract is next month's, with December rolling into January.
func Settlements(now time.Time, holidays HolidaySet) (current, next time.Time, err error) {
	y, m := now.Year(), now.Month()
	current, ok := SettlementDate(y, m, holidays)
	if !ok {
		return time.Time{}, time.Time{}, errors.New("no third wednesday in current month")
	}
	if dateOf(now).After(current) {
		y, m = nextMonth(y, m)
		current, ok = SettlementDate(y, m, holidays)
		if !ok {
			return time.Time{}, time.Time{}, errors.New("no third wednesday in rollover month")
		}
	}
	ny, nm := nextMonth(current.Year(), current.Month())
	next, ok = SettlementDate(ny, nm, holidays)
	if !ok {
		return time.Time{}, time.Time{}, errors.New("no third wednesday in next month")
	}
	return current, next, nil
}

// TradingDaysUntil counts trading days from now (exclusive) to target
// (inclusive). Zero means the target is today or already past.
func TradingDaysUntil(now, target time.Time, holidays HolidaySet) int {
	d := dateOf(now)
	end := dateOf(target)
	count := 0
	for d.Before(end) {
		d = d.AddDate(0, 0, 1)
		if IsTradingDay(d, holidays) {
			count++
		}
	}
	return count
}

// dateOf strips the clock so settlement comparisons are date-only.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nextMonth(y int, m time.Month) (int, time.Month) {
	if m == time.December {
		return y + 1, time.January
	}
	return y, m + 1
}
