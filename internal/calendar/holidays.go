package calendar

import "time"

const dateLayout = "2006-01-02"

// HolidaySet is a lookup table of exchange holidays keyed by ISO date.
// It is rebuilt from the holiday source each run and read-only afterwards.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from ISO date strings. Malformed entries are
// kept as-is; they can never match a real date so they are harmless.
func NewHolidaySet(dates ...string) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

// Add inserts one ISO date.
func (h HolidaySet) Add(date string) {
	h[date] = struct{}{}
}

// Contains reports whether the calendar day of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(dateLayout)]
	return ok
}

// CountYear returns how many holidays fall in the given civil year.
func (h HolidaySet) CountYear(year int) int {
	n := 0
	prefix := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	for d := range h {
		if len(d) >= 4 && d[:4] == prefix {
			n++
		}
	}
	return n
}

// IsTradingDay reports whether the calendar day of t is a TAIFEX trading day:
// a weekday that is not in the holiday set.
func IsTradingDay(t time.Time, holidays HolidaySet) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !holidays.Contains(t)
}
