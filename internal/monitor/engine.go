package monitor

import (
	"fmt"
	"log"
	"time"

	"FuturesSentinel/internal/alert"
	"FuturesSentinel/internal/calendar"
	"FuturesSentinel/internal/config"
	"FuturesSentinel/internal/market"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/notifier"
	"FuturesSentinel/internal/recorder"
	"FuturesSentinel/internal/risk"
	"FuturesSentinel/internal/session"
)

// HolidayFetcher loads the exchange holiday calendar for the given years.
type HolidayFetcher interface {
	FetchYears(years ...int) (calendar.HolidaySet, error)
}

// MarginFetcher loads the posted margin schedule.
type MarginFetcher interface {
	Fetch() (model.MarginSchedule, error)
}

// PositionFetcher loads the account holder's position.
type PositionFetcher interface {
	Fetch() (*model.Position, error)
}

// Sink accepts one formatted report payload.
type Sink interface {
	Send(text string) error
}

// Monitor runs one complete evaluation cycle per invocation. All external
// data flows through the fetcher fields so every adapter can be stubbed.
type Monitor struct {
	Cfg *config.Config
	Loc *time.Location

	Holidays HolidayFetcher
	Margin   MarginFetcher
	Position PositionFetcher

	DaySources   []market.QuoteSource
	NightSources []market.QuoteSource
	Nasdaq       market.QuoteSource
	VIX          market.QuoteSource

	Sink     Sink
	Recorder recorder.Recorder
}

// Run evaluates the position at the given instant. It returns nil both for a
// delivered report and for a clean skip (closed market, non-trading day);
// the only error with no recovery is an unresolvable price in the day
// session.
func (m *Monitor) Run(now time.Time) error {
	now = now.In(m.Loc)
	log.Printf("[INFO] evaluation started at %s", now.Format("2006-01-02 15:04:05"))

	holidays := m.loadHolidays(now)
	sess := m.classify(now)
	log.Printf("[INFO] session: %s", sess)

	switch sess {
	case model.SessionClosed:
		log.Println("[INFO] market closed, skipping")
		return nil
	case model.SessionDay:
		if !calendar.IsTradingDay(now, holidays) {
			log.Println("[INFO] not a trading day, skipping")
			return nil
		}
	case model.SessionNight:
		// Before 06:00 the night session belongs to the previous day.
		if !calendar.IsTradingDay(session.TradingDayFor(now), holidays) {
			log.Println("[INFO] no night session today, skipping")
			return nil
		}
	}

	sched := m.loadMargin()
	pos := m.loadPosition()

	current, next, err := calendar.Settlements(now, holidays)
	if err != nil {
		return fmt.Errorf("resolve settlements: %w", err)
	}
	st := model.SettlementInfo{
		Current:         current,
		Next:            next,
		TradingDaysLeft: calendar.TradingDaysUntil(now, current, holidays),
	}

	th := alert.Thresholds{
		RolloverWarnDays: m.Cfg.Thresholds.RolloverWarnDays,
		MarginRatioWarn:  m.Cfg.Thresholds.MarginRatioWarn,
		CrashTWPct:       m.Cfg.Thresholds.CrashTWPct,
		CrashUSPct:       m.Cfg.Thresholds.CrashUSPct,
		VIXWarn:          m.Cfg.Thresholds.VIXWarn,
	}

	var text string
	var alerts []model.Alert

	if sess == model.SessionDay {
		q, ok := market.Resolve(m.DaySources...)
		if !ok {
			return fmt.Errorf("no price source available for day session")
		}
		snap := risk.Calculate(*pos, q.Price, sched, m.Cfg.Contract.Multiplier)
		alerts = alert.Evaluate(alert.Inputs{
			Session:     sess,
			Risk:        snap,
			DaysLeft:    st.TradingDaysLeft,
			IndexChange: &q.ChangePct,
		}, th)
		text = notifier.FormatDayReport(now, pos, snap, q.ChangePct, sched, st, alerts)
	} else {
		var night *model.PriceQuote
		price := pos.EntryPrice
		if q, ok := market.Resolve(m.NightSources...); ok {
			night = &q
			price = q.Price
		} else {
			log.Println("[WARN] night quote unavailable, computing risk at entry price")
		}
		nasdaq := m.optionalQuote(m.Nasdaq)
		vix := m.optionalQuote(m.VIX)

		snap := risk.Calculate(*pos, price, sched, m.Cfg.Contract.Multiplier)
		var idxChg *float64
		if night != nil {
			idxChg = &night.ChangePct
		}
		alerts = alert.Evaluate(alert.Inputs{
			Session:     sess,
			Risk:        snap,
			DaysLeft:    st.TradingDaysLeft,
			IndexChange: idxChg,
			Nasdaq:      nasdaq,
			VIX:         vix,
		}, th)
		text = notifier.FormatNightReport(now, pos, snap, night, nasdaq, vix, st, alerts, th.VIXWarn)
	}

	m.deliver(sess, alerts, text)
	return nil
}

// loadHolidays fetches the current and next year's calendar, falling back to
// the configured literal list.
func (m *Monitor) loadHolidays(now time.Time) calendar.HolidaySet {
	holidays, err := m.Holidays.FetchYears(now.Year(), now.Year()+1)
	if err != nil {
		log.Printf("[WARN] holiday fetch failed, using fallback list: %v", err)
		return calendar.NewHolidaySet(m.Cfg.Fallback.Holidays...)
	}
	return holidays
}

// classify applies the forced-session override, if any, before the clock.
func (m *Monitor) classify(now time.Time) model.Session {
	if s, ok := session.Parse(m.Cfg.ForceSession); ok {
		log.Printf("[WARN] forced session: %s", s)
		return s
	}
	return session.Classify(now)
}

func (m *Monitor) loadMargin() model.MarginSchedule {
	sched, err := m.Margin.Fetch()
	if err != nil {
		log.Printf("[WARN] margin fetch failed, using defaults: %v", err)
		return model.MarginSchedule{
			Initial:     m.Cfg.Contract.InitialMargin,
			Maintenance: m.Cfg.Contract.MaintenanceMargin,
		}
	}
	log.Printf("[INFO] margin schedule: initial %d / maintenance %d", sched.Initial, sched.Maintenance)
	return sched
}

func (m *Monitor) loadPosition() *model.Position {
	pos, err := m.Position.Fetch()
	if err != nil {
		log.Printf("[WARN] position fetch failed, using default test position: %v", err)
		return &model.Position{
			Lots:       m.Cfg.Fallback.Position.Lots,
			EntryPrice: m.Cfg.Fallback.Position.EntryPrice,
			MarginCash: m.Cfg.Fallback.Position.MarginCash,
			Note:       "預設測試部位，請更新 Google Sheet",
			UpdatedAt:  "未設定",
		}
	}
	log.Printf("[INFO] position: %d lots @ %.0f", pos.Lots, pos.EntryPrice)
	return pos
}

// optionalQuote resolves an auxiliary source; absence is not an error.
func (m *Monitor) optionalQuote(src market.QuoteSource) *model.PriceQuote {
	if src == nil {
		return nil
	}
	q, ok := market.Resolve(src)
	if !ok {
		return nil
	}
	return &q
}

// deliver pushes the report and journals the outcome. A failed push is
// terminal for this cycle, never retried.
func (m *Monitor) deliver(sess model.Session, alerts []model.Alert, text string) {
	evt := &recorder.ReportEvent{Session: sess}
	for _, a := range alerts {
		evt.AlertKinds = append(evt.AlertKinds, a.Kind)
	}

	if err := m.Sink.Send(text); err != nil {
		log.Printf("[ERROR] send report: %v", err)
		evt.Error = err.Error()
	} else {
		log.Printf("[INFO] report delivered (%d alerts)", len(alerts))
		evt.Delivered = true
	}

	if err := m.Recorder.RecordReport(evt); err != nil {
		log.Printf("[ERROR] record report: %v", err)
	}
}
