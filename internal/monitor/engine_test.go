package monitor

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/calendar"
	"FuturesSentinel/internal/config"
	"FuturesSentinel/internal/market"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/recorder"
)

type stubHolidays struct {
	set calendar.HolidaySet
	err error
}

func (s stubHolidays) FetchYears(_ ...int) (calendar.HolidaySet, error) { return s.set, s.err }

type stubMargin struct {
	sched model.MarginSchedule
	err   error
}

func (s stubMargin) Fetch() (model.MarginSchedule, error) { return s.sched, s.err }

type stubPosition struct {
	pos *model.Position
	err error
}

func (s stubPosition) Fetch() (*model.Position, error) { return s.pos, s.err }

type stubSink struct {
	sent []string
	err  error
}

func (s *stubSink) Send(text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

type stubRecorder struct {
	events []*recorder.ReportEvent
}

func (s *stubRecorder) RecordReport(evt *recorder.ReportEvent) error {
	s.events = append(s.events, evt)
	return nil
}
func (s *stubRecorder) Close() error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("FORCE_SESSION", "")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func newTestMonitor(t *testing.T) (*Monitor, *stubSink, *stubRecorder) {
	t.Helper()
	sink := &stubSink{}
	rec := &stubRecorder{}
	m := &Monitor{
		Cfg:      testConfig(t),
		Loc:      time.UTC,
		Holidays: stubHolidays{set: calendar.NewHolidaySet()},
		Margin:   stubMargin{sched: model.MarginSchedule{Initial: 17000, Maintenance: 13000}},
		Position: stubPosition{pos: &model.Position{Lots: 1, EntryPrice: 22000, MarginCash: 25000}},
		DaySources: []market.QuoteSource{
			&market.MockSource{Tag: "day", Quote: model.PriceQuote{Price: 21800, ChangePct: -0.91}},
		},
		NightSources: []market.QuoteSource{
			&market.MockSource{Tag: "night", Quote: model.PriceQuote{Price: 21750, ChangePct: -1.2}},
		},
		Sink:     sink,
		Recorder: rec,
	}
	return m, sink, rec
}

// 2025-06-16 is a Monday; the June settlement is Wednesday the 18th.
func monday(hour, min int) time.Time {
	return time.Date(2025, 6, 16, hour, min, 0, 0, time.UTC)
}

func TestRun_ClosedSessionSkips(t *testing.T) {
	m, sink, rec := newTestMonitor(t)

	require.NoError(t, m.Run(monday(7, 0)))
	assert.Empty(t, sink.sent)
	assert.Empty(t, rec.events)
}

func TestRun_DayNonTradingDaySkips(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.Holidays = stubHolidays{set: calendar.NewHolidaySet("2025-06-16")}

	require.NoError(t, m.Run(monday(10, 0)))
	assert.Empty(t, sink.sent)
}

func TestRun_DayReportDelivered(t *testing.T) {
	m, sink, rec := newTestMonitor(t)

	require.NoError(t, m.Run(monday(10, 0)))

	require.Len(t, sink.sent, 1)
	msg := sink.sent[0]
	assert.Contains(t, msg, "日盤報告")
	assert.Contains(t, msg, "📊 台指: 21800")
	// Settlement is in 2 trading days: the rollover warning must fire.
	assert.Contains(t, msg, "距結算僅剩 2 個交易日")

	require.Len(t, rec.events, 1)
	assert.Equal(t, model.SessionDay, rec.events[0].Session)
	assert.True(t, rec.events[0].Delivered)
	assert.Equal(t, []model.AlertKind{model.AlertRollover}, rec.events[0].AlertKinds)
}

func TestRun_DayNoPriceIsFatal(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.DaySources = []market.QuoteSource{
		&market.MockSource{Tag: "a", Err: errors.New("timeout")},
		&market.MockSource{Tag: "b", Err: errors.New("no data")},
	}

	err := m.Run(monday(10, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price source")
	assert.Empty(t, sink.sent)
}

func TestRun_NightFallsBackToEntryPrice(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.NightSources = []market.QuoteSource{
		&market.MockSource{Tag: "night", Err: errors.New("closed upstream")},
	}

	require.NoError(t, m.Run(monday(22, 0)))

	require.Len(t, sink.sent, 1)
	msg := sink.sent[0]
	assert.Contains(t, msg, "夜盤報告")
	assert.Contains(t, msg, "資料不足")
	// Risk computed at the entry price: flat P&L.
	assert.Contains(t, msg, "未實現: +0 元 / +0 點")
}

func TestRun_NightAuxiliaryAlerts(t *testing.T) {
	m, sink, rec := newTestMonitor(t)
	m.Nasdaq = &market.MockSource{Tag: "nasdaq", Quote: model.PriceQuote{Price: 19200, ChangePct: -2.2}}
	m.VIX = &market.MockSource{Tag: "vix", Quote: model.PriceQuote{Price: 31.5, ChangePct: 12.0}}

	require.NoError(t, m.Run(monday(22, 0)))

	require.Len(t, sink.sent, 1)
	msg := sink.sent[0]
	assert.Contains(t, msg, "那斯達克急跌 -2.20%")
	assert.Contains(t, msg, "VIX 達 31.5")

	require.Len(t, rec.events, 1)
	assert.Contains(t, rec.events[0].AlertKinds, model.AlertNasdaqCrash)
	assert.Contains(t, rec.events[0].AlertKinds, model.AlertVIXHigh)
}

func TestRun_NightBeforeDawnChecksPreviousDay(t *testing.T) {
	m, sink, _ := newTestMonitor(t)

	// Saturday 04:00 continues Friday's night session: report goes out.
	require.NoError(t, m.Run(time.Date(2025, 6, 14, 4, 0, 0, 0, time.UTC)))
	assert.Len(t, sink.sent, 1)

	// Sunday 04:00 would continue Saturday: skipped.
	sink.sent = nil
	require.NoError(t, m.Run(time.Date(2025, 6, 15, 4, 0, 0, 0, time.UTC)))
	assert.Empty(t, sink.sent)
}

func TestRun_ForcedSessionOverridesClock(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.Cfg.ForceSession = "DAY"

	// 07:00 is closed by the clock, but the override wins.
	require.NoError(t, m.Run(monday(7, 0)))
	require.Len(t, sink.sent, 1)
	assert.Contains(t, sink.sent[0], "日盤報告")
}

func TestRun_HolidayFetchFailureUsesFallback(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.Holidays = stubHolidays{err: errors.New("api down")}
	m.Cfg.Fallback.Holidays = []string{"2025-06-16"}

	// Fallback list marks today a holiday, so the day run skips.
	require.NoError(t, m.Run(monday(10, 0)))
	assert.Empty(t, sink.sent)
}

func TestRun_MarginAndPositionFallbacks(t *testing.T) {
	m, sink, _ := newTestMonitor(t)
	m.Margin = stubMargin{err: errors.New("bulletin down")}
	m.Position = stubPosition{err: errors.New("sheet down")}

	require.NoError(t, m.Run(monday(10, 0)))

	require.Len(t, sink.sent, 1)
	msg := sink.sent[0]
	// Config defaults for both the schedule and the test position.
	assert.Contains(t, msg, "原始/維持: 17000 / 13000")
	assert.Contains(t, msg, "預設測試部位")
	assert.Contains(t, msg, "🔄 更新: 未設定")
}

func TestRun_SendFailureIsNotFatalAndIsJournaled(t *testing.T) {
	m, sink, rec := newTestMonitor(t)
	sink.err = errors.New("LINE API error: status 500")

	require.NoError(t, m.Run(monday(10, 0)))

	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].Delivered)
	assert.Contains(t, rec.events[0].Error, "status 500")
}
