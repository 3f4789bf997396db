package notifier

import (
	"fmt"
	"strings"
	"time"

	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/risk"
)

// The notifier owns every piece of message text: the monitor hands over
// finished RiskSnapshot/SettlementInfo/Alert values and never formats.

// DangerLabel renders a margin danger band for the report.
func DangerLabel(band risk.Band) string {
	switch band {
	case risk.BandCritical:
		return "🔴 極度危險｜立即補保或減碼！"
	case risk.BandHigh:
		return "🟠 危險｜接近追繳線！"
	case risk.BandWatch:
		return "🟡 警戒｜建議備妥補保資金"
	}
	return "🟢 安全"
}

// FormatAlert renders one triggered alert. Night-session index crashes get
// their own wording since the instrument differs.
func FormatAlert(sess model.Session, a model.Alert) string {
	switch a.Kind {
	case model.AlertRollover:
		return fmt.Sprintf("📅 距結算僅剩 %d 個交易日，請準備轉倉！", a.Days)
	case model.AlertMarginLow:
		return fmt.Sprintf("💀 保證金比率偏低 (%.1f%%)", a.Ratio)
	case model.AlertIndexCrash:
		if sess == model.SessionNight {
			return fmt.Sprintf("📉 台指期夜盤急跌 %.2f%%！", a.ChangePct)
		}
		return fmt.Sprintf("📉 台指急跌 %.2f%%！", a.ChangePct)
	case model.AlertNasdaqCrash:
		return fmt.Sprintf("🇺🇸 那斯達克急跌 %.2f%%！", a.ChangePct)
	case model.AlertVIXHigh:
		return fmt.Sprintf("😱 VIX 達 %.1f，市場恐慌！", a.Level)
	}
	return string(a.Kind)
}

func appendAlerts(lines []string, sess model.Session, alerts []model.Alert) []string {
	if len(alerts) == 0 {
		return lines
	}
	lines = append(lines, "🔔 警示通知")
	for _, a := range alerts {
		lines = append(lines, "  "+FormatAlert(sess, a))
	}
	return append(lines, "")
}

func pnlIcon(pnlTWD float64) string {
	if pnlTWD >= 0 {
		return "📈"
	}
	return "📉"
}

func signOf(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}

func chgIcon(chg float64) string {
	if chg >= 0 {
		return "🔺"
	}
	return "🔻"
}

// FormatDayReport builds the day-session report.
func FormatDayReport(now time.Time, pos *model.Position, snap model.RiskSnapshot, twChg float64,
	sched model.MarginSchedule, st model.SettlementInfo, alerts []model.Alert) string {

	sign := signOf(snap.PnLTWD)
	lines := appendAlerts(nil, model.SessionDay, alerts)

	lines = append(lines,
		"【微台指監控】日盤報告",
		"🕐 "+now.Format("2006-01-02 15:04"),
		"",
		"━━━ 🎯 部位狀況 ━━━",
		fmt.Sprintf("📦 口數: %d 口（做多）", pos.Lots),
		fmt.Sprintf("🏷️ 進場均價: %.0f 點", pos.EntryPrice),
		fmt.Sprintf("📊 台指: %.0f (%s%.2f%%)", snap.CurrentPrice, chgIcon(twChg), twChg),
		fmt.Sprintf("%s 未實現: %s%.0f 元 / %s%.0f 點", pnlIcon(snap.PnLTWD), sign, snap.PnLTWD, sign, snap.PnLPoints),
		"",
		"━━━ 💀 保證金風險 ━━━",
		fmt.Sprintf("💰 帳戶權益: %.0f 元", snap.Equity),
		fmt.Sprintf("📋 原始/維持: %d / %d 元（期交所公告）", sched.Initial, sched.Maintenance),
		fmt.Sprintf("📉 保證金比率: %.1f%%", snap.MarginRatio),
		"🚨 "+DangerLabel(risk.ClassifyRatio(snap.MarginRatio)),
		fmt.Sprintf("🛡️ 距追繳: %.1f 點", snap.BufferPoints),
		fmt.Sprintf("⚠️ 追繳點位: %.0f 點", snap.MarginCallPrice),
		"",
		"━━━ 📅 轉倉行事曆 ━━━",
		fmt.Sprintf("📌 結算日: %s（剩 %d 個交易日）", st.Current.Format("2006/01/02"), st.TradingDaysLeft),
		"➡️ 下月結算: "+st.Next.Format("2006/01/02"),
	)

	return finish(lines, pos)
}

// FormatNightReport builds the night-session report, including the US market
// block when quotes are available.
func FormatNightReport(now time.Time, pos *model.Position, snap model.RiskSnapshot,
	night, nasdaq, vix *model.PriceQuote, st model.SettlementInfo,
	alerts []model.Alert, vixWarn float64) string {

	sign := signOf(snap.PnLTWD)
	lines := appendAlerts(nil, model.SessionNight, alerts)

	lines = append(lines,
		"【微台指監控】夜盤報告",
		"🕐 "+now.Format("2006-01-02 15:04"),
		"",
		"━━━ 🌙 夜盤行情 ━━━",
	)

	if night != nil {
		lines = append(lines, fmt.Sprintf("🇹🇼 台指期夜盤: %.0f (%s%.2f%%)",
			night.Price, chgIcon(night.ChangePct), night.ChangePct))
	} else {
		lines = append(lines, "🇹🇼 台指期夜盤: 資料不足")
	}
	if nasdaq != nil {
		lines = append(lines, fmt.Sprintf("🇺🇸 那斯達克: %.0f (%s%.2f%%)",
			nasdaq.Price, chgIcon(nasdaq.ChangePct), nasdaq.ChangePct))
	}
	if vix != nil {
		lines = append(lines, fmt.Sprintf("😱 VIX: %.1f %s (%s%.2f%%)",
			vix.Price, vixIcon(vix.Price, vixWarn), signOf(vix.ChangePct), vix.ChangePct))
	}

	lines = append(lines,
		"",
		"━━━ 🎯 部位狀況 ━━━",
		fmt.Sprintf("📦 %d 口 @ %.0f 點（做多）", pos.Lots, pos.EntryPrice),
		fmt.Sprintf("%s 未實現: %s%.0f 元 / %s%.0f 點", pnlIcon(snap.PnLTWD), sign, snap.PnLTWD, sign, snap.PnLPoints),
		fmt.Sprintf("💰 帳戶權益: %.0f 元", snap.Equity),
		fmt.Sprintf("📉 保證金比率: %.1f%% — %s", snap.MarginRatio, DangerLabel(risk.ClassifyRatio(snap.MarginRatio))),
		fmt.Sprintf("⚠️ 追繳點位: %.0f 點", snap.MarginCallPrice),
		"",
		"━━━ 📅 轉倉 ━━━",
		fmt.Sprintf("📌 結算日: %s（剩 %d 個交易日）", st.Current.Format("2006/01/02"), st.TradingDaysLeft),
		"➡️ 下月結算: "+st.Next.Format("2006/01/02"),
	)

	return finish(lines, pos)
}

func vixIcon(level, warn float64) string {
	switch {
	case level >= warn:
		return "🔴"
	case level >= 20:
		return "🟡"
	}
	return "🟢"
}

func finish(lines []string, pos *model.Position) string {
	if pos.Note != "" {
		lines = append(lines, "", "📝 "+pos.Note)
	}
	updated := pos.UpdatedAt
	if updated == "" {
		updated = "未知"
	}
	lines = append(lines, "", "🔄 更新: "+updated)
	return strings.Join(lines, "\n")
}
