package model

// Session identifies which TAIFEX trading window an evaluation falls into.
type Session string

const (
	SessionDay    Session = "DAY"    // 日盤 08:45-13:45 (report window buffered to 13:55)
	SessionNight  Session = "NIGHT"  // 夜盤 15:00 到隔日 05:00
	SessionClosed Session = "CLOSED"
)
