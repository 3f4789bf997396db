package recorder

import "FuturesSentinel/internal/model"

// ReportEvent describes one evaluation cycle that produced a report: which
// session it was, which alerts fired, and whether the push was delivered.
// Risk figures themselves are deliberately not journaled.
type ReportEvent struct {
	Session    model.Session
	AlertKinds []model.AlertKind
	Delivered  bool
	Error      string
}

// Recorder journals report deliveries for later inspection.
type Recorder interface {
	RecordReport(evt *ReportEvent) error
	Close() error
}
