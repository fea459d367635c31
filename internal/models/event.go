package models

import "time"

type ReportEventType string

const (
	EventReportCreated      ReportEventType = "report.created"
	EventReportTrashed      ReportEventType = "report.trashed"
	EventReportRestored     ReportEventType = "report.restored"
	EventReportPurged       ReportEventType = "report.purged"
	EventReportsBulkRestore ReportEventType = "report.bulk_restored"
	EventReportsBulkPurge   ReportEventType = "report.bulk_purged"
)

// ReportEvent is broadcast to admin dashboards when a report changes state.
type ReportEvent struct {
	Type      ReportEventType `json:"type"`
	ReportID  string          `json:"reportId,omitempty"`
	IDs       []string        `json:"ids,omitempty"`
	ActorUID  string          `json:"actorUid,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
