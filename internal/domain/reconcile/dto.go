package reconcile

import "time"

// ViewSource says which underlying record supplied the times in a day view.
type ViewSource string

const (
	SourceAttendance    ViewSource = "attendance"
	SourceReportDerived ViewSource = "report-derived"
	SourceNone          ViewSource = "none"
)

// DayView is the single derived read-model merging attendance and report data
// for one student and date. It is computed on every read and never persisted.
type DayView struct {
	StudentID    string     `json:"student_id"`
	Date         string     `json:"date"`
	CheckIn      *string    `json:"check_in"`
	CheckOut     *string    `json:"check_out"`
	StudyMinutes *int       `json:"study_minutes"`
	Source       ViewSource `json:"source"`
	HasReport    bool       `json:"has_report"`
	NotifyStatus *string    `json:"notify_status,omitempty"`
}

// SweepOptions bound one sweep invocation. Limit is the per-run rate limit;
// anything beyond it waits for the next tick.
type SweepOptions struct {
	DryRun bool
	Limit  int
}

// SweepCandidate is one record a sweep previewed or processed.
type SweepCandidate struct {
	StudentID string     `json:"student_id"`
	Date      string     `json:"date"`
	CheckIn   *time.Time `json:"check_in,omitempty"`
	ReportID  string     `json:"report_id,omitempty"`
}

// SweepResult summarizes one sweep pass. On a dry run Processed is zero and
// Candidates is exactly the list a real run would touch.
type SweepResult struct {
	DryRun     bool             `json:"dry_run"`
	Processed  int              `json:"processed"`
	Candidates []SweepCandidate `json:"candidates"`
}
