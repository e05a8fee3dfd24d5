package report

import (
	"time"
)

// NotifyStatus is the guardian-notification state of a daily report.
// Absence of a row means no report yet; stored rows are always one of these.
type NotifyStatus string

const (
	StatusPending NotifyStatus = "pending"
	StatusSent    NotifyStatus = "sent"
	StatusFailed  NotifyStatus = "failed"
)

// DailyReport is the staff-authored lesson log for one student and day,
// upserted by (student_id, date). It is written independently of attendance;
// the reconciliation layer joins the two on read.
type DailyReport struct {
	ID           string
	StudentID    string
	Date         time.Time
	Course       *string
	Content      *string
	Homework     *string
	Feedback     *string
	PlanNext     *string
	ClassType    *string
	TeacherName  *string
	ScheduledAt  time.Time
	NotifyStatus NotifyStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	StudentName   *string
	GuardianEmail *string
}
