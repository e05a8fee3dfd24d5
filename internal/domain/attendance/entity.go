package attendance

import (
	"time"
)

// Source records which actor produced the timestamps on a record.
type Source string

const (
	SourceKiosk           Source = "kiosk"
	SourceAdminCorrection Source = "admin-correction"
	SourceAutoLeave       Source = "auto-leave"
	SourceFixIn           Source = "fix-in"
)

// Record is one attendance row. There is at most one per (student, date);
// the unique index on (student_id, date) enforces it.
type Record struct {
	ID           string
	StudentID    string
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	StudyMinutes *int
	Source       Source
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	StudentName *string
}
