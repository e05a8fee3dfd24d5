package report

import (
	"context"
	"time"
)

// Service defines business logic for daily reports.
type Service interface {
	// Save upserts the report for (student_id, date). A new or unsent report
	// takes the request's scheduled_at and resets notify status to pending;
	// a sent report keeps both and only its text fields change.
	Save(ctx context.Context, req SaveRequest) (ReportResponse, error)

	// Get loads the report for the key, ErrReportNotFound when absent
	Get(ctx context.Context, studentID string, date time.Time) (ReportResponse, error)
}
