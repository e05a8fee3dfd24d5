package report

import (
	"context"
	"time"
)

// Repository defines data access for daily reports. The table carries a
// unique index on (student_id, date); Upsert relies on it.
type Repository interface {
	// GetByStudentAndDate returns nil, nil when no report exists for the key
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*DailyReport, error)

	// GetByID returns ErrReportNotFound when absent
	GetByID(ctx context.Context, id string) (DailyReport, error)

	// Upsert inserts or replaces the report for (student_id, date). When the
	// stored row is already sent, its scheduled_at and notify_status are kept
	// regardless of what the caller passes; the returned report reflects the
	// stored values.
	Upsert(ctx context.Context, rep DailyReport) (DailyReport, error)

	// ListPendingDue returns pending reports whose scheduled_at is at or
	// before asOf, student_id ascending, capped at limit
	ListPendingDue(ctx context.Context, asOf time.Time, limit int) ([]DailyReport, error)

	// TransitionStatus atomically moves id from one status to another.
	// Returns ErrStatusConflict when the stored status no longer equals from.
	TransitionStatus(ctx context.Context, id string, from, to NotifyStatus) error
}
