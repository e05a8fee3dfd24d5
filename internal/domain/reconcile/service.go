package reconcile

import (
	"context"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
)

// Service is the reconciliation layer: the one place that derives the
// canonical attendance view and the entry point for every correction.
type Service interface {
	// GetReconciledDay merges attendance and report data for the key
	GetReconciledDay(ctx context.Context, studentID string, date time.Time) (DayView, error)

	// FixIn synthesizes a missing check-in from the day's report. Idempotent:
	// a second call returns the existing fix-in record.
	FixIn(ctx context.Context, studentID string, date time.Time) (attendance.Record, error)

	// Overwrite applies an admin correction and returns the fresh day view
	Overwrite(ctx context.Context, req attendance.OverwriteRequest) (DayView, error)

	// RunAutoLeaveSweep fills missing checkouts with the fixed cutoff time.
	// asOf is the effective now of the run; nothing is overdue before cutoff.
	RunAutoLeaveSweep(ctx context.Context, asOf time.Time, cutoff time.Time, opts SweepOptions) (SweepResult, error)

	// RunReportSweep dispatches pending reports due by asOf
	RunReportSweep(ctx context.Context, asOf time.Time, opts SweepOptions) (SweepResult, error)
}
