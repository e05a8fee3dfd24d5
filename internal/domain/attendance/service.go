package attendance

import (
	"context"
	"time"
)

// Service defines business logic for attendance records. Kiosk operations
// stamp the current time themselves; Upsert operations exist for the
// reconciliation layer, which supplies its own times and sources.
type Service interface {
	// KioskCheckIn processes a student's kiosk scan for today
	KioskCheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// KioskCheckOut processes the second kiosk scan of the day
	KioskCheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// UpsertCheckIn creates the day's record if absent and sets its check-in.
	// A kiosk source finding an existing check-in gets ErrAlreadyCheckedIn;
	// a fix-in source gets ErrAlreadyHasCheckIn and never touches checkout.
	UpsertCheckIn(ctx context.Context, studentID string, date time.Time, at time.Time, source Source) (Record, error)

	// UpsertCheckOut sets the checkout on an existing record. Requires a prior
	// check-in and rejects a checkout before it for kiosk and admin sources.
	UpsertCheckOut(ctx context.Context, studentID string, date time.Time, at time.Time, source Source) (Record, error)

	// Overwrite unconditionally sets the supplied bounds (admin correction)
	Overwrite(ctx context.Context, req OverwriteRequest) (Record, error)

	// GetOne returns nil when no record exists for the key
	GetOne(ctx context.Context, studentID string, date time.Time) (*Record, error)

	// ListByDate lists the day's records with student names for the staff panel
	ListByDate(ctx context.Context, date time.Time) ([]RecordResponse, error)

	// ListOpenByDate lists auto-leave candidates: checked in by cutoff, not out
	ListOpenByDate(ctx context.Context, date time.Time, cutoff time.Time, limit int) ([]Record, error)
}
