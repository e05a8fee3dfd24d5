package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. The table carries a
// unique index on (student_id, date); Create maps a violation of it to
// ErrAlreadyCheckedIn so a double kiosk scan cannot slip through a race.
type Repository interface {
	// Create inserts the day's record
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByStudentAndDate returns nil, nil when no record exists for the key
	GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*Record, error)

	// Update writes rec only if the stored updated_at still equals
	// rec.UpdatedAt; a stale write returns ErrConcurrentModification
	Update(ctx context.Context, rec Record) (Record, error)

	// ListByDate returns all records for the date, student_id ascending
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// ListOpenByDate returns records with a check-in no later than cutoff and
	// no checkout, student_id ascending, capped at limit
	ListOpenByDate(ctx context.Context, date time.Time, cutoff time.Time, limit int) ([]Record, error)
}
