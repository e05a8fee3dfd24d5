package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	repo attendance.Repository
	clk  clock.Clock
	loc  *time.Location
}

// timePtrToString safely converts a *time.Time to a display string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// dateOf truncates t to midnight of its calendar day in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// KioskCheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) KioskCheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.clk.Now().In(a.loc)
	rec, err := a.UpsertCheckIn(ctx, req.StudentID, dateOf(now, a.loc), now, attendance.SourceKiosk)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return mapRecordToResponse(rec), nil
}

// KioskCheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) KioskCheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := a.clk.Now().In(a.loc)
	rec, err := a.UpsertCheckOut(ctx, req.StudentID, dateOf(now, a.loc), now, attendance.SourceKiosk)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return mapRecordToResponse(rec), nil
}

// UpsertCheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) UpsertCheckIn(ctx context.Context, studentID string, date time.Time, at time.Time, source attendance.Source) (attendance.Record, error) {
	rec, err := a.repo.GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	if rec == nil {
		created, err := a.repo.Create(ctx, attendance.Record{
			StudentID: studentID,
			Date:      date,
			CheckIn:   &at,
			Source:    source,
		})
		if err != nil {
			return attendance.Record{}, err
		}
		return created, nil
	}

	if rec.CheckIn != nil {
		switch source {
		case attendance.SourceKiosk:
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		case attendance.SourceFixIn:
			return attendance.Record{}, attendance.ErrAlreadyHasCheckIn
		}
	}

	return a.updateWithRetry(ctx, studentID, date, func(r *attendance.Record) error {
		if r.CheckIn != nil && (source == attendance.SourceKiosk || source == attendance.SourceFixIn) {
			// a concurrent writer beat us to the check-in
			if source == attendance.SourceKiosk {
				return attendance.ErrAlreadyCheckedIn
			}
			return attendance.ErrAlreadyHasCheckIn
		}
		r.CheckIn = &at
		r.Source = source
		a.recomputeMinutes(r)
		return nil
	})
}

// UpsertCheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) UpsertCheckOut(ctx context.Context, studentID string, date time.Time, at time.Time, source attendance.Source) (attendance.Record, error) {
	rec, err := a.repo.GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	if rec == nil || rec.CheckIn == nil {
		return attendance.Record{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil && source == attendance.SourceKiosk {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}
	if source != attendance.SourceAutoLeave && at.Before(*rec.CheckIn) {
		return attendance.Record{}, attendance.ErrInvalidTimeOrder
	}

	return a.updateWithRetry(ctx, studentID, date, func(r *attendance.Record) error {
		if r.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if r.CheckOut != nil && source == attendance.SourceKiosk {
			return attendance.ErrAlreadyCheckedOut
		}
		if source != attendance.SourceAutoLeave && at.Before(*r.CheckIn) {
			return attendance.ErrInvalidTimeOrder
		}
		r.CheckOut = &at
		r.Source = source
		a.recomputeMinutes(r)
		return nil
	})
}

// Overwrite implements attendance.Service. Admin corrections replace the
// supplied bounds unconditionally and always restamp the source.
func (a *AttendanceServiceImpl) Overwrite(ctx context.Context, req attendance.OverwriteRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	day, _ := time.ParseInLocation("2006-01-02", req.Date, a.loc)

	var newIn, newOut *time.Time
	if req.CheckIn != nil {
		t := combineDateTime(day, *req.CheckIn, a.loc)
		newIn = &t
	}
	if req.CheckOut != nil {
		t := combineDateTime(day, *req.CheckOut, a.loc)
		newOut = &t
	}

	rec, err := a.repo.GetByStudentAndDate(ctx, req.StudentID, day)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
	}

	apply := func(r *attendance.Record) error {
		if newIn != nil {
			r.CheckIn = newIn
		}
		if newOut != nil {
			r.CheckOut = newOut
		}
		if r.CheckIn != nil && r.CheckOut != nil && r.CheckOut.Before(*r.CheckIn) {
			return attendance.ErrInvalidTimeOrder
		}
		r.Source = attendance.SourceAdminCorrection
		a.recomputeMinutes(r)
		return nil
	}

	if rec == nil {
		fresh := attendance.Record{
			StudentID: req.StudentID,
			Date:      day,
		}
		if err := apply(&fresh); err != nil {
			return attendance.Record{}, err
		}
		return a.repo.Create(ctx, fresh)
	}

	return a.updateWithRetry(ctx, req.StudentID, day, apply)
}

// GetOne implements attendance.Service.
func (a *AttendanceServiceImpl) GetOne(ctx context.Context, studentID string, date time.Time) (*attendance.Record, error) {
	return a.repo.GetByStudentAndDate(ctx, studentID, date)
}

// ListByDate implements attendance.Service.
func (a *AttendanceServiceImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.RecordResponse, error) {
	records, err := a.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}
	return responses, nil
}

// ListOpenByDate implements attendance.Service.
func (a *AttendanceServiceImpl) ListOpenByDate(ctx context.Context, date time.Time, cutoff time.Time, limit int) ([]attendance.Record, error) {
	return a.repo.ListOpenByDate(ctx, date, cutoff, limit)
}

// updateWithRetry reads the record, applies mutate, and writes it back with
// the repository's compare-and-set. A single lost race is retried against a
// fresh read; a second one surfaces ErrConcurrentModification to the caller.
func (a *AttendanceServiceImpl) updateWithRetry(ctx context.Context, studentID string, date time.Time, mutate func(*attendance.Record) error) (attendance.Record, error) {
	for attempt := 0; attempt < 2; attempt++ {
		rec, err := a.repo.GetByStudentAndDate(ctx, studentID, date)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to load attendance record: %w", err)
		}
		if rec == nil {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}

		if err := mutate(rec); err != nil {
			return attendance.Record{}, err
		}

		updated, err := a.repo.Update(ctx, *rec)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, attendance.ErrConcurrentModification) {
			return attendance.Record{}, err
		}
	}
	return attendance.Record{}, attendance.ErrConcurrentModification
}

func (a *AttendanceServiceImpl) recomputeMinutes(r *attendance.Record) {
	mins, clamped := attendance.StudyMinutes(r.CheckIn, r.CheckOut)
	if clamped {
		slog.Warn("negative study duration clamped to zero",
			"student_id", r.StudentID,
			"date", r.Date.Format("2006-01-02"),
			"check_in", r.CheckIn,
			"check_out", r.CheckOut,
		)
	}
	r.StudyMinutes = mins
}

// combineDateTime merges a calendar day with a "15:04" time-of-day string.
func combineDateTime(day time.Time, timeOfDay string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04:05", timeOfDay)
	if err != nil {
		t, _ = time.Parse("15:04", timeOfDay)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// mapRecordToResponse converts a Record entity to RecordResponse
func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:           rec.ID,
		StudentID:    rec.StudentID,
		StudentName:  rec.StudentName,
		Date:         rec.Date.Format("2006-01-02"),
		CheckIn:      timePtrToString(rec.CheckIn),
		CheckOut:     timePtrToString(rec.CheckOut),
		StudyMinutes: rec.StudyMinutes,
		Source:       string(rec.Source),
		UpdatedAt:    rec.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewAttendanceService(repo attendance.Repository, clk clock.Clock, loc *time.Location) attendance.Service {
	return &AttendanceServiceImpl{
		repo: repo,
		clk:  clk,
		loc:  loc,
	}
}
