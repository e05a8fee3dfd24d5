package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/domain/notify"
	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/domain/report"
)

const defaultSweepLimit = 200

// Config carries the fix-in defaults. The synthesized check-in is the
// report's scheduled_at minus FixInOffset; FixInFallback ("15:04") is used
// when the report carries no usable schedule.
type Config struct {
	FixInOffset   time.Duration
	FixInFallback string
}

type ReconcileServiceImpl struct {
	attendanceSvc attendance.Service
	reports       report.Repository
	dispatcher    notify.Service
	loc           *time.Location
	cfg           Config
}

// GetReconciledDay implements reconcile.Service. This is the only place the
// canonical day view is derived; every caller consumes it instead of
// recomputing source or study minutes themselves.
func (s *ReconcileServiceImpl) GetReconciledDay(ctx context.Context, studentID string, date time.Time) (reconcile.DayView, error) {
	rec, err := s.attendanceSvc.GetOne(ctx, studentID, date)
	if err != nil {
		return reconcile.DayView{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	rep, err := s.reports.GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return reconcile.DayView{}, fmt.Errorf("failed to load report: %w", err)
	}

	view := reconcile.DayView{
		StudentID: studentID,
		Date:      date.Format("2006-01-02"),
		Source:    reconcile.SourceNone,
		HasReport: rep != nil,
	}
	if rep != nil {
		status := string(rep.NotifyStatus)
		view.NotifyStatus = &status
	}

	if rec != nil {
		view.Source = reconcile.SourceAttendance
		view.CheckIn = timePtrToString(rec.CheckIn)
		view.CheckOut = timePtrToString(rec.CheckOut)
		mins, _ := attendance.StudyMinutes(rec.CheckIn, rec.CheckOut)
		view.StudyMinutes = mins
		return view, nil
	}

	if rep != nil {
		// a report without attendance is exactly what fix-in corrects
		view.Source = reconcile.SourceReportDerived
	}
	return view, nil
}

// FixIn implements reconcile.Service.
func (s *ReconcileServiceImpl) FixIn(ctx context.Context, studentID string, date time.Time) (attendance.Record, error) {
	rep, err := s.reports.GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load report: %w", err)
	}
	if rep == nil {
		return attendance.Record{}, reconcile.ErrNoReportToFixFrom
	}

	existing, err := s.attendanceSvc.GetOne(ctx, studentID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		if existing.Source == attendance.SourceFixIn {
			// already fixed, no-op
			return *existing, nil
		}
		return attendance.Record{}, attendance.ErrAlreadyHasCheckIn
	}

	checkIn := s.fixInTime(date, rep.ScheduledAt)

	rec, err := s.attendanceSvc.UpsertCheckIn(ctx, studentID, date, checkIn, attendance.SourceFixIn)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyHasCheckIn) {
			// lost a race to another fix-in; treat it as the no-op case
			raced, getErr := s.attendanceSvc.GetOne(ctx, studentID, date)
			if getErr == nil && raced != nil && raced.Source == attendance.SourceFixIn {
				return *raced, nil
			}
		}
		return attendance.Record{}, err
	}
	return rec, nil
}

// Overwrite implements reconcile.Service.
func (s *ReconcileServiceImpl) Overwrite(ctx context.Context, req attendance.OverwriteRequest) (reconcile.DayView, error) {
	rec, err := s.attendanceSvc.Overwrite(ctx, req)
	if err != nil {
		return reconcile.DayView{}, err
	}
	return s.GetReconciledDay(ctx, rec.StudentID, rec.Date)
}

// RunAutoLeaveSweep implements reconcile.Service. The sweep never guesses a
// departure time: every candidate gets the fixed cutoff, which keeps reruns
// idempotent (a record with its checkout set is no longer a candidate).
// asOf is the run's effective now, so a manual run with an as-of override
// sees the same candidates a scheduled tick at that instant would.
func (s *ReconcileServiceImpl) RunAutoLeaveSweep(ctx context.Context, asOf time.Time, cutoff time.Time, opts reconcile.SweepOptions) (reconcile.SweepResult, error) {
	result := reconcile.SweepResult{
		DryRun:     opts.DryRun,
		Candidates: []reconcile.SweepCandidate{},
	}

	if asOf.Before(cutoff) {
		// the day is still open; nothing is overdue yet
		return result, nil
	}

	date := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, cutoff.Location())

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSweepLimit
	}

	candidates, err := s.attendanceSvc.ListOpenByDate(ctx, date, cutoff, limit)
	if err != nil {
		return reconcile.SweepResult{}, fmt.Errorf("failed to list auto-leave candidates: %w", err)
	}

	for _, rec := range candidates {
		result.Candidates = append(result.Candidates, reconcile.SweepCandidate{
			StudentID: rec.StudentID,
			Date:      rec.Date.Format("2006-01-02"),
			CheckIn:   rec.CheckIn,
		})

		if opts.DryRun {
			continue
		}

		if _, err := s.attendanceSvc.UpsertCheckOut(ctx, rec.StudentID, rec.Date, cutoff, attendance.SourceAutoLeave); err != nil {
			// each record commits on its own; a failed one stays open for
			// the next tick
			slog.Error("Auto-leave checkout failed", "student_id", rec.StudentID, "date", rec.Date.Format("2006-01-02"), "error", err)
			continue
		}
		result.Processed++
	}

	return result, nil
}

// RunReportSweep implements reconcile.Service.
func (s *ReconcileServiceImpl) RunReportSweep(ctx context.Context, asOf time.Time, opts reconcile.SweepOptions) (reconcile.SweepResult, error) {
	result := reconcile.SweepResult{
		DryRun:     opts.DryRun,
		Candidates: []reconcile.SweepCandidate{},
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSweepLimit
	}

	due, err := s.reports.ListPendingDue(ctx, asOf, limit)
	if err != nil {
		return reconcile.SweepResult{}, fmt.Errorf("failed to list due reports: %w", err)
	}

	ids := make([]string, 0, len(due))
	for _, rep := range due {
		result.Candidates = append(result.Candidates, reconcile.SweepCandidate{
			StudentID: rep.StudentID,
			Date:      rep.Date.Format("2006-01-02"),
			ReportID:  rep.ID,
		})
		ids = append(ids, rep.ID)
	}

	if opts.DryRun || len(ids) == 0 {
		return result, nil
	}

	batch, err := s.dispatcher.SendSelected(ctx, ids)
	if err != nil {
		return reconcile.SweepResult{}, fmt.Errorf("failed to dispatch due reports: %w", err)
	}
	result.Processed = len(batch.Sent) + len(batch.Failed)

	return result, nil
}

// fixInTime derives the synthetic check-in for a fix-in correction.
func (s *ReconcileServiceImpl) fixInTime(date time.Time, scheduledAt time.Time) time.Time {
	if !scheduledAt.IsZero() {
		return scheduledAt.In(s.loc).Add(-s.cfg.FixInOffset)
	}

	t, err := time.Parse("15:04", s.cfg.FixInFallback)
	if err != nil {
		t, _ = time.Parse("15:04", "14:00")
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, s.loc)
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func NewReconcileService(
	attendanceSvc attendance.Service,
	reports report.Repository,
	dispatcher notify.Service,
	loc *time.Location,
	cfg Config,
) reconcile.Service {
	return &ReconcileServiceImpl{
		attendanceSvc: attendanceSvc,
		reports:       reports,
		dispatcher:    dispatcher,
		loc:           loc,
		cfg:           cfg,
	}
}
