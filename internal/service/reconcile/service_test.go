package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/domain/notify"
	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/domain/report"
	attendanceService "github.com/edubase/academy-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seoul, _ = time.LoadLocation("Asia/Seoul")

func day() time.Time {
	return time.Date(2026, 3, 9, 0, 0, 0, 0, seoul)
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 9, h, m, 0, 0, seoul)
}

// settable test clock
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

type fakeAttendanceRepo struct {
	records map[string]attendance.Record
	nextID  int
	version int
}

func attKey(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) stamp() time.Time {
	f.version++
	return time.Date(2026, 1, 1, 0, 0, 0, f.version, time.UTC)
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	k := attKey(rec.StudentID, rec.Date)
	if _, exists := f.records[k]; exists {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	rec.CreatedAt = f.stamp()
	rec.UpdatedAt = rec.CreatedAt
	f.records[k] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*attendance.Record, error) {
	rec, ok := f.records[attKey(studentID, date)]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	k := attKey(rec.StudentID, rec.Date)
	stored, ok := f.records[k]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	if !stored.UpdatedAt.Equal(rec.UpdatedAt) {
		return attendance.Record{}, attendance.ErrConcurrentModification
	}
	rec.UpdatedAt = f.stamp()
	f.records[k] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records {
		if rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListOpenByDate(ctx context.Context, date time.Time, cutoff time.Time, limit int) ([]attendance.Record, error) {
	// student_id ascending, like the SQL query
	var out []attendance.Record
	for i := 1; i <= f.nextID; i++ {
		for _, rec := range f.records {
			if rec.ID != fmt.Sprintf("rec-%d", i) {
				continue
			}
			if !rec.Date.Equal(date) || rec.CheckIn == nil || rec.CheckOut != nil || rec.CheckIn.After(cutoff) {
				continue
			}
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeReportRepo struct {
	reports map[string]report.DailyReport
}

func (f *fakeReportRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*report.DailyReport, error) {
	for _, rep := range f.reports {
		if rep.StudentID == studentID && rep.Date.Equal(date) {
			cp := rep
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	rep, ok := f.reports[id]
	if !ok {
		return report.DailyReport{}, report.ErrReportNotFound
	}
	return rep, nil
}

func (f *fakeReportRepo) Upsert(ctx context.Context, rep report.DailyReport) (report.DailyReport, error) {
	f.reports[rep.ID] = rep
	return rep, nil
}

func (f *fakeReportRepo) ListPendingDue(ctx context.Context, asOf time.Time, limit int) ([]report.DailyReport, error) {
	var out []report.DailyReport
	for _, rep := range f.reports {
		if rep.NotifyStatus == report.StatusPending && !rep.ScheduledAt.After(asOf) {
			out = append(out, rep)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReportRepo) TransitionStatus(ctx context.Context, id string, from, to report.NotifyStatus) error {
	rep, ok := f.reports[id]
	if !ok {
		return report.ErrReportNotFound
	}
	if rep.NotifyStatus != from {
		return report.ErrStatusConflict
	}
	rep.NotifyStatus = to
	f.reports[id] = rep
	return nil
}

// fakeDispatcher records batch sends and reports everything as sent.
type fakeDispatcher struct {
	batches [][]string
}

func (f *fakeDispatcher) SendOne(ctx context.Context, reportID string) (notify.SendResult, error) {
	return notify.SendResult{ReportID: reportID, Outcome: notify.OutcomeSent}, nil
}

func (f *fakeDispatcher) SendSelected(ctx context.Context, reportIDs []string) (notify.BatchResult, error) {
	f.batches = append(f.batches, reportIDs)
	return notify.BatchResult{Sent: reportIDs, Failed: []string{}, Skipped: []string{}}, nil
}

type fixture struct {
	attRepo    *fakeAttendanceRepo
	repRepo    *fakeReportRepo
	dispatcher *fakeDispatcher
	clk        *stepClock
	svc        reconcile.Service
}

func newFixture(now time.Time) *fixture {
	attRepo := &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
	repRepo := &fakeReportRepo{reports: make(map[string]report.DailyReport)}
	dispatcher := &fakeDispatcher{}
	clk := &stepClock{t: now}

	attSvc := attendanceService.NewAttendanceService(attRepo, clk, seoul)
	svc := NewReconcileService(attSvc, repRepo, dispatcher, seoul, Config{
		FixInOffset:   30 * time.Minute,
		FixInFallback: "14:00",
	})

	return &fixture{attRepo: attRepo, repRepo: repRepo, dispatcher: dispatcher, clk: clk, svc: svc}
}

func (fx *fixture) addReport(id, studentID string, scheduledAt time.Time, status report.NotifyStatus) {
	fx.repRepo.reports[id] = report.DailyReport{
		ID:           id,
		StudentID:    studentID,
		Date:         day(),
		ScheduledAt:  scheduledAt,
		NotifyStatus: status,
	}
}

func (fx *fixture) checkIn(t *testing.T, studentID string, when time.Time) {
	t.Helper()
	_, err := fx.attRepo.Create(context.Background(), attendance.Record{
		StudentID: studentID,
		Date:      day(),
		CheckIn:   &when,
		Source:    attendance.SourceKiosk,
	})
	require.NoError(t, err)
}

func TestGetReconciledDaySources(t *testing.T) {
	fx := newFixture(at(20, 0))
	ctx := context.Background()

	// no data at all
	view, err := fx.svc.GetReconciledDay(ctx, "s-1", day())
	require.NoError(t, err)
	assert.Equal(t, reconcile.SourceNone, view.Source)
	assert.False(t, view.HasReport)

	// report only
	fx.addReport("r1", "s-1", at(21, 0), report.StatusPending)
	view, err = fx.svc.GetReconciledDay(ctx, "s-1", day())
	require.NoError(t, err)
	assert.Equal(t, reconcile.SourceReportDerived, view.Source)
	assert.True(t, view.HasReport)
	require.NotNil(t, view.NotifyStatus)
	assert.Equal(t, "pending", *view.NotifyStatus)

	// attendance wins once present
	fx.checkIn(t, "s-1", at(14, 0))
	view, err = fx.svc.GetReconciledDay(ctx, "s-1", day())
	require.NoError(t, err)
	assert.Equal(t, reconcile.SourceAttendance, view.Source)
	require.NotNil(t, view.CheckIn)
	assert.Nil(t, view.StudyMinutes, "open record has no duration yet")
}

func TestFixInWithoutReport(t *testing.T) {
	fx := newFixture(at(20, 0))

	_, err := fx.svc.FixIn(context.Background(), "s-1", day())
	assert.ErrorIs(t, err, reconcile.ErrNoReportToFixFrom)
}

func TestFixInDerivesFromSchedule(t *testing.T) {
	fx := newFixture(at(20, 0))
	fx.addReport("r1", "s-1", at(16, 0), report.StatusPending)

	rec, err := fx.svc.FixIn(context.Background(), "s-1", day())
	require.NoError(t, err)

	assert.Equal(t, attendance.SourceFixIn, rec.Source)
	require.NotNil(t, rec.CheckIn)
	assert.True(t, rec.CheckIn.Equal(at(15, 30)), "check-in should be scheduled_at minus the offset")
}

func TestFixInIsIdempotent(t *testing.T) {
	fx := newFixture(at(20, 0))
	fx.addReport("r1", "s-1", at(16, 0), report.StatusPending)
	ctx := context.Background()

	first, err := fx.svc.FixIn(ctx, "s-1", day())
	require.NoError(t, err)

	second, err := fx.svc.FixIn(ctx, "s-1", day())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CheckIn.Equal(*second.CheckIn))
}

func TestFixInRefusesToShadowRealCheckIn(t *testing.T) {
	fx := newFixture(at(20, 0))
	fx.addReport("r1", "s-1", at(16, 0), report.StatusPending)
	fx.checkIn(t, "s-1", at(14, 0))

	_, err := fx.svc.FixIn(context.Background(), "s-1", day())
	assert.ErrorIs(t, err, attendance.ErrAlreadyHasCheckIn)
}

func TestAutoLeaveSweepDryRunIsPure(t *testing.T) {
	fx := newFixture(at(23, 0))
	ctx := context.Background()

	fx.checkIn(t, "s-1", at(14, 0))
	fx.checkIn(t, "s-2", at(15, 0))

	opts := reconcile.SweepOptions{DryRun: true, Limit: 100}

	first, err := fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), opts)
	require.NoError(t, err)
	second, err := fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), opts)
	require.NoError(t, err)

	assert.True(t, first.DryRun)
	assert.Zero(t, first.Processed)
	assert.Len(t, first.Candidates, 2)
	assert.Equal(t, first.Candidates, second.Candidates, "dry run must not change state")

	for _, rec := range fx.attRepo.records {
		assert.Nil(t, rec.CheckOut, "dry run must not write checkouts")
	}
}

func TestAutoLeaveSweepClosesOpenRecords(t *testing.T) {
	fx := newFixture(at(23, 0))
	ctx := context.Background()

	fx.checkIn(t, "s-1", at(14, 0))
	fx.checkIn(t, "s-2", at(15, 0))

	res, err := fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), reconcile.SweepOptions{Limit: 100})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Processed)
	for _, rec := range fx.attRepo.records {
		require.NotNil(t, rec.CheckOut)
		assert.True(t, rec.CheckOut.Equal(at(22, 0)))
		assert.Equal(t, attendance.SourceAutoLeave, rec.Source)
	}

	// closed records are no longer candidates
	res, err = fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), reconcile.SweepOptions{Limit: 100})
	require.NoError(t, err)
	assert.Zero(t, res.Processed)
	assert.Empty(t, res.Candidates)
}

func TestAutoLeaveSweepBeforeCutoffDoesNothing(t *testing.T) {
	fx := newFixture(at(18, 0))

	fx.checkIn(t, "s-1", at(14, 0))

	res, err := fx.svc.RunAutoLeaveSweep(context.Background(), at(18, 0), at(22, 0), reconcile.SweepOptions{Limit: 100})
	require.NoError(t, err)

	assert.Zero(t, res.Processed)
	assert.Empty(t, res.Candidates)
}

func TestAutoLeaveSweepAsOfOverrideMatchesScheduledRun(t *testing.T) {
	// a morning preview run as of tonight's cutoff must see the same
	// candidates a scheduled tick at that instant would
	fx := newFixture(at(10, 0))
	ctx := context.Background()
	fx.checkIn(t, "s-1", at(9, 0))

	opts := reconcile.SweepOptions{DryRun: true, Limit: 100}

	preview, err := fx.svc.RunAutoLeaveSweep(ctx, at(23, 5), at(23, 0), opts)
	require.NoError(t, err)

	evening := newFixture(at(23, 5))
	evening.checkIn(t, "s-1", at(9, 0))
	scheduled, err := evening.svc.RunAutoLeaveSweep(ctx, at(23, 5), at(23, 0), opts)
	require.NoError(t, err)

	require.Len(t, preview.Candidates, 1)
	assert.Equal(t, scheduled.Candidates, preview.Candidates)
}

func TestAutoLeaveSweepHonorsLimit(t *testing.T) {
	fx := newFixture(at(23, 0))
	ctx := context.Background()

	fx.checkIn(t, "s-1", at(14, 0))
	fx.checkIn(t, "s-2", at(15, 0))
	fx.checkIn(t, "s-3", at(16, 0))

	res, err := fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), reconcile.SweepOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Processed)

	// the remainder is picked up by the next pass
	res, err = fx.svc.RunAutoLeaveSweep(ctx, at(23, 0), at(22, 0), reconcile.SweepOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
}

func TestReportSweepDryRunListsWithoutSending(t *testing.T) {
	fx := newFixture(at(22, 0))
	fx.addReport("r1", "s-1", at(21, 0), report.StatusPending)
	fx.addReport("r2", "s-2", at(23, 30), report.StatusPending)
	fx.addReport("r3", "s-3", at(20, 0), report.StatusSent)

	res, err := fx.svc.RunReportSweep(context.Background(), at(22, 0), reconcile.SweepOptions{DryRun: true, Limit: 100})
	require.NoError(t, err)

	assert.Zero(t, res.Processed)
	require.Len(t, res.Candidates, 1, "only pending reports due by asOf qualify")
	assert.Equal(t, "r1", res.Candidates[0].ReportID)
	assert.Empty(t, fx.dispatcher.batches, "dry run must not dispatch")
}

func TestReportSweepDispatchesDueReports(t *testing.T) {
	fx := newFixture(at(22, 0))
	fx.addReport("r1", "s-1", at(21, 0), report.StatusPending)

	res, err := fx.svc.RunReportSweep(context.Background(), at(22, 0), reconcile.SweepOptions{Limit: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Processed)
	require.Len(t, fx.dispatcher.batches, 1)
	assert.Equal(t, []string{"r1"}, fx.dispatcher.batches[0])
}

func TestOverwriteReturnsFreshView(t *testing.T) {
	fx := newFixture(at(23, 0))

	in, out := "14:00", "23:00"
	view, err := fx.svc.Overwrite(context.Background(), attendance.OverwriteRequest{
		StudentID: "s-1",
		Date:      "2026-03-09",
		CheckIn:   &in,
		CheckOut:  &out,
	})
	require.NoError(t, err)

	assert.Equal(t, reconcile.SourceAttendance, view.Source)
	require.NotNil(t, view.StudyMinutes)
	assert.Equal(t, 540, *view.StudyMinutes)
}
