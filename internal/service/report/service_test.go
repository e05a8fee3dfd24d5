package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	reports map[string]report.DailyReport
	nextID  int

	// called after a read returns, to wedge writes into the gap between a
	// caller's read and its upsert
	afterGet func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: make(map[string]report.DailyReport)}
}

func key(studentID string, date time.Time) string {
	return studentID + "|" + date.Format("2006-01-02")
}

func (f *fakeRepo) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*report.DailyReport, error) {
	rep, ok := f.reports[key(studentID, date)]
	if f.afterGet != nil {
		f.afterGet()
	}
	if !ok {
		return nil, nil
	}
	cp := rep
	return &cp, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	for _, rep := range f.reports {
		if rep.ID == id {
			return rep, nil
		}
	}
	return report.DailyReport{}, report.ErrReportNotFound
}

func (f *fakeRepo) Upsert(ctx context.Context, rep report.DailyReport) (report.DailyReport, error) {
	k := key(rep.StudentID, rep.Date)
	if existing, ok := f.reports[k]; ok {
		rep.ID = existing.ID
		rep.CreatedAt = existing.CreatedAt
		if existing.NotifyStatus == report.StatusSent {
			// sent rows keep schedule and status, like the SQL upsert
			rep.ScheduledAt = existing.ScheduledAt
			rep.NotifyStatus = existing.NotifyStatus
		}
	} else {
		f.nextID++
		rep.ID = fmt.Sprintf("rep-%d", f.nextID)
		rep.CreatedAt = time.Now()
	}
	rep.UpdatedAt = time.Now()
	f.reports[k] = rep
	return rep, nil
}

func (f *fakeRepo) ListPendingDue(ctx context.Context, asOf time.Time, limit int) ([]report.DailyReport, error) {
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

func (f *fakeRepo) TransitionStatus(ctx context.Context, id string, from, to report.NotifyStatus) error {
	for k, rep := range f.reports {
		if rep.ID != id {
			continue
		}
		if rep.NotifyStatus != from {
			return report.ErrStatusConflict
		}
		rep.NotifyStatus = to
		f.reports[k] = rep
		return nil
	}
	return report.ErrReportNotFound
}

var seoul, _ = time.LoadLocation("Asia/Seoul")

func saveReq(scheduledAt string) report.SaveRequest {
	course := "Algebra II"
	content := "Quadratic equations"
	return report.SaveRequest{
		StudentID:   "s-1",
		Date:        "2026-03-09",
		Course:      &course,
		Content:     &content,
		ScheduledAt: scheduledAt,
	}
}

func TestSaveCreatesPendingReport(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	resp, err := svc.Save(context.Background(), saveReq("2026-03-09T21:00:00+09:00"))
	require.NoError(t, err)

	assert.Equal(t, string(report.StatusPending), resp.NotifyStatus)
	assert.Equal(t, "2026-03-09", resp.Date)
}

func TestResaveResetsFailedToPending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	resp, err := svc.Save(context.Background(), saveReq("2026-03-09T21:00:00+09:00"))
	require.NoError(t, err)

	require.NoError(t, repo.TransitionStatus(context.Background(), resp.ID, report.StatusPending, report.StatusFailed))

	resp, err = svc.Save(context.Background(), saveReq("2026-03-09T22:00:00+09:00"))
	require.NoError(t, err)

	assert.Equal(t, string(report.StatusPending), resp.NotifyStatus)
}

func TestResaveOfSentReportKeepsScheduleAndStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	resp, err := svc.Save(context.Background(), saveReq("2026-03-09T21:00:00+09:00"))
	require.NoError(t, err)

	require.NoError(t, repo.TransitionStatus(context.Background(), resp.ID, report.StatusPending, report.StatusSent))

	resp, err = svc.Save(context.Background(), saveReq("2026-03-09T23:30:00+09:00"))
	require.NoError(t, err)

	assert.Equal(t, string(report.StatusSent), resp.NotifyStatus)

	orig, _ := time.Parse(time.RFC3339, "2026-03-09T21:00:00+09:00")
	got, err := time.Parse(time.RFC3339, resp.ScheduledAt)
	require.NoError(t, err)
	assert.True(t, got.Equal(orig), "schedule of a sent report must not move")
}

func TestSaveRacingDispatchKeepsSentTerminal(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	resp, err := svc.Save(context.Background(), saveReq("2026-03-09T21:00:00+09:00"))
	require.NoError(t, err)

	// a dispatch lands between the save's read and its upsert
	repo.afterGet = func() {
		repo.afterGet = nil
		repo.TransitionStatus(context.Background(), resp.ID, report.StatusPending, report.StatusSent)
	}

	resp, err = svc.Save(context.Background(), saveReq("2026-03-09T23:30:00+09:00"))
	require.NoError(t, err)

	assert.Equal(t, string(report.StatusSent), resp.NotifyStatus, "a concurrent send must not be re-armed")

	orig, _ := time.Parse(time.RFC3339, "2026-03-09T21:00:00+09:00")
	got, err := time.Parse(time.RFC3339, resp.ScheduledAt)
	require.NoError(t, err)
	assert.True(t, got.Equal(orig), "schedule of a sent report must not move")
}

func TestGetMissingReport(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	day := time.Date(2026, 3, 9, 0, 0, 0, 0, seoul)
	_, err := svc.Get(context.Background(), "s-1", day)
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestSaveValidatesRequest(t *testing.T) {
	repo := newFakeRepo()
	svc := NewReportService(repo, seoul)

	_, err := svc.Save(context.Background(), report.SaveRequest{
		StudentID:   "s-1",
		Date:        "03/09/2026",
		ScheduledAt: "tonight",
	})
	assert.Error(t, err)
}
