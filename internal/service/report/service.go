package report

import (
	"context"
	"fmt"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/report"
)

type ReportServiceImpl struct {
	repo report.Repository
	loc  *time.Location
}

// Save implements report.Service. Saving is a full upsert by (student, date).
// An unsent report takes the new schedule and drops back to pending, which
// is also the only way a failed report becomes eligible again. A sent report
// is terminal: its text may still be amended, its schedule and status not.
func (s *ReportServiceImpl) Save(ctx context.Context, req report.SaveRequest) (report.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	day, _ := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)

	rep := report.DailyReport{
		StudentID:    req.StudentID,
		Date:         day,
		Course:       req.Course,
		Content:      req.Content,
		Homework:     req.Homework,
		Feedback:     req.Feedback,
		PlanNext:     req.PlanNext,
		ClassType:    req.ClassType,
		TeacherName:  req.TeacherName,
		ScheduledAt:  scheduledAt,
		NotifyStatus: report.StatusPending,
	}

	existing, err := s.repo.GetByStudentAndDate(ctx, req.StudentID, day)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to load existing report: %w", err)
	}
	if existing != nil && existing.NotifyStatus == report.StatusSent {
		rep.ScheduledAt = existing.ScheduledAt
		rep.NotifyStatus = report.StatusSent
	}

	saved, err := s.repo.Upsert(ctx, rep)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to save report: %w", err)
	}

	return mapReportToResponse(saved), nil
}

// Get implements report.Service.
func (s *ReportServiceImpl) Get(ctx context.Context, studentID string, date time.Time) (report.ReportResponse, error) {
	rep, err := s.repo.GetByStudentAndDate(ctx, studentID, date)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to get report: %w", err)
	}
	if rep == nil {
		return report.ReportResponse{}, report.ErrReportNotFound
	}

	return mapReportToResponse(*rep), nil
}

// mapReportToResponse converts a DailyReport entity to ReportResponse
func mapReportToResponse(rep report.DailyReport) report.ReportResponse {
	return report.ReportResponse{
		ID:           rep.ID,
		StudentID:    rep.StudentID,
		StudentName:  rep.StudentName,
		Date:         rep.Date.Format("2006-01-02"),
		Course:       rep.Course,
		Content:      rep.Content,
		Homework:     rep.Homework,
		Feedback:     rep.Feedback,
		PlanNext:     rep.PlanNext,
		ClassType:    rep.ClassType,
		TeacherName:  rep.TeacherName,
		ScheduledAt:  rep.ScheduledAt.Format(time.RFC3339),
		NotifyStatus: string(rep.NotifyStatus),
		UpdatedAt:    rep.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewReportService(repo report.Repository, loc *time.Location) report.Service {
	return &ReportServiceImpl{
		repo: repo,
		loc:  loc,
	}
}
