package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/report"
	"github.com/edubase/academy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepository struct {
	db *database.DB
}

// GetByStudentAndDate implements report.Repository.
func (r *reportRepository) GetByStudentAndDate(ctx context.Context, studentID string, date time.Time) (*report.DailyReport, error) {
	query := `
		SELECT id, student_id, date, course, content, homework, feedback,
			   plan_next, class_type, teacher_name, scheduled_at, notify_status,
			   created_at, updated_at
		FROM daily_reports
		WHERE student_id = $1
		  AND date = $2
		LIMIT 1
	`

	var rep report.DailyReport
	err := r.db.QueryRow(ctx, query, studentID, date).Scan(
		&rep.ID, &rep.StudentID, &rep.Date, &rep.Course, &rep.Content,
		&rep.Homework, &rep.Feedback, &rep.PlanNext, &rep.ClassType,
		&rep.TeacherName, &rep.ScheduledAt, &rep.NotifyStatus,
		&rep.CreatedAt, &rep.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no report for this student and day
		}
		return nil, fmt.Errorf("failed to get daily report: %w", err)
	}

	return &rep, nil
}

// GetByID implements report.Repository. Joins the student row so the
// dispatcher has the guardian contact and display name in one read.
func (r *reportRepository) GetByID(ctx context.Context, id string) (report.DailyReport, error) {
	query := `
		SELECT
			d.id, d.student_id, d.date, d.course, d.content, d.homework,
			d.feedback, d.plan_next, d.class_type, d.teacher_name,
			d.scheduled_at, d.notify_status, d.created_at, d.updated_at,
			s.name AS student_name,
			s.guardian_email AS guardian_email
		FROM daily_reports d
		LEFT JOIN students s ON s.id = d.student_id
		WHERE d.id = $1
	`

	var rep report.DailyReport
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.StudentID, &rep.Date, &rep.Course, &rep.Content,
		&rep.Homework, &rep.Feedback, &rep.PlanNext, &rep.ClassType,
		&rep.TeacherName, &rep.ScheduledAt, &rep.NotifyStatus,
		&rep.CreatedAt, &rep.UpdatedAt,
		&rep.StudentName, &rep.GuardianEmail,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return report.DailyReport{}, report.ErrReportNotFound
		}
		return report.DailyReport{}, fmt.Errorf("failed to get daily report by ID: %w", err)
	}

	return rep, nil
}

// Upsert implements report.Repository. The CASE guards keep a sent row's
// schedule and status in place even when a concurrent dispatch lands between
// the caller's read and this write.
func (r *reportRepository) Upsert(ctx context.Context, rep report.DailyReport) (report.DailyReport, error) {
	query := `
		INSERT INTO daily_reports (
			student_id, date, course, content, homework, feedback, plan_next,
			class_type, teacher_name, scheduled_at, notify_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (student_id, date) DO UPDATE SET
			course = EXCLUDED.course,
			content = EXCLUDED.content,
			homework = EXCLUDED.homework,
			feedback = EXCLUDED.feedback,
			plan_next = EXCLUDED.plan_next,
			class_type = EXCLUDED.class_type,
			teacher_name = EXCLUDED.teacher_name,
			scheduled_at = CASE WHEN daily_reports.notify_status = 'sent'
				THEN daily_reports.scheduled_at ELSE EXCLUDED.scheduled_at END,
			notify_status = CASE WHEN daily_reports.notify_status = 'sent'
				THEN daily_reports.notify_status ELSE EXCLUDED.notify_status END,
			updated_at = NOW()
		RETURNING id, scheduled_at, notify_status, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rep.StudentID,
		rep.Date,
		rep.Course,
		rep.Content,
		rep.Homework,
		rep.Feedback,
		rep.PlanNext,
		rep.ClassType,
		rep.TeacherName,
		rep.ScheduledAt,
		rep.NotifyStatus,
	).Scan(&rep.ID, &rep.ScheduledAt, &rep.NotifyStatus, &rep.CreatedAt, &rep.UpdatedAt)

	if err != nil {
		return report.DailyReport{}, fmt.Errorf("failed to upsert daily report: %w", err)
	}

	return rep, nil
}

// ListPendingDue implements report.Repository.
func (r *reportRepository) ListPendingDue(ctx context.Context, asOf time.Time, limit int) ([]report.DailyReport, error) {
	query := `
		SELECT
			d.id, d.student_id, d.date, d.course, d.content, d.homework,
			d.feedback, d.plan_next, d.class_type, d.teacher_name,
			d.scheduled_at, d.notify_status, d.created_at, d.updated_at,
			s.name AS student_name,
			s.guardian_email AS guardian_email
		FROM daily_reports d
		LEFT JOIN students s ON s.id = d.student_id
		WHERE d.notify_status = $1
		  AND d.scheduled_at <= $2
		ORDER BY d.student_id ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, report.StatusPending, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reports: %w", err)
	}
	defer rows.Close()

	var reports []report.DailyReport
	for rows.Next() {
		var rep report.DailyReport
		err := rows.Scan(
			&rep.ID, &rep.StudentID, &rep.Date, &rep.Course, &rep.Content,
			&rep.Homework, &rep.Feedback, &rep.PlanNext, &rep.ClassType,
			&rep.TeacherName, &rep.ScheduledAt, &rep.NotifyStatus,
			&rep.CreatedAt, &rep.UpdatedAt,
			&rep.StudentName, &rep.GuardianEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending report: %w", err)
		}
		reports = append(reports, rep)
	}

	return reports, nil
}

// TransitionStatus implements report.Repository. The conditional UPDATE is
// the atomic step of the notify state machine; losing the race is reported,
// never papered over.
func (r *reportRepository) TransitionStatus(ctx context.Context, id string, from, to report.NotifyStatus) error {
	query := `
		UPDATE daily_reports
		SET notify_status = $1, updated_at = NOW()
		WHERE id = $2
		  AND notify_status = $3
	`

	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition report status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM daily_reports WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check report existence: %w", err)
		}
		if !exists {
			return report.ErrReportNotFound
		}
		return report.ErrStatusConflict
	}

	return nil
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}
