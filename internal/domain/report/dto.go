package report

import (
	"time"

	"github.com/edubase/academy-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY REPORT DTOs
// ========================================

// SaveRequest upserts the report for (student_id, date). Text fields left nil
// are cleared; this is a full re-save, matching how the staff editor works.
type SaveRequest struct {
	StudentID   string  `json:"-"`
	Date        string  `json:"-"`
	Course      *string `json:"course"`
	Content     *string `json:"content"`
	Homework    *string `json:"homework"`
	Feedback    *string `json:"feedback"`
	PlanNext    *string `json:"plan_next"`
	ClassType   *string `json:"class_type"`
	TeacherName *string `json:"teacher_name"`
	ScheduledAt string  `json:"scheduled_at"`
}

func (r *SaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StudentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "student_id",
			Message: "student_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be formatted as YYYY-MM-DD",
		})
	}

	if validator.IsEmpty(r.ScheduledAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_at",
			Message: "scheduled_at is required",
		})
	} else if _, err := time.Parse(time.RFC3339, r.ScheduledAt); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_at",
			Message: "scheduled_at must be an RFC 3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReportResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	StudentName  *string `json:"student_name,omitempty"`
	Date         string  `json:"date"`
	Course       *string `json:"course"`
	Content      *string `json:"content"`
	Homework     *string `json:"homework"`
	Feedback     *string `json:"feedback"`
	PlanNext     *string `json:"plan_next"`
	ClassType    *string `json:"class_type"`
	TeacherName  *string `json:"teacher_name"`
	ScheduledAt  string  `json:"scheduled_at"`
	NotifyStatus string  `json:"notify_status"`
	UpdatedAt    string  `json:"updated_at"`
}
