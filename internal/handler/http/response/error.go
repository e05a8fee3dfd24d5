package response

import (
	"errors"
	"net/http"

	"github.com/edubase/academy-backend-go/internal/domain/attendance"
	"github.com/edubase/academy-backend-go/internal/domain/auth"
	"github.com/edubase/academy-backend-go/internal/domain/notify"
	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/domain/report"
	"github.com/edubase/academy-backend-go/internal/domain/settings"
	"github.com/edubase/academy-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Student already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "Student has not checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Student already checked out today")
	case errors.Is(err, attendance.ErrAlreadyHasCheckIn):
		Conflict(w, "Record already has a check-in")
	case errors.Is(err, attendance.ErrInvalidTimeOrder):
		BadRequest(w, "Check-out must not be before check-in", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrConcurrentModification):
		Conflict(w, "Record was modified concurrently, retry the request")

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Daily report not found")
	case errors.Is(err, report.ErrStatusConflict):
		Conflict(w, "Report notify status changed concurrently")
	case errors.Is(err, report.ErrScheduleImmutable):
		Conflict(w, "Schedule of a sent report cannot change")

	// Reconciliation domain errors
	case errors.Is(err, reconcile.ErrNoReportToFixFrom):
		BadRequest(w, "No daily report to derive a check-in from", nil)

	// Notify domain errors
	case errors.Is(err, notify.ErrNoReportsGiven):
		BadRequest(w, "report_ids must not be empty", nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrUnknownSweep):
		NotFound(w, "Unknown sweep name")
	case errors.Is(err, settings.ErrSettingNotFound):
		NotFound(w, "Setting not found")
	case errors.Is(err, settings.ErrConfigUnavailable):
		ServiceUnavailable(w, "Settings store unavailable, try again later")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
