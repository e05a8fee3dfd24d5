package report

import "errors"

// Report domain errors
var (
	ErrReportNotFound    = errors.New("daily report not found")
	ErrInvalidStatus     = errors.New("invalid notify status value")
	ErrStatusConflict    = errors.New("report status changed concurrently")
	ErrScheduleImmutable = errors.New("scheduled_at cannot change after the report was sent")
)
