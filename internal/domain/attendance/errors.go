package attendance

import "errors"

// Attendance domain errors
var (
	// Kiosk errors
	ErrAlreadyCheckedIn  = errors.New("student has already checked in today")
	ErrNotCheckedIn      = errors.New("student has not checked in yet")
	ErrAlreadyCheckedOut = errors.New("student has already checked out today")
	ErrInvalidTimeOrder  = errors.New("checkout time is before check-in time")

	// Correction errors
	ErrAlreadyHasCheckIn = errors.New("record already has a real check-in")

	// General errors
	ErrRecordNotFound         = errors.New("attendance record not found")
	ErrConcurrentModification = errors.New("attendance record was modified concurrently")
)
