package attendance

import "time"

// StudyMinutes derives elapsed whole minutes from a check-in/out pair.
// Returns nil when either bound is missing. A checkout recorded before the
// check-in (kiosk clock skew, events logged across midnight) is clamped to
// zero and reported through the second return so callers can log a
// data-quality warning instead of failing.
func StudyMinutes(checkIn, checkOut *time.Time) (*int, bool) {
	if checkIn == nil || checkOut == nil {
		return nil, false
	}

	mins := int(checkOut.Sub(*checkIn).Minutes())
	if mins < 0 {
		zero := 0
		return &zero, true
	}
	return &mins, false
}
