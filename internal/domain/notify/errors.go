package notify

import "errors"

// Dispatch domain errors
var (
	ErrTransportFailure = errors.New("notification transport failed")
	ErrNoReportsGiven   = errors.New("no report ids were given")
)
