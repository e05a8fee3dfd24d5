package reconcile

import "errors"

// Reconciliation domain errors
var (
	ErrNoReportToFixFrom = errors.New("no daily report exists to fix a check-in from")
)
