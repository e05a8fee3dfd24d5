package notify

import (
	"context"
)

// Service dispatches daily reports to guardians and advances their notify
// status. Partial-failure isolation is the core contract: one bad report
// never aborts the rest of a batch.
type Service interface {
	// SendOne dispatches a single report. A report that is not pending comes
	// back skipped; a transport failure comes back failed with the error in
	// the result. The returned error covers lookup problems only.
	SendOne(ctx context.Context, reportID string) (SendResult, error)

	// SendSelected dispatches each id independently, in input order
	SendSelected(ctx context.Context, reportIDs []string) (BatchResult, error)
}
