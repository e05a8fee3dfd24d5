package notify

// Outcome is what happened to one report during dispatch.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// SkipReason explains a skipped outcome.
type SkipReason string

const (
	SkipAlreadyTerminal SkipReason = "alreadyTerminal"
	SkipLostRace        SkipReason = "lostRace"
)

// SendResult is the outcome of dispatching a single report. A transport
// failure lands in Err and Outcome failed; it is data, not a returned error,
// so bulk callers can keep going.
type SendResult struct {
	ReportID   string     `json:"report_id"`
	Outcome    Outcome    `json:"outcome"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
	Err        error      `json:"-"`
	ErrMessage string     `json:"error,omitempty"`
}

// BatchResult groups per-report outcomes of a bulk dispatch. Order within
// each list follows the input order.
type BatchResult struct {
	Sent    []string `json:"sent"`
	Failed  []string `json:"failed"`
	Skipped []string `json:"skipped"`
}

type SendSelectedRequest struct {
	ReportIDs []string `json:"report_ids"`
}
