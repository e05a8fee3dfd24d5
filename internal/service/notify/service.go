package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edubase/academy-backend-go/internal/domain/notify"
	"github.com/edubase/academy-backend-go/internal/domain/report"
	"github.com/edubase/academy-backend-go/internal/pkg/messenger"
)

type DispatcherImpl struct {
	reports   report.Repository
	transport messenger.Transport
}

// SendOne implements notify.Service.
func (d *DispatcherImpl) SendOne(ctx context.Context, reportID string) (notify.SendResult, error) {
	rep, err := d.reports.GetByID(ctx, reportID)
	if err != nil {
		return notify.SendResult{}, err
	}

	if rep.NotifyStatus != report.StatusPending {
		return notify.SendResult{
			ReportID:   reportID,
			Outcome:    notify.OutcomeSkipped,
			SkipReason: notify.SkipAlreadyTerminal,
		}, nil
	}

	return d.dispatch(ctx, rep), nil
}

// SendSelected implements notify.Service. Each id is processed on its own;
// a failing report is recorded and the loop moves on.
func (d *DispatcherImpl) SendSelected(ctx context.Context, reportIDs []string) (notify.BatchResult, error) {
	if len(reportIDs) == 0 {
		return notify.BatchResult{}, notify.ErrNoReportsGiven
	}

	result := notify.BatchResult{
		Sent:    []string{},
		Failed:  []string{},
		Skipped: []string{},
	}

	for _, id := range reportIDs {
		res, err := d.SendOne(ctx, id)
		if err != nil {
			slog.Warn("Skipping unloadable report in batch send", "report_id", id, "error", err)
			result.Skipped = append(result.Skipped, id)
			continue
		}

		switch res.Outcome {
		case notify.OutcomeSent:
			result.Sent = append(result.Sent, id)
		case notify.OutcomeFailed:
			result.Failed = append(result.Failed, id)
		default:
			result.Skipped = append(result.Skipped, id)
		}
	}

	return result, nil
}

// dispatch performs the external send for a pending report and advances its
// status. Transport failure is data in the result, never a returned error.
func (d *DispatcherImpl) dispatch(ctx context.Context, rep report.DailyReport) notify.SendResult {
	msg, err := buildMessage(rep)
	if err == nil {
		err = d.transport.Send(ctx, msg)
	}

	if err != nil {
		sendErr := fmt.Errorf("%w: %v", notify.ErrTransportFailure, err)
		if trErr := d.reports.TransitionStatus(ctx, rep.ID, report.StatusPending, report.StatusFailed); trErr != nil {
			slog.Error("Failed to mark report as failed", "report_id", rep.ID, "error", trErr)
		}
		return notify.SendResult{
			ReportID:   rep.ID,
			Outcome:    notify.OutcomeFailed,
			Err:        sendErr,
			ErrMessage: sendErr.Error(),
		}
	}

	if err := d.reports.TransitionStatus(ctx, rep.ID, report.StatusPending, report.StatusSent); err != nil {
		if errors.Is(err, report.ErrStatusConflict) {
			// another dispatcher moved it first; the send was duplicated but
			// the state machine stays consistent
			return notify.SendResult{
				ReportID:   rep.ID,
				Outcome:    notify.OutcomeSkipped,
				SkipReason: notify.SkipLostRace,
			}
		}
		slog.Error("Failed to mark report as sent", "report_id", rep.ID, "error", err)
	}

	return notify.SendResult{
		ReportID: rep.ID,
		Outcome:  notify.OutcomeSent,
	}
}

// buildMessage renders the guardian notification for a report.
func buildMessage(rep report.DailyReport) (messenger.Message, error) {
	if rep.GuardianEmail == nil || *rep.GuardianEmail == "" {
		return messenger.Message{}, fmt.Errorf("report %s has no guardian contact", rep.ID)
	}

	studentName := rep.StudentID
	if rep.StudentName != nil {
		studentName = *rep.StudentName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily report for %s (%s)\n\n", studentName, rep.Date.Format("2006-01-02"))
	writeSection(&b, "Course", rep.Course)
	writeSection(&b, "Covered", rep.Content)
	writeSection(&b, "Homework", rep.Homework)
	writeSection(&b, "Feedback", rep.Feedback)
	writeSection(&b, "Next session", rep.PlanNext)
	if rep.TeacherName != nil {
		fmt.Fprintf(&b, "\n- %s\n", *rep.TeacherName)
	}

	return messenger.Message{
		To:      *rep.GuardianEmail,
		Subject: fmt.Sprintf("Daily report %s - %s", rep.Date.Format("2006-01-02"), studentName),
		Body:    b.String(),
	}, nil
}

func writeSection(b *strings.Builder, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, *value)
}

func NewDispatcher(reports report.Repository, transport messenger.Transport) notify.Service {
	return &DispatcherImpl{
		reports:   reports,
		transport: transport,
	}
}
