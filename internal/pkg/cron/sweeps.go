package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/domain/settings"
)

// SweepJobs binds the reconciliation sweeps to the runner.
type SweepJobs struct {
	reconciler reconcile.Service
}

func NewSweepJobs(reconciler reconcile.Service) *SweepJobs {
	return &SweepJobs{reconciler: reconciler}
}

func (j *SweepJobs) RegisterSweeps(runner *Runner) {
	runner.AddSweep(settings.SweepAutoLeave, j.AutoLeave)
	runner.AddSweep(settings.SweepDailyReport, j.DailyReport)
}

// AutoLeave closes the day's still-open attendance records at the configured
// cutoff time.
func (j *SweepJobs) AutoLeave(ctx context.Context, asOf time.Time, cfg settings.SweepConfig) (reconcile.SweepResult, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return reconcile.SweepResult{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	cutoffClock, err := time.Parse("15:04", cfg.Cutoff)
	if err != nil {
		return reconcile.SweepResult{}, fmt.Errorf("invalid cutoff %q: %w", cfg.Cutoff, err)
	}

	local := asOf.In(loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(),
		cutoffClock.Hour(), cutoffClock.Minute(), 0, 0, loc)

	return j.reconciler.RunAutoLeaveSweep(ctx, asOf, cutoff, reconcile.SweepOptions{
		DryRun: cfg.DryRun,
		Limit:  cfg.RateLimitPerRun,
	})
}

// DailyReport dispatches guardian notifications for reports due by asOf.
func (j *SweepJobs) DailyReport(ctx context.Context, asOf time.Time, cfg settings.SweepConfig) (reconcile.SweepResult, error) {
	return j.reconciler.RunReportSweep(ctx, asOf, reconcile.SweepOptions{
		DryRun: cfg.DryRun,
		Limit:  cfg.RateLimitPerRun,
	})
}
