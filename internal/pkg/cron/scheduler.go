package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/reconcile"
	"github.com/edubase/academy-backend-go/internal/domain/settings"
	"github.com/edubase/academy-backend-go/internal/pkg/clock"
	"github.com/google/uuid"
)

// How often a sweep rechecks its settings while disabled or misconfigured.
const defaultPollInterval = time.Minute

// SweepFunc executes one sweep pass as of the given instant.
type SweepFunc func(ctx context.Context, asOf time.Time, cfg settings.SweepConfig) (reconcile.SweepResult, error)

// Runner drives the registered sweeps. Each sweep runs in its own goroutine
// and re-reads its settings on every wakeup, so admin changes to the cron
// expression, enabled flag or dry-run flag take effect without a restart.
type Runner struct {
	config settings.Service
	sched  Schedule
	clk    clock.Clock
	poll   time.Duration

	sweeps map[settings.SweepName]SweepFunc
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRunner creates a sweep runner.
func NewRunner(config settings.Service, sched Schedule, clk clock.Clock) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		config: config,
		sched:  sched,
		clk:    clk,
		poll:   defaultPollInterval,
		sweeps: make(map[settings.SweepName]SweepFunc),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddSweep registers a sweep under its settings name.
func (r *Runner) AddSweep(name settings.SweepName, fn SweepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweeps[name] = fn
	slog.Info("Sweep registered", "name", name)
}

// Start begins running all registered sweeps.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, fn := range r.sweeps {
		r.wg.Add(1)
		go r.runLoop(name, fn)
	}

	slog.Info("Sweep runner started", "sweep_count", len(r.sweeps))
}

// Stop gracefully stops all sweeps.
func (r *Runner) Stop() {
	slog.Info("Stopping sweep runner...")
	r.cancel()
	r.wg.Wait()
	slog.Info("Sweep runner stopped")
}

func (r *Runner) runLoop(name settings.SweepName, fn SweepFunc) {
	defer r.wg.Done()

	for {
		cfg, err := r.config.SweepConfig(r.ctx, name)
		if err != nil {
			slog.Error("Sweep config read failed", "name", name, "error", err)
			if !r.wait(r.poll) {
				return
			}
			continue
		}

		if !cfg.Enabled {
			if !r.wait(r.poll) {
				return
			}
			continue
		}

		next, err := r.sched.NextFireTime(cfg.Cron, cfg.Timezone, r.clk.Now())
		if err != nil {
			slog.Error("Sweep schedule invalid", "name", name, "cron", cfg.Cron, "error", err)
			if !r.wait(r.poll) {
				return
			}
			continue
		}

		if !r.wait(next.Sub(r.clk.Now())) {
			slog.Info("Sweep stopping", "name", name)
			return
		}

		r.execute(name, fn)
	}
}

// wait sleeps for d or until the runner stops; false means stop.
func (r *Runner) wait(d time.Duration) bool {
	if d <= 0 {
		d = time.Millisecond
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-r.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// execute runs one scheduled pass. Settings are read again at fire time so
// the pass sees flags as they are now, not as they were when it was queued.
func (r *Runner) execute(name settings.SweepName, fn SweepFunc) {
	runID := uuid.NewString()

	cfg, err := r.config.SweepConfig(r.ctx, name)
	if err != nil {
		slog.Error("Sweep config read failed at fire time", "name", name, "run_id", runID, "error", err)
		return
	}
	if !cfg.Enabled {
		slog.Info("Sweep disabled between queue and fire, skipping", "name", name, "run_id", runID)
		return
	}

	start := r.clk.Now()
	result, err := fn(r.ctx, start, cfg)
	if err != nil {
		slog.Error("Sweep failed", "name", name, "run_id", runID, "error", err, "duration", time.Since(start))
		return
	}

	slog.Info("Sweep completed",
		"name", name,
		"run_id", runID,
		"dry_run", result.DryRun,
		"candidates", len(result.Candidates),
		"processed", result.Processed,
		"duration", time.Since(start))

	if !result.DryRun {
		if err := r.config.RecordRun(r.ctx, name, start); err != nil {
			slog.Error("Sweep last-run write failed", "name", name, "error", err)
		}
	}
}

// RunNow executes one sweep immediately with optional overrides. It goes
// through the same function a scheduled tick uses.
func (r *Runner) RunNow(ctx context.Context, name settings.SweepName, asOf *time.Time, dryRun *bool) (reconcile.SweepResult, error) {
	r.mu.Lock()
	fn, ok := r.sweeps[name]
	r.mu.Unlock()
	if !ok {
		return reconcile.SweepResult{}, settings.ErrUnknownSweep
	}

	cfg, err := r.config.SweepConfig(ctx, name)
	if err != nil {
		return reconcile.SweepResult{}, err
	}
	if dryRun != nil {
		cfg.DryRun = *dryRun
	}

	at := r.clk.Now()
	if asOf != nil {
		at = *asOf
	}

	result, err := fn(ctx, at, cfg)
	if err != nil {
		return reconcile.SweepResult{}, err
	}

	if !result.DryRun {
		if err := r.config.RecordRun(ctx, name, at); err != nil {
			slog.Error("Sweep last-run write failed", "name", name, "error", err)
		}
	}

	return result, nil
}
