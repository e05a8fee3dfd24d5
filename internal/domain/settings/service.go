package settings

import (
	"context"
	"time"

	"github.com/edubase/academy-backend-go/internal/pkg/validator"
)

// Service is the ConfigProvider for the sweep runner and the read/write
// surface the admin panel uses for sweep settings.
type Service interface {
	// SweepConfig reads the typed settings for one sweep. Store failures are
	// wrapped in ErrConfigUnavailable so a scheduled tick can skip and retry.
	SweepConfig(ctx context.Context, name SweepName) (SweepConfig, error)

	// RecordRun writes back the sweep's last-run marker
	RecordRun(ctx context.Context, name SweepName, at time.Time) error

	// ListSweeps returns both sweeps' configs for the admin panel
	ListSweeps(ctx context.Context) ([]SweepConfig, error)

	// UpdateSweep writes the supplied fields of one sweep's settings
	UpdateSweep(ctx context.Context, req UpdateSweepRequest) (SweepConfig, error)
}

// UpdateSweepRequest carries a partial settings update; nil fields are kept.
type UpdateSweepRequest struct {
	Name            SweepName `json:"-"`
	Enabled         *bool     `json:"enabled"`
	Cron            *string   `json:"cron"`
	DryRun          *bool     `json:"dry_run"`
	Timezone        *string   `json:"timezone"`
	RateLimitPerRun *int      `json:"rate_limit_per_run"`
	Cutoff          *string   `json:"cutoff"`
}

func (r *UpdateSweepRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != SweepAutoLeave && r.Name != SweepDailyReport {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be autoLeave or dailyReport",
		})
	}

	if r.RateLimitPerRun != nil && *r.RateLimitPerRun < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "rate_limit_per_run",
			Message: "rate_limit_per_run must be at least 1",
		})
	}

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA zone name",
			})
		}
	}

	if r.Cutoff != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.Cutoff); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "cutoff",
				Message: "cutoff must be formatted as HH:MM",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
