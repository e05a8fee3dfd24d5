package settings

import "time"

// Setting is one row of the generic key/value settings store. The store is
// owned by the admin panel; this subsystem reads sweep flags from it and
// writes back last-run markers, nothing else.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// SweepName identifies one of the two scheduled sweeps.
type SweepName string

const (
	SweepAutoLeave   SweepName = "autoLeave"
	SweepDailyReport SweepName = "dailyReport"
)

// Well-known settings keys.
const (
	KeyAutoLeaveEnabled    = "autoLeaveEnabled"
	KeyAutoLeaveCron       = "autoLeaveCron"
	KeyAutoLeaveCutoff     = "autoLeaveCutoff"
	KeyDailyReportEnabled  = "dailyReportEnabled"
	KeyDailyReportCron     = "dailyReportCron"
	KeyDryRun              = "dryRun"
	KeyTimezone            = "timezone"
	KeyRateLimitPerRun     = "rateLimitPerRun"
	KeyLastAutoLeaveRunAt  = "lastAutoLeaveRunAt"
	KeyLastAutoReportRunAt = "lastAutoReportRunAt"
)

// SweepConfig is the typed view of one sweep's settings.
type SweepConfig struct {
	Name            SweepName  `json:"name"`
	Enabled         bool       `json:"enabled"`
	Cron            string     `json:"cron"`
	DryRun          bool       `json:"dry_run"`
	Timezone        string     `json:"timezone"`
	RateLimitPerRun int        `json:"rate_limit_per_run"`
	Cutoff          string     `json:"cutoff,omitempty"` // auto-leave only, "HH:MM"
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
}
