package settings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/settings"
)

// Defaults applied when a key has never been written. Sweeps ship disabled;
// flipping them on is an explicit admin action.
const (
	defaultAutoLeaveCron   = "5 23 * * *"
	defaultDailyReportCron = "0 21 * * *"
	defaultCutoff          = "22:00"
	defaultRateLimit       = 100
)

type SettingsServiceImpl struct {
	repo      settings.Repository
	defaultTZ string
}

// SweepConfig implements settings.Service.
func (s *SettingsServiceImpl) SweepConfig(ctx context.Context, name settings.SweepName) (settings.SweepConfig, error) {
	keys, err := sweepKeys(name)
	if err != nil {
		return settings.SweepConfig{}, err
	}

	values, err := s.repo.GetMany(ctx, []string{
		keys.enabled, keys.cron, keys.lastRun,
		settings.KeyDryRun, settings.KeyTimezone, settings.KeyRateLimitPerRun,
		settings.KeyAutoLeaveCutoff,
	})
	if err != nil {
		return settings.SweepConfig{}, fmt.Errorf("%w: %v", settings.ErrConfigUnavailable, err)
	}

	cfg := settings.SweepConfig{
		Name:            name,
		Enabled:         parseBool(values[keys.enabled], false),
		Cron:            valueOr(values[keys.cron], keys.defaultCron),
		DryRun:          parseBool(values[settings.KeyDryRun], false),
		Timezone:        valueOr(values[settings.KeyTimezone], s.defaultTZ),
		RateLimitPerRun: parseInt(values[settings.KeyRateLimitPerRun], defaultRateLimit),
	}
	if name == settings.SweepAutoLeave {
		cfg.Cutoff = valueOr(values[settings.KeyAutoLeaveCutoff], defaultCutoff)
	}
	if raw, ok := values[keys.lastRun]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			cfg.LastRunAt = &t
		}
	}

	return cfg, nil
}

// RecordRun implements settings.Service.
func (s *SettingsServiceImpl) RecordRun(ctx context.Context, name settings.SweepName, at time.Time) error {
	keys, err := sweepKeys(name)
	if err != nil {
		return err
	}

	if err := s.repo.Set(ctx, keys.lastRun, at.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%w: %v", settings.ErrConfigUnavailable, err)
	}
	return nil
}

// ListSweeps implements settings.Service.
func (s *SettingsServiceImpl) ListSweeps(ctx context.Context) ([]settings.SweepConfig, error) {
	configs := make([]settings.SweepConfig, 0, 2)
	for _, name := range []settings.SweepName{settings.SweepAutoLeave, settings.SweepDailyReport} {
		cfg, err := s.SweepConfig(ctx, name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// UpdateSweep implements settings.Service.
func (s *SettingsServiceImpl) UpdateSweep(ctx context.Context, req settings.UpdateSweepRequest) (settings.SweepConfig, error) {
	if err := req.Validate(); err != nil {
		return settings.SweepConfig{}, err
	}

	keys, err := sweepKeys(req.Name)
	if err != nil {
		return settings.SweepConfig{}, err
	}

	writes := map[string]*string{}
	if req.Enabled != nil {
		writes[keys.enabled] = ptr(strconv.FormatBool(*req.Enabled))
	}
	if req.Cron != nil {
		writes[keys.cron] = req.Cron
	}
	if req.DryRun != nil {
		writes[settings.KeyDryRun] = ptr(strconv.FormatBool(*req.DryRun))
	}
	if req.Timezone != nil {
		writes[settings.KeyTimezone] = req.Timezone
	}
	if req.RateLimitPerRun != nil {
		writes[settings.KeyRateLimitPerRun] = ptr(strconv.Itoa(*req.RateLimitPerRun))
	}
	if req.Cutoff != nil && req.Name == settings.SweepAutoLeave {
		writes[settings.KeyAutoLeaveCutoff] = req.Cutoff
	}

	for key, value := range writes {
		if err := s.repo.Set(ctx, key, *value); err != nil {
			return settings.SweepConfig{}, fmt.Errorf("%w: %v", settings.ErrConfigUnavailable, err)
		}
	}

	return s.SweepConfig(ctx, req.Name)
}

type sweepKeySet struct {
	enabled     string
	cron        string
	lastRun     string
	defaultCron string
}

func sweepKeys(name settings.SweepName) (sweepKeySet, error) {
	switch name {
	case settings.SweepAutoLeave:
		return sweepKeySet{
			enabled:     settings.KeyAutoLeaveEnabled,
			cron:        settings.KeyAutoLeaveCron,
			lastRun:     settings.KeyLastAutoLeaveRunAt,
			defaultCron: defaultAutoLeaveCron,
		}, nil
	case settings.SweepDailyReport:
		return sweepKeySet{
			enabled:     settings.KeyDailyReportEnabled,
			cron:        settings.KeyDailyReportCron,
			lastRun:     settings.KeyLastAutoReportRunAt,
			defaultCron: defaultDailyReportCron,
		}, nil
	}
	return sweepKeySet{}, settings.ErrUnknownSweep
}

func parseBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func valueOr(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	return raw
}

func ptr(s string) *string {
	return &s
}

func NewSettingsService(repo settings.Repository, defaultTZ string) settings.Service {
	return &SettingsServiceImpl{
		repo:      repo,
		defaultTZ: defaultTZ,
	}
}
