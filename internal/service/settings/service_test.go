package settings

import (
	"context"
	"testing"
	"time"

	"github.com/edubase/academy-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	values  map[string]string
	getErr  error
	setErr  error
	written map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{values: make(map[string]string), written: make(map[string]string)}
}

func (f *fakeRepo) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", settings.ErrSettingNotFound
	}
	return v, nil
}

func (f *fakeRepo) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := f.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeRepo) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.written[key] = value
	return nil
}

func TestSweepConfigDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo, "Asia/Seoul")

	cfg, err := svc.SweepConfig(context.Background(), settings.SweepAutoLeave)
	require.NoError(t, err)

	assert.False(t, cfg.Enabled, "sweeps ship disabled")
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, defaultCutoff, cfg.Cutoff)
	assert.Equal(t, defaultRateLimit, cfg.RateLimitPerRun)
	assert.NotEmpty(t, cfg.Cron)
	assert.Nil(t, cfg.LastRunAt)
}

func TestSweepConfigReadsStoredValues(t *testing.T) {
	repo := newFakeRepo()
	repo.values[settings.KeyAutoLeaveEnabled] = "true"
	repo.values[settings.KeyAutoLeaveCron] = "15 23 * * *"
	repo.values[settings.KeyAutoLeaveCutoff] = "21:30"
	repo.values[settings.KeyDryRun] = "true"
	repo.values[settings.KeyRateLimitPerRun] = "25"
	repo.values[settings.KeyLastAutoLeaveRunAt] = "2026-03-08T23:05:00+09:00"

	svc := NewSettingsService(repo, "Asia/Seoul")
	cfg, err := svc.SweepConfig(context.Background(), settings.SweepAutoLeave)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "15 23 * * *", cfg.Cron)
	assert.Equal(t, "21:30", cfg.Cutoff)
	assert.Equal(t, 25, cfg.RateLimitPerRun)
	require.NotNil(t, cfg.LastRunAt)
}

func TestSweepConfigWrapsStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = assert.AnError

	svc := NewSettingsService(repo, "Asia/Seoul")
	_, err := svc.SweepConfig(context.Background(), settings.SweepAutoLeave)
	assert.ErrorIs(t, err, settings.ErrConfigUnavailable)
}

func TestSweepConfigUnknownName(t *testing.T) {
	svc := NewSettingsService(newFakeRepo(), "Asia/Seoul")

	_, err := svc.SweepConfig(context.Background(), settings.SweepName("nope"))
	assert.ErrorIs(t, err, settings.ErrUnknownSweep)
}

func TestRecordRunWritesMarker(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo, "Asia/Seoul")

	at := time.Date(2026, 3, 9, 23, 5, 0, 0, time.UTC)
	require.NoError(t, svc.RecordRun(context.Background(), settings.SweepDailyReport, at))

	assert.Equal(t, at.Format(time.RFC3339), repo.written[settings.KeyLastAutoReportRunAt])
}

func TestUpdateSweepWritesOnlySuppliedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewSettingsService(repo, "Asia/Seoul")

	enabled := true
	rate := 50
	cfg, err := svc.UpdateSweep(context.Background(), settings.UpdateSweepRequest{
		Name:            settings.SweepAutoLeave,
		Enabled:         &enabled,
		RateLimitPerRun: &rate,
	})
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.RateLimitPerRun)
	assert.Contains(t, repo.written, settings.KeyAutoLeaveEnabled)
	assert.Contains(t, repo.written, settings.KeyRateLimitPerRun)
	assert.NotContains(t, repo.written, settings.KeyAutoLeaveCron)
	assert.NotContains(t, repo.written, settings.KeyAutoLeaveCutoff)
}

func TestUpdateSweepRejectsBadInput(t *testing.T) {
	svc := NewSettingsService(newFakeRepo(), "Asia/Seoul")

	zero := 0
	_, err := svc.UpdateSweep(context.Background(), settings.UpdateSweepRequest{
		Name:            settings.SweepAutoLeave,
		RateLimitPerRun: &zero,
	})
	assert.Error(t, err)

	tz := "Mars/Olympus"
	_, err = svc.UpdateSweep(context.Background(), settings.UpdateSweepRequest{
		Name:     settings.SweepDailyReport,
		Timezone: &tz,
	})
	assert.Error(t, err)
}

func TestListSweepsReturnsBoth(t *testing.T) {
	svc := NewSettingsService(newFakeRepo(), "Asia/Seoul")

	configs, err := svc.ListSweeps(context.Background())
	require.NoError(t, err)

	require.Len(t, configs, 2)
	assert.Equal(t, settings.SweepAutoLeave, configs[0].Name)
	assert.Equal(t, settings.SweepDailyReport, configs[1].Name)
}
