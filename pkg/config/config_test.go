package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.Analytics.TopIndicators)
	assert.InDelta(t, 2.0, cfg.Analytics.ImprovementThreshold, 0.0001)
	assert.Equal(t, 6, cfg.Analytics.ForecastWindow)
	assert.Equal(t, 10, cfg.Dashboard.TopPerformers)
	assert.Equal(t, "last_30_days", cfg.Dashboard.DefaultTimePeriod)
	assert.Equal(t, "settings", cfg.Settings.KeyPrefix)
	assert.Equal(t, time.Duration(0), cfg.Settings.TTL)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ANALYTICS_FORECAST_WINDOW", "4")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("SETTINGS_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Analytics.ForecastWindow)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 90*time.Minute, cfg.Settings.TTL)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
