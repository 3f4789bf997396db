package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LINE_TOKEN", "")
	t.Setenv("LINE_USER_ID", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.InDelta(t, 10, cfg.Contract.Multiplier, 1e-9)
	assert.Equal(t, 17000, cfg.Contract.InitialMargin)
	assert.Equal(t, 13000, cfg.Contract.MaintenanceMargin)
	assert.Equal(t, 3, cfg.Thresholds.RolloverWarnDays)
	assert.InDelta(t, 120, cfg.Thresholds.MarginRatioWarn, 1e-9)
	assert.InDelta(t, -2.5, cfg.Thresholds.CrashTWPct, 1e-9)
	assert.InDelta(t, -1.5, cfg.Thresholds.CrashUSPct, 1e-9)
	assert.InDelta(t, 25, cfg.Thresholds.VIXWarn, 1e-9)
	assert.Equal(t, "Asia/Taipei", cfg.Timezone)
	assert.Equal(t, 1, cfg.Fallback.Position.Lots)
	assert.NotEmpty(t, cfg.Fallback.Holidays)
	assert.Contains(t, cfg.Fallback.Holidays, "2026-02-16")
}

func TestLoad_FileAndOverrides(t *testing.T) {
	path := writeConfig(t, `
line:
  token: file-token
  user_id: U1234
thresholds:
  rollover_warn_days: 5
  crash_tw_pct: -3.0
fallback:
  holidays: ["2025-06-06"]
`)
	t.Setenv("LINE_TOKEN", "env-token")
	t.Setenv("FORCE_SESSION", "NIGHT")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Line.Token, "env must win over file")
	assert.Equal(t, "U1234", cfg.Line.UserID)
	assert.Equal(t, 5, cfg.Thresholds.RolloverWarnDays)
	assert.InDelta(t, -3.0, cfg.Thresholds.CrashTWPct, 1e-9)
	assert.Equal(t, "NIGHT", cfg.ForceSession)
	assert.Equal(t, []string{"2025-06-06"}, cfg.Fallback.Holidays)
	// Untouched fields still get defaults.
	assert.InDelta(t, -1.5, cfg.Thresholds.CrashUSPct, 1e-9)
}

func TestValidate(t *testing.T) {
	t.Setenv("LINE_TOKEN", "")
	t.Setenv("LINE_USER_ID", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "missing line credentials")

	cfg.Line.Token = "tok"
	cfg.Line.UserID = "U1"
	assert.NoError(t, cfg.Validate())

	cfg.Thresholds.CrashTWPct = 2.5
	assert.Error(t, cfg.Validate(), "crash threshold must be negative")
}
