package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studytrack/internal/platform/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.SurfaceExtension, cfg.Surface)
	assert.Equal(t, filepath.Join(dir, "extension"), cfg.Backends.Extension.Dir)
	assert.Equal(t, filepath.Join(dir, "page", "studytrack.db"), cfg.Backends.Page.DBPath)
	assert.Equal(t, time.Sunday, cfg.WeekStart())
	assert.Equal(t, 10000, cfg.Storage.MaxSessions)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
}

func TestLoadYAMLOverridesAndRelativePaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `
surface: page
week_start_day: 1
timezone: UTC
backends:
  extension:
    enabled: false
  page:
    enabled: true
    db_path: data/kv.db
sync:
  interval: 90s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644))

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, config.SurfacePage, cfg.Surface)
	assert.False(t, cfg.Backends.Extension.Enabled)
	assert.Equal(t, filepath.Join(dir, "data", "kv.db"), cfg.Backends.Page.DBPath)
	assert.Equal(t, time.Monday, cfg.WeekStart())
	assert.Equal(t, 90*time.Second, cfg.Sync.Interval)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestValidateRejectsInconsistentSurface(t *testing.T) {
	t.Parallel()
	cfg := config.Default(t.TempDir())
	cfg.Backends.Extension.Enabled = false
	assert.Error(t, cfg.Validate())

	cfg = config.Default(t.TempDir())
	cfg.WeekStartDay = 7
	assert.Error(t, cfg.Validate())

	cfg = config.Default(t.TempDir())
	cfg.Timezone = "Nowhere/Unknown"
	assert.Error(t, cfg.Validate())
}

func TestLoadRequiresDataDir(t *testing.T) {
	t.Parallel()
	_, err := config.Load("", "")
	assert.Error(t, err)
}
