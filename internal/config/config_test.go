package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, "/sbin/zfs", cfg.Paths.ZFS)
	require.Equal(t, "/sbin/zpool", cfg.Paths.ZPool)
	require.Equal(t, int64(10), cfg.Throttle.MaxDestroys)
	require.Equal(t, 2*time.Second, cfg.Run.SettleDelay.Std())
	require.Empty(t, cfg.Schedule)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
paths:
  zfs: /usr/sbin/zfs
throttle:
  maxDestroys: 4
run:
  settleDelay: 500ms
schedule: "15 3 * * *"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/sbin/zfs", cfg.Paths.ZFS)
	require.Equal(t, "/sbin/zpool", cfg.Paths.ZPool, "unset fields keep defaults")
	require.Equal(t, int64(4), cfg.Throttle.MaxDestroys)
	require.Equal(t, 500*time.Millisecond, cfg.Run.SettleDelay.Std())
	require.Equal(t, "15 3 * * *", cfg.Schedule)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("SNAP_LOG_DIR", "/var/log/custom")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "logging:\n  file: $(SNAP_LOG_DIR)/autosnap.log\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/log/custom/autosnap.log", cfg.Logging.File)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
