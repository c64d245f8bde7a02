package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosnap.log")
	log, flush, err := New(path, "info")
	require.NoError(t, err)

	log.Info("pool %s free space: %d GiB", "tank", 831)
	log.Warn("still below floor")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "pool tank free space: 831 GiB")
	require.Contains(t, string(data), "still below floor")
}

func TestNewStderrOnly(t *testing.T) {
	log, flush, err := New("", "debug")
	require.NoError(t, err)
	log.Debug("just checking")
	flush()
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosnap.log")
	log, flush, err := New(path, "chatty")
	require.NoError(t, err)

	log.Debug("suppressed at info level")
	log.Info("visible")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "suppressed")
	require.Contains(t, string(data), "visible")
}
