package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinariesUsable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "zfs")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	res := Binaries(bin)
	require.True(t, res.Usable)
	require.Empty(t, res.Reason)
}

func TestBinariesMissing(t *testing.T) {
	res := Binaries(filepath.Join(t.TempDir(), "nope"))
	require.False(t, res.Usable)
	require.Contains(t, res.Reason, "stat")
}

func TestBinariesNotExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "zfs")
	require.NoError(t, os.WriteFile(bin, []byte("data"), 0o644))

	res := Binaries(bin)
	require.False(t, res.Usable)
	require.Contains(t, res.Reason, "not executable")
}

func TestBinariesDirectory(t *testing.T) {
	res := Binaries(t.TempDir())
	require.False(t, res.Usable)
	require.Contains(t, res.Reason, "directory")
}
