package zfs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func stubCLI(fn runner) *CLI {
	return &CLI{zfsPath: "/sbin/zfs", zpoolPath: "/sbin/zpool", run: fn}
}

func TestParseSnapshotList(t *testing.T) {
	out := "1714000000\ttank/home@2024-04-25_00.26.40\n" +
		"1714086400\ttank/vm@2024-04-26_00.26.40\n" +
		"\n" +
		"1714172800\ttank/home@manual\n"

	snaps, err := parseSnapshotList(out)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	require.Equal(t, Snapshot{Dataset: "tank/home", Label: "2024-04-25_00.26.40", Creation: 1714000000}, snaps[0])
	require.Equal(t, "tank/home@manual", snaps[2].Name())
}

func TestParseSnapshotListBadCreation(t *testing.T) {
	_, err := parseSnapshotList("yesterday\ttank@l1\n")
	require.Error(t, err)
}

func TestListDatasets(t *testing.T) {
	cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
		require.Equal(t, "/sbin/zfs", path)
		require.Contains(t, args, "-r")
		return result{stdout: "tank\ntank/home\ntank/vm\n"}, nil
	})
	datasets, err := cli.ListDatasets(context.Background(), "tank")
	require.NoError(t, err)
	require.Equal(t, []string{"tank", "tank/home", "tank/vm"}, datasets)
}

func TestFreeSpace(t *testing.T) {
	cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
		require.Equal(t, "/sbin/zpool", path)
		return result{stdout: "831G\n"}, nil
	})
	free, err := cli.FreeSpace(context.Background(), "tank")
	require.NoError(t, err)
	require.Equal(t, "831G", free)
}

func TestFreeSpaceUnavailable(t *testing.T) {
	cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
		return result{stdout: "-\n"}, nil
	})
	_, err := cli.FreeSpace(context.Background(), "tank")
	require.Error(t, err)
}

func TestDestroyAlreadyGoneIsSuccess(t *testing.T) {
	for _, stderr := range []string{
		"cannot open 'tank/home@l1': dataset does not exist",
		"could not find any snapshots to destroy; check snapshot names.",
	} {
		cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
			return result{stderr: stderr, exitCode: 1}, nil
		})
		err := cli.DestroySnapshot(context.Background(), "tank/home", "l1")
		require.NoError(t, err, "stderr %q", stderr)
	}
}

func TestDestroyRealFailure(t *testing.T) {
	cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
		return result{stderr: "cannot destroy snapshot: dataset is busy", exitCode: 1}, nil
	})
	err := cli.DestroySnapshot(context.Background(), "tank/home", "l1")
	require.Error(t, err)
	require.True(t, Error.Has(err))
}

func TestCreateSnapshotArgs(t *testing.T) {
	var got []string
	cli := stubCLI(func(ctx context.Context, path string, args ...string) (result, error) {
		got = args
		return result{}, nil
	})
	require.NoError(t, cli.CreateSnapshot(context.Background(), "tank/home", "2026-08-31_04.05.06"))
	require.Equal(t, []string{"snapshot", "tank/home@2026-08-31_04.05.06"}, got)
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "first", firstLine("first\nsecond\n"))
	require.Equal(t, "only", firstLine("  only  "))
}

func TestSnapshotName(t *testing.T) {
	s := Snapshot{Dataset: "tank/home", Label: "l1"}
	require.Equal(t, "tank/home@l1", s.Name())
	require.True(t, strings.HasPrefix(s.Name(), s.Dataset))
}
