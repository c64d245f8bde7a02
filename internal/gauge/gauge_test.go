package gauge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/errs"

	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

type spaceEngine struct {
	zfs.Engine
	raw string
	err error
}

func (e spaceEngine) FreeSpace(ctx context.Context, pool string) (string, error) {
	return e.raw, e.err
}

func TestAvailable(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"831G", 831},
		{"1.50T", 1536},
		{"200G", 200},
		{"512M", 1}, // rounds up to the nearest GiB
		{"300M", 0},
		{"0", 0},
		{"2048K", 0},
	}
	for _, tc := range cases {
		g := New(spaceEngine{raw: tc.raw}, "tank", logging.Nop())
		got, err := g.Available(context.Background())
		require.NoError(t, err, "raw %q", tc.raw)
		require.Equal(t, tc.want, got, "raw %q", tc.raw)
	}
}

func TestAvailableQueryFailure(t *testing.T) {
	g := New(spaceEngine{err: errs.New("pool suspended")}, "tank", logging.Nop())
	_, err := g.Available(context.Background())
	require.Error(t, err)
}

func TestAvailableUnparseable(t *testing.T) {
	for _, raw := range []string{"", "-", "12Q", "lots"} {
		g := New(spaceEngine{raw: raw}, "tank", logging.Nop())
		_, err := g.Available(context.Background())
		require.Error(t, err, "raw %q", raw)
	}
}
