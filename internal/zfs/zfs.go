// Package zfs adapts the zfs and zpool command-line tools to the rest of
// the system. It is the only package that shells out to the storage engine.
package zfs

import (
	"context"
	"strconv"
	"strings"

	"github.com/zeebo/errs"
)

// Error wraps all failures coming out of the storage engine adapter.
var Error = errs.Class("zfs")

// Snapshot is one snapshot listing entry. Label is the part after '@'.
type Snapshot struct {
	Dataset  string
	Label    string
	Creation int64 // epoch seconds
}

// Name returns the full dataset@label form used on the command line.
func (s Snapshot) Name() string {
	return s.Dataset + "@" + s.Label
}

// Engine is the storage-engine contract consumed by the controller.
// Implementations must treat destroying an already-absent snapshot as
// success: listings go stale the moment they are taken.
type Engine interface {
	// ListDatasets returns root and every dataset nested under it.
	ListDatasets(ctx context.Context, root string) ([]string, error)
	// ListSnapshots returns every snapshot visible to the process,
	// across all pools, in listing order.
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	// FreeSpace returns the pool's free space as reported by the
	// engine, a human-readable magnitude plus unit suffix.
	FreeSpace(ctx context.Context, pool string) (string, error)
	CreateSnapshot(ctx context.Context, dataset, label string) error
	DestroySnapshot(ctx context.Context, dataset, label string) error
}

// CLI runs the real zfs/zpool binaries.
type CLI struct {
	zfsPath   string
	zpoolPath string
	run       runner
}

// New returns a CLI engine using the given binary paths.
func New(zfsPath, zpoolPath string) *CLI {
	return &CLI{zfsPath: zfsPath, zpoolPath: zpoolPath, run: execRun}
}

func (c *CLI) ListDatasets(ctx context.Context, root string) ([]string, error) {
	res, err := c.run(ctx, c.zfsPath, "list", "-H", "-t", "filesystem,volume", "-o", "name", "-r", root)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if res.exitCode != 0 {
		return nil, Error.New("zfs list -r %s: %s", root, firstLine(res.stderr))
	}
	return splitLines(res.stdout), nil
}

func (c *CLI) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	// -p makes creation an epoch integer instead of a formatted date.
	res, err := c.run(ctx, c.zfsPath, "list", "-H", "-p", "-t", "snapshot", "-o", "creation,name", "-s", "creation")
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if res.exitCode != 0 {
		return nil, Error.New("zfs list snapshots: %s", firstLine(res.stderr))
	}
	return parseSnapshotList(res.stdout)
}

func (c *CLI) FreeSpace(ctx context.Context, pool string) (string, error) {
	res, err := c.run(ctx, c.zpoolPath, "list", "-H", "-o", "free", pool)
	if err != nil {
		return "", Error.Wrap(err)
	}
	if res.exitCode != 0 {
		return "", Error.New("zpool list %s: %s", pool, firstLine(res.stderr))
	}
	free := strings.TrimSpace(res.stdout)
	if free == "" || free == "-" {
		return "", Error.New("pool %s reports no free-space figure", pool)
	}
	return free, nil
}

func (c *CLI) CreateSnapshot(ctx context.Context, dataset, label string) error {
	res, err := c.run(ctx, c.zfsPath, "snapshot", dataset+"@"+label)
	if err != nil {
		return Error.Wrap(err)
	}
	if res.exitCode != 0 {
		return Error.New("zfs snapshot %s@%s: %s", dataset, label, firstLine(res.stderr))
	}
	return nil
}

func (c *CLI) DestroySnapshot(ctx context.Context, dataset, label string) error {
	res, err := c.run(ctx, c.zfsPath, "destroy", dataset+"@"+label)
	if err != nil {
		return Error.Wrap(err)
	}
	if res.exitCode != 0 {
		if alreadyGone(res.stderr) {
			return nil
		}
		return Error.New("zfs destroy %s@%s: %s", dataset, label, firstLine(res.stderr))
	}
	return nil
}

// alreadyGone reports whether a destroy failure means the snapshot was
// deleted out from under us, which callers must treat as success.
func alreadyGone(stderr string) bool {
	msg := strings.ToLower(stderr)
	return strings.Contains(msg, "could not find any snapshots to destroy") ||
		strings.Contains(msg, "dataset does not exist")
}

func parseSnapshotList(out string) ([]Snapshot, error) {
	var snaps []Snapshot
	for _, line := range splitLines(out) {
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			parts = strings.Fields(line)
		}
		if len(parts) < 2 {
			continue
		}
		creation, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, Error.New("bad creation field %q: %v", parts[0], err)
		}
		dataset, label, ok := strings.Cut(parts[1], "@")
		if !ok {
			continue
		}
		snaps = append(snaps, Snapshot{
			Dataset:  dataset,
			Label:    label,
			Creation: creation,
		})
	}
	return snaps, nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
