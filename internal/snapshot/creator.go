// Package snapshot creates the per-run snapshot generation.
package snapshot

import (
	"context"

	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"

	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

var Error = errs.Class("snapshot")

// Creator snapshots every dataset under the target pool.
type Creator struct {
	eng    zfs.Engine
	log    logging.Logger
	dryRun bool
}

func NewCreator(eng zfs.Engine, log logging.Logger, dryRun bool) *Creator {
	return &Creator{eng: eng, log: log, dryRun: dryRun}
}

// CreateAll issues one snapshot per dataset under pool, all carrying the
// same label. Creations run concurrently and are joined before return.
// A dataset that refuses the snapshot (busy, unmounted) is logged and
// skipped; partial success is expected.
func (c *Creator) CreateAll(ctx context.Context, pool, label string) error {
	datasets, err := c.eng.ListDatasets(ctx, pool)
	if err != nil {
		c.log.Error("cannot list datasets under %s: %v", pool, err)
		return Error.Wrap(err)
	}

	var g errgroup.Group
	for _, ds := range datasets {
		ds := ds
		g.Go(func() error {
			if c.dryRun {
				c.log.Info("dry-run: would create snapshot %s@%s", ds, label)
				return nil
			}
			if err := c.eng.CreateSnapshot(ctx, ds, label); err != nil {
				c.log.Error("creating snapshot %s@%s: %v", ds, label, err)
				return nil
			}
			c.log.Info("created snapshot %s@%s", ds, label)
			return nil
		})
	}
	return g.Wait()
}
