// Package catalog builds point-in-time snapshot listings.
package catalog

import (
	"context"
	"sort"

	"github.com/zeebo/errs"

	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

var Error = errs.Class("catalog")

// Catalog lists every snapshot visible to the process. Each List call
// produces a fresh value: a listing is only valid for the pass that
// built it, because this process (and others) delete snapshots
// concurrently.
type Catalog struct {
	eng zfs.Engine
	log logging.Logger
}

func New(eng zfs.Engine, log logging.Logger) *Catalog {
	return &Catalog{eng: eng, log: log}
}

// List returns all snapshots ascending by creation epoch, ties broken by
// (dataset, label) so the order is deterministic. No snapshots is an
// empty slice, not an error.
func (c *Catalog) List(ctx context.Context) ([]zfs.Snapshot, error) {
	snaps, err := c.eng.ListSnapshots(ctx)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	sort.Slice(snaps, func(i, j int) bool {
		a, b := snaps[i], snaps[j]
		if a.Creation != b.Creation {
			return a.Creation < b.Creation
		}
		if a.Dataset != b.Dataset {
			return a.Dataset < b.Dataset
		}
		return a.Label < b.Label
	})

	c.log.Debug("catalog built: %d snapshots", len(snaps))
	return snaps, nil
}
