package retention

import (
	"context"

	"github.com/gestur1976/zfs-autosnap/internal/snapshot"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

// Consolidate collapses each dataset's same-day snapshots down to the
// day's last one, for snapshots older than the intraday ceiling. It is
// purely age-driven and runs before the space-driven pass so that space
// pressure is measured after these cheap wins.
//
// The pass spans every dataset visible to the process, not just the
// target pool.
func (e *Engine) Consolidate(ctx context.Context, intradayCeiling int64) error {
	snaps, err := e.cat.List(ctx)
	if err != nil {
		e.log.Error("consolidation skipped, cannot list snapshots: %v", err)
		return err
	}

	type dayKey struct {
		dataset string
		day     string
	}
	buckets := make(map[dayKey][]zfs.Snapshot)
	for _, s := range snaps {
		day, ok := snapshot.DayOf(s.Label)
		if !ok {
			// Not one of ours; leave foreign snapshots alone.
			continue
		}
		k := dayKey{dataset: s.Dataset, day: day}
		buckets[k] = append(buckets[k], s)
	}

	group := e.pool.NewGroup(ctx)
	reaped := 0
	for _, b := range buckets {
		if len(b) < 2 {
			// A day's sole snapshot is always preserved.
			continue
		}
		// The catalog is ascending, so the day's survivor is the
		// last member of the bucket.
		for _, s := range b[:len(b)-1] {
			if s.Creation < intradayCeiling {
				e.dispatchDestroy(group, s)
				reaped++
			}
		}
	}
	if reaped > 0 {
		e.log.Info("intraday consolidation: reaping %d snapshots", reaped)
	}
	return group.Wait()
}
