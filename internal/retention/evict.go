package retention

import (
	"context"

	"github.com/dustin/go-humanize"
)

// Evict walks the catalog oldest-first, deleting snapshots until the
// free-space floor is met or the age ceiling stops the walk. The gauge
// is re-polled once per distinct creation-epoch group, after joining the
// group's in-flight destroys and letting reclamation settle; destroys
// within one group run concurrently, but no group is touched before an
// older group has fully settled.
func (e *Engine) Evict(ctx context.Context, th Thresholds) error {
	free, err := e.gauge.Available(ctx)
	if err == nil && free >= th.MinFreeGiB {
		e.log.Info("free space adequate (%d GiB >= %d GiB floor), no eviction needed", free, th.MinFreeGiB)
		return nil
	}
	// A failed reading is treated as below the floor: skipping
	// eviction on a flaky gauge would silently let the pool fill up.
	belowFloor := true
	if err != nil {
		e.log.Warn("free-space reading failed, assuming pool is below the floor")
	}

	snaps, err := e.cat.List(ctx)
	if err != nil {
		e.log.Error("eviction skipped, cannot list snapshots: %v", err)
		return err
	}
	if len(snaps) == 0 {
		e.log.Info("no snapshots in catalog, nothing to evict")
	}

	group := e.pool.NewGroup(ctx)
	var checkpoint int64 = -1
	for _, s := range snaps {
		if s.Creation > th.AgeCeiling {
			// Everything from here on is newer still. The age
			// ceiling is a hard floor on what may be deleted,
			// regardless of remaining space pressure.
			e.log.Info("age ceiling reached at snapshot %s, stopping eviction", s.Name())
			break
		}

		if checkpoint >= 0 && s.Creation != checkpoint {
			// Crossed into a new timestamp group: settle the
			// previous group's destroys, then re-synchronize
			// with the real free-space figure.
			if err := group.Wait(); err != nil {
				return err
			}
			e.settleDown(ctx)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if free, err = e.gauge.Available(ctx); err == nil {
				belowFloor = free < th.MinFreeGiB
			}
			group = e.pool.NewGroup(ctx)
		}
		checkpoint = s.Creation

		if !belowFloor {
			e.log.Info("free-space floor satisfied, stopping eviction")
			break
		}
		e.dispatchDestroy(group, s)
	}

	if err := group.Wait(); err != nil {
		return err
	}
	e.settleDown(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if free, err = e.gauge.Available(ctx); err == nil && free < th.MinFreeGiB {
		e.log.Warn("pool still below free-space floor after eviction: %s free, floor is %s",
			humanize.IBytes(uint64(free)<<30), humanize.IBytes(uint64(th.MinFreeGiB)<<30))
	}
	return nil
}
