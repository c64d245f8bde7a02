// Package retention holds the two eviction passes: intraday
// consolidation and space-driven oldest-first eviction.
package retention

import (
	"context"
	"time"

	"github.com/gestur1976/zfs-autosnap/internal/catalog"
	"github.com/gestur1976/zfs-autosnap/internal/gauge"
	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/worker"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

// Thresholds are the run-scoped retention cutoffs, computed once at run
// start and immutable after that.
type Thresholds struct {
	// MinFreeGiB is the free-space floor the evictor works toward.
	MinFreeGiB int64
	// AgeCeiling is an absolute epoch cutoff. Snapshots created after
	// it are never deleted by the evictor, no matter the space deficit.
	AgeCeiling int64
	// IntradayCeiling is an absolute epoch cutoff. Same-day duplicates
	// created before it are collapsed to the day's last snapshot.
	IntradayCeiling int64
}

// Compute derives the cutoffs from the run start time.
func Compute(start time.Time, minFreeGiB int64, retentionDays, intradayDays int) Thresholds {
	return Thresholds{
		MinFreeGiB:      minFreeGiB,
		AgeCeiling:      start.Add(-time.Duration(retentionDays) * 24 * time.Hour).Unix(),
		IntradayCeiling: start.Add(-time.Duration(intradayDays) * 24 * time.Hour).Unix(),
	}
}

// Engine runs both passes against one pool's gauge, sharing the
// process-wide destroy throttle.
type Engine struct {
	eng    zfs.Engine
	cat    *catalog.Catalog
	gauge  *gauge.Gauge
	pool   *worker.Pool
	log    logging.Logger
	settle time.Duration
	dryRun bool
}

func New(eng zfs.Engine, cat *catalog.Catalog, g *gauge.Gauge, pool *worker.Pool, log logging.Logger, settle time.Duration, dryRun bool) *Engine {
	return &Engine{
		eng:    eng,
		cat:    cat,
		gauge:  g,
		pool:   pool,
		log:    log,
		settle: settle,
		dryRun: dryRun,
	}
}

// dispatchDestroy hands one deletion to the task group. The snapshot may
// already be gone by the time the destroy runs; the engine adapter
// reports that as success. A real failure is logged and swallowed so one
// stuck dataset cannot abort the walk.
func (e *Engine) dispatchDestroy(g *worker.Group, snap zfs.Snapshot) {
	g.Go(func(ctx context.Context) error {
		if e.dryRun {
			e.log.Info("dry-run: would destroy snapshot %s", snap.Name())
			return nil
		}
		if err := e.eng.DestroySnapshot(ctx, snap.Dataset, snap.Label); err != nil {
			e.log.Error("destroying snapshot %s: %v", snap.Name(), err)
			return nil
		}
		e.log.Info("destroyed snapshot %s", snap.Name())
		return nil
	})
}

// settleDown waits for the engine's asynchronous reclamation accounting
// to catch up after a join, so the next gauge reading is less stale.
func (e *Engine) settleDown(ctx context.Context) {
	if e.settle <= 0 {
		return
	}
	t := time.NewTimer(e.settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
