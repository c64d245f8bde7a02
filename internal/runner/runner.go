// Package runner drives one full controller run: gauge, consolidation,
// eviction, final space check, then snapshot creation.
package runner

import (
	"context"
	"time"

	"github.com/gestur1976/zfs-autosnap/internal/catalog"
	"github.com/gestur1976/zfs-autosnap/internal/config"
	"github.com/gestur1976/zfs-autosnap/internal/gauge"
	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/retention"
	"github.com/gestur1976/zfs-autosnap/internal/snapshot"
	"github.com/gestur1976/zfs-autosnap/internal/worker"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

// Params are the per-run retention parameters from the command line.
type Params struct {
	Pool          string
	MinFreeGiB    int64
	RetentionDays int
	IntradayDays  int
	DryRun        bool
}

type Runner struct {
	cfg *config.Config
	eng zfs.Engine
	log logging.Logger
}

func New(cfg *config.Config, eng zfs.Engine, log logging.Logger) *Runner {
	return &Runner{cfg: cfg, eng: eng, log: log}
}

// Once performs a single run. The timestamp and thresholds are captured
// here, before any work, so every snapshot created this run shares one
// label and both passes judge age against the same instant.
func (r *Runner) Once(ctx context.Context, p Params) error {
	start := time.Now()
	label := snapshot.NewLabel(start)
	th := retention.Compute(start, p.MinFreeGiB, p.RetentionDays, p.IntradayDays)

	r.log.Info("run starting: pool=%s floor=%d GiB retention=%dd intraday=%dd label=%s",
		p.Pool, p.MinFreeGiB, p.RetentionDays, p.IntradayDays, label)

	g := gauge.New(r.eng, p.Pool, r.log)
	cat := catalog.New(r.eng, r.log)
	pool := worker.NewPool(r.cfg.Throttle.MaxDestroys)
	eng := retention.New(r.eng, cat, g, pool, r.log, r.cfg.Run.SettleDelay.Std(), p.DryRun)

	// The two passes intentionally build independent catalogs: the
	// consolidator's deletions invalidate the first listing.
	if err := eng.Consolidate(ctx, th.IntradayCeiling); err != nil && ctx.Err() != nil {
		return err
	}
	if err := eng.Evict(ctx, th); err != nil && ctx.Err() != nil {
		return err
	}

	creator := snapshot.NewCreator(r.eng, r.log, p.DryRun)
	if err := creator.CreateAll(ctx, p.Pool, label); err != nil && ctx.Err() != nil {
		return err
	}

	r.log.Info("run complete in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
