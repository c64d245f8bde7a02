package runner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gestur1976/zfs-autosnap/internal/mailbox"
)

// Daemon runs the controller on a cron cadence until ctx is cancelled.
// Schedule ticks go through a single-slot mailbox: a tick that fires
// while a run is still in progress collapses into one pending run, so
// there is never more than one run in flight against the pool.
func (r *Runner) Daemon(ctx context.Context, p Params, schedule string) error {
	mb := mailbox.New[time.Time]()

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { mb.Put(time.Now()) }); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	r.log.Info("daemon mode: schedule %q", schedule)
	for {
		tick, ok := mb.Take(ctx)
		if !ok {
			return ctx.Err()
		}
		r.log.Debug("schedule tick at %s", tick.Format(time.RFC3339))
		if err := r.Once(ctx, p); err != nil {
			if ctx.Err() != nil {
				return err
			}
			r.log.Error("scheduled run failed: %v", err)
		}
	}
}
