// Package worker bounds and joins the concurrent storage-engine
// operations a run fans out. The throttle is process-wide: consolidation
// and eviction share one budget of in-flight destroys.
package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool is the shared concurrency budget for destroy operations.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool returns a pool allowing at most maxInFlight concurrent tasks.
func NewPool(maxInFlight int64) *Pool {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Pool{sem: semaphore.NewWeighted(maxInFlight)}
}

// Group is one joinable batch of tasks drawing on the pool's budget.
// Callers dispatch with Go and must Wait before acting on any state the
// tasks mutate.
type Group struct {
	pool *Pool
	g    *errgroup.Group
	ctx  context.Context
}

// NewGroup opens a task scope tied to ctx.
func (p *Pool) NewGroup(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{pool: p, g: g, ctx: gctx}
}

// Go blocks until the pool has capacity, then runs fn in its own
// goroutine. The blocking acquire is the backpressure point: a caller
// walking a catalog cannot outrun the engine by more than the pool size.
func (gr *Group) Go(fn func(ctx context.Context) error) {
	if err := gr.pool.sem.Acquire(gr.ctx, 1); err != nil {
		// Scope already cancelled; the task is dropped and Wait
		// will report the cancellation.
		return
	}
	gr.g.Go(func() error {
		defer gr.pool.sem.Release(1)
		return fn(gr.ctx)
	})
}

// Wait joins every task dispatched into the group.
func (gr *Group) Wait() error {
	return gr.g.Wait()
}
