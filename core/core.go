// File: core/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core is the owner handle a worker thread receives after bring-up. RunOn
// may target any configured core; Bookkeeping and Defer are owner-only and
// must stay on the bring-up thread.

package core

import (
	"fmt"

	"github.com/eapache/queue"

	"github.com/momentics/corebind/api"
	"github.com/momentics/corebind/pool"
	"github.com/momentics/corebind/privmode"
)

// Core is one online core's private handle.
type Core struct {
	nr   int
	node int
	apic int

	reg      *Registry
	pool     *pool.Pool[runner]
	deferred *deferredList
	guard    *privmode.Guard
}

// Nr returns the logical core number.
func (c *Core) Nr() int { return c.nr }

// NUMANode returns the core's memory locality domain.
func (c *Core) NUMANode() int { return c.node }

// APICID returns the core's physical hardware identifier.
func (c *Core) APICID() int { return c.apic }

// Privileged reports whether this core's thread completed the restricted
// mode transition.
func (c *Core) Privileged() bool { return c.guard.Entered() }

// RunOn schedules fn(arg) onto the target core's inbox. This is the sole
// cross-core write path into another core's private state: the record is
// drawn from this core's pool, pushed under the target's queue lock and
// executed exactly once at the target's next drain. Delivery is
// fire-and-forget; there is no result channel back.
func (c *Core) RunOn(target int, fn Func, arg any) error {
	if target < 0 || target >= c.reg.count {
		return fmt.Errorf("core: run on core %d: %w", target, api.ErrInvalidCore)
	}
	rec := c.pool.Alloc()
	if rec == nil {
		return fmt.Errorf("core: runner pool: %w", api.ErrExhausted)
	}
	rec.fn = fn
	rec.arg = arg
	rec.next = nil
	c.reg.runlists[target].push(rec)
	return nil
}

// Bookkeeping drains this core's inbox and deferred work. Owner-only and
// cooperative: the owning thread calls it between units of dataplane work.
// The whole chain is taken in one locked exchange; callbacks then run with
// no lock held, newest first within the batch. Each record returns to the
// pool right after its callback.
func (c *Core) Bookkeeping() {
	rec := c.reg.runlists[c.nr].takeAll()
	for rec != nil {
		next := rec.next
		rec.fn(rec.arg)
		rec.next, rec.fn, rec.arg = nil, nil, nil
		c.pool.Free(rec)
		rec = next
	}
	c.deferred.drain()
}

// Defer queues fn(arg) on this core's private FIFO, run in submission
// order during the next Bookkeeping. Owner-only; unlike RunOn it takes no
// lock and cannot fail.
func (c *Core) Defer(fn Func, arg any) {
	c.deferred.add(fn, arg)
}

// deferredTask is one postponed owner-local unit of work.
type deferredTask struct {
	fn  Func
	arg any
}

// deferredList is the owner-local FIFO behind Defer. Single-threaded by
// construction, so the plain queue needs no synchronization.
type deferredList struct {
	q *queue.Queue
}

func newDeferred() *deferredList {
	return &deferredList{q: queue.New()}
}

func (d *deferredList) add(fn Func, arg any) {
	d.q.Add(deferredTask{fn: fn, arg: arg})
}

// drain runs the tasks present at entry. Tasks deferred by a running task
// stay queued for the next drain.
func (d *deferredList) drain() {
	n := d.q.Length()
	for i := 0; i < n; i++ {
		t := d.q.Remove().(deferredTask)
		t.fn(t.arg)
	}
}
