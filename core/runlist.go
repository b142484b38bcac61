// File: core/runlist.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-core runner queue: a mutex-guarded singly-linked stack, one per
// core, padded to its own cache line. Producers on any core push under the
// lock; the owning core detaches the whole chain under the lock and runs
// the callbacks outside it.

package core

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Func is a unit of work injected onto a core.
type Func func(arg any)

// runner is one queued callback with its argument. Pooled, intrusively
// linked; ownership moves producer -> queue -> draining core -> pool.
type runner struct {
	next *runner
	fn   Func
	arg  any
}

// runlist is one core's inbox of pending runners. The lock protects
// exactly this core's chain head and nothing else.
type runlist struct {
	_    cpu.CacheLinePad
	mu   sync.Mutex
	head atomic.Pointer[runner]
	_    cpu.CacheLinePad
}

// push makes rec the new chain head. Safe from any core.
func (rl *runlist) push(rec *runner) {
	rl.mu.Lock()
	rec.next = rl.head.Load()
	rl.head.Store(rec)
	rl.mu.Unlock()
}

// takeAll detaches the entire chain and resets the list to empty. The
// unlocked emptiness probe keeps the owner's idle path free of lock
// traffic.
func (rl *runlist) takeAll() *runner {
	if rl.head.Load() == nil {
		return nil
	}
	rl.mu.Lock()
	h := rl.head.Load()
	rl.head.Store(nil)
	rl.mu.Unlock()
	return h
}

// pending counts queued runners. Debug surface only; the hot paths never
// need a length.
func (rl *runlist) pending() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for r := rl.head.Load(); r != nil; r = r.next {
		n++
	}
	return n
}
