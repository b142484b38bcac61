// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import (
	"sync"

	"github.com/momentics/corebind/core"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// RegisterRegistryProbes wires the standard multicore probes for r.
func RegisterRegistryProbes(dp *DebugProbes, r *core.Registry) {
	dp.RegisterProbe("core.count", func() any {
		return r.Count()
	})
	dp.RegisterProbe("core.active", func() any {
		return r.Active()
	})
	dp.RegisterProbe("core.pending", func() any {
		pending := make(map[int]int)
		for i := 0; i < r.Count(); i++ {
			if n := r.Pending(i); n > 0 {
				pending[i] = n
			}
		}
		return pending
	})
	dp.RegisterProbe("core.snapshot", func() any {
		return r.Snapshot()
	})
}
