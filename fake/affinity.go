// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import "sync"

// Affinity is a scripted api.Affinity for tests. Current reports the CPU
// most recently pinned, on a configurable NUMA node.
type Affinity struct {
	mu      sync.Mutex
	pinned  int
	Node    int   // NUMA node reported by Current
	PinErr  error // returned by Pin when set
	CurErr  error // returned by Current when set
	Skew    int   // offset added to the CPU reported by Current
	PinLog  []int // every CPU passed to Pin
}

func (a *Affinity) Pin(cpuID int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.PinErr != nil {
		return a.PinErr
	}
	a.pinned = cpuID
	a.PinLog = append(a.PinLog, cpuID)
	return nil
}

func (a *Affinity) Current() (int, int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.CurErr != nil {
		return -1, -1, a.CurErr
	}
	return a.pinned + a.Skew, a.Node, nil
}
