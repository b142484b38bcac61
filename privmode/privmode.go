// File: privmode/privmode.go
// Package privmode performs the one-shot transition of a pinned thread
// into restricted privileged execution mode.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The transition is irreversible. Guard enforces the once-per-thread
// discipline: a second Enter on the same guard fails, and a mechanism
// failure burns the guard permanently since partial entry leaves no safe
// fallback.

package privmode

import (
	"fmt"
	"sync/atomic"

	"github.com/momentics/corebind/api"
)

// RegionHeaderLen is the number of bytes at the start of a per-core
// region reserved for the entry mechanism.
const RegionHeaderLen = 512

// Guard wraps an api.EntryMechanism with one-shot enforcement.
type Guard struct {
	mech  api.EntryMechanism
	fired atomic.Bool
	fatal atomic.Bool
}

// NewGuard creates a guard around mech.
func NewGuard(mech api.EntryMechanism) *Guard {
	return &Guard{mech: mech}
}

// Enter transitions the calling thread into restricted mode with region as
// its private state base. The region must start with the reserved header.
// A second call, or any call after a failure, returns an error without
// touching the mechanism again.
func (g *Guard) Enter(region []byte) error {
	if len(region) < RegionHeaderLen {
		return api.NewError(api.ErrCodeInvalidArgument, "privmode: region smaller than reserved header")
	}
	if !g.fired.CompareAndSwap(false, true) {
		return fmt.Errorf("privmode: %w: entry already attempted", api.ErrConsistency)
	}
	if err := g.mech.Enter(region); err != nil {
		g.fatal.Store(true)
		return fmt.Errorf("privmode: %w: %w", api.ErrEntryFailed, err)
	}
	return nil
}

// Entered reports whether the guard completed a successful transition.
func (g *Guard) Entered() bool {
	return g.fired.Load() && !g.fatal.Load()
}

// Default returns the platform entry mechanism.
func Default() api.EntryMechanism {
	return newMechanismPlatform()
}

// passthroughMechanism accepts entry without switching execution mode.
type passthroughMechanism struct{}

func (passthroughMechanism) Enter(region []byte) error { return nil }

// Passthrough returns a mechanism that records entry but performs no mode
// switch. For development and tests on hosts without the entry device.
func Passthrough() api.EntryMechanism {
	return passthroughMechanism{}
}
