//go:build !linux
// +build !linux

// File: privmode/privmode_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub mechanism for platforms without restricted-mode support.

package privmode

import (
	"fmt"

	"github.com/momentics/corebind/api"
)

type stubMechanism struct{}

func newMechanismPlatform() api.EntryMechanism {
	return stubMechanism{}
}

func (stubMechanism) Enter(region []byte) error {
	return fmt.Errorf("privmode: %w on this platform", api.ErrNotSupported)
}
