//go:build !linux
// +build !linux

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.
// Returns errors to indicate unavailability.

package affinity

import "errors"

// setAffinityPlatform is a stub for platforms without CPU affinity support.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}

// getCPUPlatform is a stub for platforms without a getcpu equivalent.
func getCPUPlatform() (int, int, error) {
	return -1, -1, errors.New("affinity: placement query not supported on this platform")
}
