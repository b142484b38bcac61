//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation on sched_setaffinity and getcpu.
// Pure Go via golang.org/x/sys; no libnuma dependency.

package affinity

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// setAffinityPlatform binds the calling thread to a single CPU.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(%d) failed: %w", cpuID, err)
	}
	return nil
}

// getCPUPlatform queries the calling thread's CPU and NUMA node.
func getCPUPlatform() (int, int, error) {
	var cpu, node uint32
	_, _, errno := unix.Syscall(unix.SYS_GETCPU,
		uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if errno != 0 {
		return -1, -1, fmt.Errorf("affinity: getcpu failed: %w", errno)
	}
	return int(cpu), int(node), nil
}
