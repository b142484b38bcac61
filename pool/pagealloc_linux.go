//go:build linux
// +build linux

// File: pool/pagealloc_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux NUMA-aware page allocator: anonymous mmap plus mbind. Pure Go via
// golang.org/x/sys raw syscalls, no libnuma dependency.

package pool

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/corebind/api"
)

// maxNodes bounds the mbind nodemask; 1024 matches the kernel's own
// MPOL nodemask sizing on common configs.
const maxNodes = 1024

// mbind policy modes from linux/mempolicy.h; golang.org/x/sys/unix does not
// export these.
const (
	mpolPreferred = 1
	mpolBind      = 2
)

type linuxPageAllocator struct{}

func newPageAllocatorPlatform() api.PageAllocator {
	return &linuxPageAllocator{}
}

func (l *linuxPageAllocator) AllocPages(pageCount, pageSize, numaNode int, policy api.BindPolicy) ([]byte, error) {
	if pageCount <= 0 || pageSize <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: page request must be positive")
	}
	length := pageCount * pageSize
	block, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("pool: mmap of %d pages: %w: %w", pageCount, api.ErrExhausted, err)
	}
	if policy != api.BindDefault && numaNode >= 0 {
		if err := mbind(block, numaNode, policy); err != nil {
			unix.Munmap(block)
			return nil, err
		}
	}
	return block, nil
}

func (l *linuxPageAllocator) FreePages(block []byte) error {
	if len(block) == 0 {
		return nil
	}
	return unix.Munmap(block)
}

// mbind applies the NUMA placement policy to an mmapped block.
func mbind(block []byte, numaNode int, policy api.BindPolicy) error {
	if numaNode >= maxNodes {
		return api.NewError(api.ErrCodeInvalidArgument, "pool: numa node out of range").
			WithContext("node", numaNode)
	}
	mode := uintptr(mpolBind)
	if policy == api.BindPreferred {
		mode = mpolPreferred
	}
	var mask [maxNodes / 64]uint64
	mask[numaNode/64] = 1 << (uint(numaNode) % 64)
	_, _, errno := unix.Syscall6(unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&block[0])),
		uintptr(len(block)),
		mode,
		uintptr(unsafe.Pointer(&mask[0])),
		maxNodes,
		0)
	if errno != 0 {
		return fmt.Errorf("pool: mbind node %d: %w: %w", numaNode, api.ErrExhausted, errno)
	}
	return nil
}
