// File: pool/pagealloc.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral entry point for NUMA-aware page allocation. The
// concrete allocator is selected per platform in build-tagged files.

package pool

import (
	"os"

	"github.com/momentics/corebind/api"
)

// DefaultPageSize is the allocation granularity used when a caller does
// not configure one.
func DefaultPageSize() int { return os.Getpagesize() }

// DefaultPageAllocator returns the platform page allocator. On platforms
// without NUMA placement support the allocator still hands out
// page-granular memory but ignores the node constraint.
func DefaultPageAllocator() api.PageAllocator {
	return newPageAllocatorPlatform()
}
