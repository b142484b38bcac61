// File: api/alloc.go
// Author: momentics <momentics@gmail.com>
//
// NUMA-aware page allocation contract consumed by the per-core
// memory region bootstrap.

package api

// BindPolicy selects the NUMA placement policy for a page allocation.
type BindPolicy int

const (
	// BindDefault leaves placement to the operating system.
	BindDefault BindPolicy = iota
	// BindNode binds the allocation strictly to the requested node.
	BindNode
	// BindPreferred prefers the requested node but allows spill.
	BindPreferred
)

// PageAllocator allocates page-granular memory constrained to a NUMA node.
type PageAllocator interface {
	// AllocPages returns a block of pageCount*pageSize bytes placed on the
	// given NUMA node according to policy. Failure is resource exhaustion.
	AllocPages(pageCount, pageSize, numaNode int, policy BindPolicy) ([]byte, error)

	// FreePages releases a block previously returned by AllocPages.
	FreePages(block []byte) error
}
