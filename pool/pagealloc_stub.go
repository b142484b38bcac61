//go:build !linux
// +build !linux

// File: pool/pagealloc_stub.go
// Author: momentics <momentics@gmail.com>
//
// Heap-backed page allocator for platforms without mmap/mbind. The node
// constraint is ignored; sizing semantics are identical to Linux.

package pool

import "github.com/momentics/corebind/api"

type stubPageAllocator struct{}

func newPageAllocatorPlatform() api.PageAllocator {
	return &stubPageAllocator{}
}

func (s *stubPageAllocator) AllocPages(pageCount, pageSize, numaNode int, policy api.BindPolicy) ([]byte, error) {
	if pageCount <= 0 || pageSize <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "pool: page request must be positive")
	}
	return make([]byte, pageCount*pageSize), nil
}

func (s *stubPageAllocator) FreePages(block []byte) error { return nil }
