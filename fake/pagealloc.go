// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"github.com/momentics/corebind/api"
)

// Pages is a heap-backed api.PageAllocator for tests.
type Pages struct {
	Err    error // returned by AllocPages when set
	Allocs int
	Nodes  []int // NUMA node of each allocation, in order
}

func (p *Pages) AllocPages(pageCount, pageSize, numaNode int, policy api.BindPolicy) ([]byte, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	p.Allocs++
	p.Nodes = append(p.Nodes, numaNode)
	block := make([]byte, pageCount*pageSize)
	// Dirty the block so region zeroing is observable.
	for i := range block {
		block[i] = 0xAA
	}
	return block, nil
}

func (p *Pages) FreePages(block []byte) error { return nil }
