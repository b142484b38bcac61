// File: core/region.go
// Author: momentics <momentics@gmail.com>
//
// Per-core memory region bootstrap. Each online core owns one NUMA-local,
// page-granular block: a reserved header for the privileged-entry
// mechanism followed by the zeroed per-core state template. The usable
// base (past the header) is recorded in the registry's per-core table,
// written once by the owning core.

package core

import (
	"fmt"

	"github.com/momentics/corebind/api"
	"github.com/momentics/corebind/privmode"
)

// regionPages returns the page count covering the reserved header plus
// the per-core template.
func regionPages(templateLen, pageSize int) int {
	total := templateLen + privmode.RegionHeaderLen
	return (total + pageSize - 1) / pageSize
}

// allocRegion allocates the region for core on numaNode, zero-fills the
// template portion and records the usable base. Returns the whole block
// (header first) for the entry mechanism.
func (r *Registry) allocRegion(core, numaNode int) ([]byte, error) {
	pages := regionPages(r.cfg.TemplateSize, r.cfg.PageSize)
	block, err := r.cfg.Pages.AllocPages(pages, r.cfg.PageSize, numaNode, api.BindNode)
	if err != nil {
		return nil, fmt.Errorf("core: region for core %d on node %d: %w", core, numaNode, err)
	}
	tmpl := block[privmode.RegionHeaderLen : privmode.RegionHeaderLen+r.cfg.TemplateSize]
	for i := range tmpl {
		tmpl[i] = 0
	}
	r.regions[core] = tmpl
	return block, nil
}

// Region returns the usable per-core state template of an online core.
// Any core may address another core's region; the slot is written once
// during bring-up and read-only afterwards.
func (r *Registry) Region(core int) ([]byte, error) {
	if core < 0 || core >= r.count {
		return nil, fmt.Errorf("core: region of core %d: %w", core, api.ErrInvalidCore)
	}
	if State(r.states[core].Load()) != StateOnline {
		return nil, fmt.Errorf("core: region of core %d: %w: core not online", core, api.ErrConsistency)
	}
	return r.regions[core], nil
}
