// control/status.go
// Author: momentics <momentics@gmail.com>
//
// JSON status dump of the registry for control-plane consumers.

package control

import (
	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/corebind/core"
)

// Status is the serialized view of a running registry.
type Status struct {
	Cores   int               `json:"cores"`
	Active  int               `json:"active"`
	PerCore []core.CoreStatus `json:"per_core"`
}

// StatusOf collects the current registry status.
func StatusOf(r *core.Registry) Status {
	return Status{
		Cores:   r.Count(),
		Active:  r.Active(),
		PerCore: r.Snapshot(),
	}
}

// StatusJSON encodes the registry status for external tooling.
func StatusJSON(r *core.Registry) ([]byte, error) {
	return sonnet.Marshal(StatusOf(r))
}
