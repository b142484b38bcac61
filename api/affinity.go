// Package api
// Author: momentics@gmail.com
//
// CPU/NUMA affinity and thread placement definitions.

package api

// Affinity controls execution placement of the calling OS thread.
type Affinity interface {
    // Pin binds the calling thread exclusively to one logical CPU.
    Pin(cpuID int) error
    // Current returns the CPU and NUMA node the calling thread runs on.
    Current() (cpuID int, numaNode int, err error)
}
