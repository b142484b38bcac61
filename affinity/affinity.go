// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity and thread placement queries.
// Platform-specific implementations are located in separate files
// (affinity_linux.go, affinity_stub.go) guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/corebind/api"
)

// Pin locks the calling goroutine to its OS thread and binds that thread
// exclusively to the given logical CPU. The thread stays locked; bring-up
// threads are pinned for their entire lifetime.
func Pin(cpuID int) error {
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}

// Current returns the logical CPU and NUMA node the calling thread is
// running on. On unsupported platforms returns an error.
func Current() (cpuID int, numaNode int, err error) {
	return getCPUPlatform()
}

// threadAffinity adapts the package-level functions to api.Affinity.
type threadAffinity struct{}

func (threadAffinity) Pin(cpuID int) error        { return Pin(cpuID) }
func (threadAffinity) Current() (int, int, error) { return Current() }

// Default returns the real platform affinity controller.
func Default() api.Affinity {
	return threadAffinity{}
}
