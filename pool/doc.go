// File: pool/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package pool provides the two allocators backing per-core state:
// a NUMA-aware page allocator for per-core memory regions and a
// fixed-capacity object datastore with per-core pool views for
// runner records. Platform-specific page allocation lives in
// build-tagged files.
package pool
