// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control exposes the debug and status surface of a running
// registry: named probes for ad-hoc inspection and a JSON status dump.
package control
