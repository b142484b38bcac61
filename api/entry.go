// File: api/entry.go
// Author: momentics <momentics@gmail.com>
//
// Contract for the restricted execution mode entry mechanism.

package api

// EntryMechanism performs the transition of the calling thread into
// restricted privileged execution mode. The transition is irreversible;
// implementations must not be retried after a failure.
type EntryMechanism interface {
	// Enter hands the per-core region (reserved header first) to the
	// underlying mechanism and switches the calling thread.
	Enter(region []byte) error
}
