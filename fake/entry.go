// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

// Entry is a recording api.EntryMechanism for tests.
type Entry struct {
	Calls int
	Err   error // returned by Enter when set
	Last  []byte
}

func (e *Entry) Enter(region []byte) error {
	e.Calls++
	e.Last = region
	return e.Err
}
