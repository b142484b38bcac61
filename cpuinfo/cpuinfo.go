// File: cpuinfo/cpuinfo.go
// Package cpuinfo builds the hardware identity table mapping logical core
// numbers to physical APIC identifiers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The input is the line-oriented /proc/cpuinfo record format: a "processor"
// line opens a record, a later "apicid" line closes the pair. Lookups are
// linear; the table is built once at startup and read-only afterwards.

package cpuinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/momentics/corebind/api"
)

// DefaultPath is the standard identity source on Linux.
const DefaultPath = "/proc/cpuinfo"

// Entry associates one logical processor number with its APIC id.
type Entry struct {
	Processor int
	APICID    int
}

// Table is an ordered, read-only set of identity entries.
type Table struct {
	entries []Entry
}

// Load opens path and parses it into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cpuinfo: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the identity record stream and returns the completed table.
// On any format or read error no partial table is returned.
func Parse(r io.Reader) (*Table, error) {
	var (
		entries   []Entry
		processor int
		seen      bool
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "processor"):
			v, err := fieldValue(line)
			if err != nil {
				return nil, err
			}
			processor = v
			seen = true
		case strings.HasPrefix(line, "apicid"):
			v, err := fieldValue(line)
			if err != nil {
				return nil, err
			}
			if !seen {
				return nil, fmt.Errorf("cpuinfo: apicid record before any processor record: %w", api.ErrIdentityFormat)
			}
			entries = append(entries, Entry{Processor: processor, APICID: v})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cpuinfo: read: %w", err)
	}
	return &Table{entries: entries}, nil
}

// fieldValue extracts the integer after the "label : value" separator.
func fieldValue(line string) (int, error) {
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0, fmt.Errorf("cpuinfo: %q: missing separator: %w", line, api.ErrIdentityFormat)
	}
	v, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, fmt.Errorf("cpuinfo: %q: %w", line, api.ErrIdentityFormat)
	}
	return v, nil
}

// APICID returns the hardware identifier recorded for the given logical
// processor, and whether such a record exists.
func (t *Table) APICID(processor int) (int, bool) {
	for _, e := range t.entries {
		if e.Processor == processor {
			return e.APICID, true
		}
	}
	return 0, false
}

// Len reports the number of identity pairs in the table.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the identity pairs in input order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
