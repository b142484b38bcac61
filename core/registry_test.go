// File: core/registry_test.go
// Author: momentics <momentics@gmail.com>

package core_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentics/corebind/api"
	"github.com/momentics/corebind/core"
	"github.com/momentics/corebind/fake"
)

// writeIdentity produces a cpuinfo-format file with apicid = 2*processor,
// the usual hyperthread-less layout.
func writeIdentity(t *testing.T, cores int) string {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < cores; i++ {
		fmt.Fprintf(&buf, "processor\t: %d\nvendor_id\t: GenuineIntel\napicid\t\t: %d\n\n", i, 2*i)
	}
	path := filepath.Join(t.TempDir(), "cpuinfo")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing identity file: %v", err)
	}
	return path
}

func testConfig(t *testing.T, cores int) (core.Config, *fake.Affinity, *fake.Pages, *fake.Entry) {
	t.Helper()
	aff := &fake.Affinity{Node: 1}
	pages := &fake.Pages{}
	entry := &fake.Entry{}
	cfg := core.Config{
		CoreCount:    cores,
		IdentityPath: writeIdentity(t, cores),
		PageSize:     1024,
		TemplateSize: 256,
		Affinity:     aff,
		Pages:        pages,
		Entry:        entry,
	}
	return cfg, aff, pages, entry
}

func TestBringUpRecordsIdentity(t *testing.T) {
	cfg, _, _, entry := testConfig(t, 4)
	r, err := core.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < r.Count(); i++ {
		if _, err := r.BringUp(i); err != nil {
			t.Fatalf("BringUp(%d): %v", i, err)
		}
	}
	if r.Active() != 4 {
		t.Fatalf("Active = %d, want 4", r.Active())
	}
	if entry.Calls != 4 {
		t.Fatalf("entry mechanism invoked %d times, want 4", entry.Calls)
	}
	for i := 0; i < r.Count(); i++ {
		e, ok := r.Identity(i)
		if !ok {
			t.Fatalf("Identity(%d) missing", i)
		}
		if e.Node != 1 || e.APICID != 2*i {
			t.Errorf("core %d: identity %+v, want node 1 apicid %d", i, e, 2*i)
		}
		if st := r.CoreState(i); st != core.StateOnline {
			t.Errorf("core %d: state %s, want online", i, st)
		}
	}
}

func TestBringUpAffinityRejected(t *testing.T) {
	cfg, aff, _, _ := testConfig(t, 2)
	aff.PinErr = errors.New("EPERM")
	r, err := core.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrPermission) {
		t.Fatalf("BringUp = %v, want permission error", err)
	}
	if st := r.CoreState(0); st != core.StateFailed {
		t.Fatalf("state after failure = %s, want failed", st)
	}
	// Other cores are unaffected once the environment allows binding.
	aff.PinErr = nil
	if _, err := r.BringUp(1); err != nil {
		t.Fatalf("BringUp(1) after core 0 failure: %v", err)
	}
}

func TestBringUpPlacementUnsupported(t *testing.T) {
	cfg, aff, _, _ := testConfig(t, 1)
	aff.CurErr = errors.New("ENOSYS")
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrNotSupported) {
		t.Fatalf("BringUp = %v, want unsupported error", err)
	}
}

func TestBringUpAffinityMismatch(t *testing.T) {
	cfg, aff, _, _ := testConfig(t, 2)
	aff.Skew = 1
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrConsistency) {
		t.Fatalf("BringUp = %v, want consistency fault", err)
	}
}

func TestBringUpAllocationFailure(t *testing.T) {
	cfg, _, pages, _ := testConfig(t, 1)
	pages.Err = api.ErrExhausted
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrExhausted) {
		t.Fatalf("BringUp = %v, want exhaustion", err)
	}
}

func TestBringUpEntryFailureIsFatal(t *testing.T) {
	cfg, _, _, entry := testConfig(t, 1)
	entry.Err = errors.New("vmx refused")
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrEntryFailed) {
		t.Fatalf("BringUp = %v, want entry failure", err)
	}
	if st := r.CoreState(0); st != core.StateFailed {
		t.Fatalf("state = %s, want failed", st)
	}
	if entry.Calls != 1 {
		t.Fatalf("mechanism invoked %d times, want 1 (never retried)", entry.Calls)
	}
}

func TestBringUpTwiceRejected(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 1)
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); err != nil {
		t.Fatalf("first BringUp: %v", err)
	}
	if _, err := r.BringUp(0); !errors.Is(err, api.ErrAlreadyOnline) {
		t.Fatalf("second BringUp = %v, want already-online rejection", err)
	}
	if r.Active() != 1 {
		t.Fatalf("Active = %d, want 1", r.Active())
	}
}

func TestBringUpMissingIdentityRecord(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 2)
	// Identity table only covers core 0.
	cfg.IdentityPath = writeIdentity(t, 1)
	r, err := core.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.BringUp(1); !errors.Is(err, api.ErrConsistency) {
		t.Fatalf("BringUp = %v, want consistency fault", err)
	}
}

func TestBringUpOutOfRange(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 2)
	r, _ := core.New(cfg)
	if _, err := r.BringUp(2); !errors.Is(err, api.ErrInvalidCore) {
		t.Fatalf("BringUp(2) = %v, want invalid core", err)
	}
	if _, err := r.BringUp(-1); !errors.Is(err, api.ErrInvalidCore) {
		t.Fatalf("BringUp(-1) = %v, want invalid core", err)
	}
}

func TestNewRejectsBadCoreCount(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 1)
	cfg.CoreCount = core.MaxCores + 1
	if _, err := core.New(cfg); !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("New = %v, want configuration error", err)
	}
	cfg.CoreCount = -1
	if _, err := core.New(cfg); !errors.Is(err, api.ErrInvalidConfig) {
		t.Fatalf("New = %v, want configuration error", err)
	}
}

func TestNewPropagatesIdentityFailure(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 1)
	bad := filepath.Join(t.TempDir(), "cpuinfo")
	if err := os.WriteFile(bad, []byte("processor\t: 0\napicid\t\t: junk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.IdentityPath = bad
	if _, err := core.New(cfg); !errors.Is(err, api.ErrIdentityFormat) {
		t.Fatalf("New = %v, want identity format error", err)
	}
}

func TestRegionZeroedAndPlaced(t *testing.T) {
	cfg, _, pages, _ := testConfig(t, 1)
	r, _ := core.New(cfg)
	if _, err := r.BringUp(0); err != nil {
		t.Fatalf("BringUp: %v", err)
	}
	if len(pages.Nodes) != 1 || pages.Nodes[0] != 1 {
		t.Fatalf("allocation nodes = %v, want [1]", pages.Nodes)
	}
	region, err := r.Region(0)
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if len(region) != cfg.TemplateSize {
		t.Fatalf("region length = %d, want %d", len(region), cfg.TemplateSize)
	}
	for i, b := range region {
		if b != 0 {
			t.Fatalf("region byte %d = %#x, want zero-filled template", i, b)
		}
	}
}

func TestRegionOfflineCore(t *testing.T) {
	cfg, _, _, _ := testConfig(t, 2)
	r, _ := core.New(cfg)
	if _, err := r.Region(1); !errors.Is(err, api.ErrConsistency) {
		t.Fatalf("Region(offline) = %v, want consistency fault", err)
	}
	if _, err := r.Region(5); !errors.Is(err, api.ErrInvalidCore) {
		t.Fatalf("Region(5) = %v, want invalid core", err)
	}
}
