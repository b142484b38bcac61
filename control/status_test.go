// control/status_test.go
// Author: momentics <momentics@gmail.com>

package control_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sugawarayuuta/sonnet"

	"github.com/momentics/corebind/control"
	"github.com/momentics/corebind/core"
	"github.com/momentics/corebind/fake"
)

func onlineRegistry(t *testing.T, cores int) *core.Registry {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < cores; i++ {
		fmt.Fprintf(&buf, "processor\t: %d\napicid\t\t: %d\n", i, i)
	}
	path := filepath.Join(t.TempDir(), "cpuinfo")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := core.New(core.Config{
		CoreCount:    cores,
		IdentityPath: path,
		PageSize:     1024,
		TemplateSize: 64,
		Affinity:     &fake.Affinity{},
		Pages:        &fake.Pages{},
		Entry:        &fake.Entry{},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < cores; i++ {
		if _, err := r.BringUp(i); err != nil {
			t.Fatalf("BringUp(%d): %v", i, err)
		}
	}
	return r
}

func TestStatusJSONRoundTrip(t *testing.T) {
	r := onlineRegistry(t, 2)
	raw, err := control.StatusJSON(r)
	if err != nil {
		t.Fatalf("StatusJSON: %v", err)
	}
	var st control.Status
	if err := sonnet.Unmarshal(raw, &st); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if st.Cores != 2 || st.Active != 2 || len(st.PerCore) != 2 {
		t.Fatalf("status = %+v, want 2 online cores", st)
	}
	if st.PerCore[1].State != "online" || st.PerCore[1].APICID != 1 {
		t.Fatalf("per-core status = %+v", st.PerCore[1])
	}
}

func TestRegistryProbes(t *testing.T) {
	r := onlineRegistry(t, 2)
	dp := control.NewDebugProbes()
	control.RegisterRegistryProbes(dp, r)
	state := dp.DumpState()
	if state["core.count"] != 2 || state["core.active"] != 2 {
		t.Fatalf("probe dump = %+v", state)
	}
}
