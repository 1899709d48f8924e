package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cxlfabric/swemu/internal/model"
)

const testDoc = `
emulator:
  name: switch0
switch:
  vid: 0x1111
  did: 0x2222
  svid: 0x3333
  ssid: 0x4444
  sn: 0x0102030405060708
  max_msg_size_n: 13
  msg_rsp_limit_n: 9
  num_ports: 8
  num_vcss: 2
devices:
  - name: mld_dev
    dv: 1
    dt: 4
    cv: 1
    mlw: 16
    mls: 4
    mld:
      memory_size: 4294967296
      num: 4
      granularity: 0
ports:
  - ppid: 1
    device_name: mld_dev
    mlw: 16
    mls: 4
vcss:
  - vcsid: 0
    uspid: 0
    vppbs:
      - vppbid: 0
        ppid: 1
        ldid: 0
`

func writeTestDoc(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "switch.yaml")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatalf("write test doc: %v", err)
	}
	return path
}

func TestLoadBuildsSwitch(t *testing.T) {
	path := writeTestDoc(t)
	sw, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sw.Name != "switch0" || sw.VID != 0x1111 || sw.DID != 0x2222 {
		t.Fatalf("identity not overlaid: %+v", sw)
	}
	if sw.NumPorts() != 8 || sw.NumVCSs() != 2 {
		t.Fatalf("sizing not applied: ports=%d vcss=%d", sw.NumPorts(), sw.NumVCSs())
	}

	p := sw.Port(1)
	if p == nil {
		t.Fatal("port 1 missing")
	}
	if p.State != model.PortDSP {
		t.Errorf("port 1 state = %v, want DSP after connect", p.State)
	}
	if p.MLD == nil {
		t.Fatal("port 1 should have an MLD after connecting mld_dev")
	}
	if p.MLD.Num != 4 {
		t.Errorf("mld num = %d, want 4", p.MLD.Num)
	}

	vcs := sw.VCS(0)
	if vcs == nil {
		t.Fatal("vcs 0 missing")
	}
	vp := vcs.VPPB(0)
	if vp == nil {
		t.Fatal("vppb 0 missing")
	}
	if vp.BindStatus != model.BoundLD || vp.Ppid != 1 || vp.Ldid != 0 {
		t.Errorf("vppb 0 = %+v, want bound to ppid=1 ldid=0", vp)
	}
}

func TestLoadUnknownDeviceName(t *testing.T) {
	doc := `
emulator:
  name: switch0
switch:
  num_ports: 4
  num_vcss: 1
ports:
  - ppid: 0
    device_name: nonexistent
`
	dir := t.TempDir()
	path := filepath.Join(dir, "switch.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown device_name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/switch.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
