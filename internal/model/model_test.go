package model

import "testing"

func TestNewDefaults(t *testing.T) {
	sw := New(32, 4, 8)

	if got := sw.NumPorts(); got != 32 {
		t.Fatalf("NumPorts() = %d, want 32", got)
	}
	if got := sw.NumVCSs(); got != 4 {
		t.Fatalf("NumVCSs() = %d, want 4", got)
	}

	p := sw.Port(0)
	if p.State != PortDisabled {
		t.Errorf("port 0 state = %v, want DISABLED", p.State)
	}
	if p.DV != DVNotCXL {
		t.Errorf("port 0 dv = %v, want NOT_CXL", p.DV)
	}
	if p.MLW != 16 {
		t.Errorf("port 0 mlw = %d, want 16", p.MLW)
	}

	v := sw.VCS(0)
	if v.State != VCSDisabled {
		t.Errorf("vcs 0 state = %v, want DISABLED", v.State)
	}
	if v.Num() != 8 {
		t.Errorf("vcs 0 num = %d, want 8", v.Num())
	}
}

func TestNewClampsToMax(t *testing.T) {
	sw := New(MaxPorts+10, MaxVCSs+10, MaxVPPBsPerVCS+10)
	if sw.NumPorts() != MaxPorts {
		t.Errorf("NumPorts() = %d, want %d", sw.NumPorts(), MaxPorts)
	}
	if sw.NumVCSs() != MaxVCSs {
		t.Errorf("NumVCSs() = %d, want %d", sw.NumVCSs(), MaxVCSs)
	}
	if sw.VCS(0).Num() != MaxVPPBsPerVCS {
		t.Errorf("vppbs per vcs = %d, want %d", sw.VCS(0).Num(), MaxVPPBsPerVCS)
	}
}

func TestConnectDisconnect(t *testing.T) {
	sw := New(4, 1, 1)
	entry := &CatalogEntry{
		Name: "ep0",
		DV:   DVCXL, DT: DeviceCxlType3, CV: 1,
		MLW: 16, MLS: 5,
	}
	sw.RegisterCatalogEntry(entry)

	if err := sw.Connect(1, entry); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	p := sw.Port(1)
	if p.State != PortDSP {
		t.Errorf("state after connect = %v, want DSP", p.State)
	}
	if p.PRSNT != 1 {
		t.Errorf("prsnt after connect = %d, want 1", p.PRSNT)
	}
	if p.DT != DeviceCxlType3 {
		t.Errorf("dt after connect = %v, want CXL_TYPE_3", p.DT)
	}

	if err := sw.Disconnect(1); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if p.PRSNT != 0 {
		t.Errorf("prsnt after disconnect = %d, want 0", p.PRSNT)
	}
	if p.DT != DeviceNone {
		t.Errorf("dt after disconnect = %v, want NONE", p.DT)
	}
	// spec.md §9: disconnect does not itself clear State.
	if p.State != PortDSP {
		t.Errorf("state after disconnect = %v, want unchanged DSP (documented ambiguity)", p.State)
	}
}

func TestConnectMLDAllocatesPerLDConfigSpace(t *testing.T) {
	sw := New(4, 1, 1)
	entry := &CatalogEntry{
		Name: "mld0",
		DV:   DVCXL, DT: DeviceCxlType3Pooled, CV: 2,
		MLW: 16, MLS: 5,
		MLD: &MLDTemplate{
			MemorySize: 4 << 30, Num: 4, Granularity: Granularity256MiB,
			Rng1: []uint8{0, 1, 2, 3}, Rng2: []uint8{0, 1, 2, 3},
		},
	}
	sw.RegisterCatalogEntry(entry)

	if err := sw.Connect(2, entry); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	p := sw.Port(2)
	if p.MLD == nil {
		t.Fatal("expected MLD to be allocated")
	}
	if p.LD != 3 {
		t.Errorf("port.ld = %d, want 3 (num-1)", p.LD)
	}
	if len(p.MLD.CfgSpace) != 4 {
		t.Errorf("mld cfgspace count = %d, want 4", len(p.MLD.CfgSpace))
	}

	if err := sw.Disconnect(2); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if p.MLD != nil {
		t.Error("expected MLD to be freed after disconnect")
	}
}

func TestActiveVPPBsInvariant(t *testing.T) {
	sw := New(4, 1, 8)
	if sw.ActiveVPPBs() != 0 {
		t.Fatalf("fresh switch ActiveVPPBs() = %d, want 0", sw.ActiveVPPBs())
	}

	entry := &CatalogEntry{Name: "ep", DV: DVCXL, DT: DeviceCxlType3, MLW: 16, MLS: 5}
	sw.RegisterCatalogEntry(entry)
	if err := sw.Connect(1, entry); err != nil {
		t.Fatal(err)
	}

	vp := sw.VCS(0).VPPB(0)
	vp.BindStatus = BoundPort
	vp.Ppid = 1
	vp.Ldid = LdidUnbound

	if got := sw.ActiveVPPBs(); got != 1 {
		t.Errorf("ActiveVPPBs() = %d, want 1", got)
	}

	vp.Reset()
	if sw.ActiveVPPBs() != 0 {
		t.Errorf("ActiveVPPBs() after reset = %d, want 0", sw.ActiveVPPBs())
	}
	if vp.Ppid != 0 || vp.Ldid != 0 || vp.BindStatus != Unbound {
		t.Errorf("vppb after reset = %+v, want zero-valued unbound", vp)
	}
}
