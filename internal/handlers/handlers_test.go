package handlers

import (
	"bytes"
	"testing"

	"github.com/cxlfabric/swemu/internal/emuapi"
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

func newTestSwitch(t *testing.T) *model.Switch {
	t.Helper()
	m := model.New(32, 4, 8)
	m.SetIdentity("switch0", 0xB1B2, 0xC1C2, 0xD1D2, 0xE1E2, 0xA1A2A3A4A5A6A7A8, 13)
	m.SetDir(t.TempDir())

	mld5x8 := &model.CatalogEntry{
		Name: "mld_5x8_2.0_4G", DV: model.DVCXL, DT: model.DeviceCxlType3Pooled, CV: 1,
		MLW: 16, MLS: 5,
		MLD: &model.MLDTemplate{
			MemorySize: 4 << 30, Num: 4, Granularity: model.Granularity256MiB,
			Rng1: []uint8{0, 1, 2, 3}, Rng2: []uint8{3, 4, 5, 6},
			Mmap: true,
		},
	}
	m.RegisterCatalogEntry(mld5x8)
	if err := m.Connect(1, mld5x8); err != nil {
		t.Fatalf("connect port 1: %v", err)
	}

	mld1_1 := &model.CatalogEntry{
		Name: "mld_5x8_1.1_4G", DV: model.DVCXL, DT: model.DeviceCxlType3Pooled, CV: 1,
		MLW: 16, MLS: 5,
		MLD: &model.MLDTemplate{
			MemorySize: 4 << 30, Num: 4, Granularity: model.Granularity256MiB,
			Rng1: []uint8{0, 1, 2, 3}, Rng2: []uint8{3, 4, 5, 6},
		},
	}
	m.RegisterCatalogEntry(mld1_1)
	if err := m.Connect(2, mld1_1); err != nil {
		t.Fatalf("connect port 2: %v", err)
	}

	return m
}

func TestIdentifyScenario(t *testing.T) {
	m := newTestSwitch(t)
	rsp, rc, err := PSCID(m, nil)
	if err != nil {
		t.Fatalf("PSCID: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("rc = %v, want SUCCESS", rc)
	}
	if len(rsp) < 16 {
		t.Fatalf("response too short: %d bytes", len(rsp))
	}
	want := []byte{0xB2, 0xB1, 0xC2, 0xC1, 0xD2, 0xD1, 0xE2, 0xE1, 0xA8, 0xA7, 0xA6, 0xA5, 0xA4, 0xA3, 0xA2, 0xA1}
	if !bytes.Equal(rsp[:16], want) {
		t.Errorf("identity prefix = % x, want % x", rsp[:16], want)
	}
	// ingress_port=1, num_ports=32, num_vcss=4
	if rsp[16] != 1 || rsp[17] != 32 || rsp[18] != 4 {
		t.Errorf("counts = %v, want [1 32 4]", rsp[16:19])
	}
}

func TestBindThenListVCS(t *testing.T) {
	m := newTestSwitch(t)

	bindReq := fmapi.BindReq{Vcsid: 0, Vppbid: 1, Ppid: 1, Ldid: 0}
	e := fmapi.NewEncoder()
	e.Uint16(bindReq.Vcsid)
	e.Uint16(bindReq.Vppbid)
	e.Uint16(bindReq.Ppid)
	e.Uint16(bindReq.Ldid)
	_, rc, err := VSCBind(m, e.Bytes())
	if err != nil {
		t.Fatalf("VSCBind: %v", err)
	}
	if rc != fmapi.RCBackgroundOpStarted {
		t.Fatalf("rc = %v, want BACKGROUND_OP_STARTED", rc)
	}

	infoReq := fmapi.VSCInfoReq{VCSs: []uint16{0}, VppbidStart: 0, VppbidLimit: 8}
	ei := fmapi.NewEncoder()
	ei.Uint8(uint8(len(infoReq.VCSs)))
	for _, v := range infoReq.VCSs {
		ei.Uint16(v)
	}
	ei.Uint16(infoReq.VppbidStart)
	ei.Uint16(infoReq.VppbidLimit)

	rsp, rc, err := VSCInfo(m, ei.Bytes())
	if err != nil {
		t.Fatalf("VSCInfo: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("rc = %v, want SUCCESS", rc)
	}
	if m.BOS.Pcnt != 100 || m.BOS.Opcode != uint16(fmapi.OpVSCBind) {
		t.Errorf("BOS = %+v, want pcnt=100 opcode=0x%04x", m.BOS, fmapi.OpVSCBind)
	}

	vp := m.VCS(0).VPPB(1)
	if vp.BindStatus != model.BoundLD || vp.Ppid != 1 || vp.Ldid != 0 {
		t.Errorf("vppb = %+v, want BOUND_LD ppid=1 ldid=0", vp)
	}
	if len(rsp) == 0 {
		t.Error("expected non-empty VSC_INFO response")
	}
}

func TestInvalidBind(t *testing.T) {
	m := newTestSwitch(t)
	e := fmapi.NewEncoder()
	e.Uint16(99) // vcsid out of range
	e.Uint16(0)
	e.Uint16(1)
	e.Uint16(0)

	_, rc, err := VSCBind(m, e.Bytes())
	if err != nil {
		t.Fatalf("VSCBind: %v", err)
	}
	if rc != fmapi.RCInvalidInput {
		t.Fatalf("rc = %v, want INVALID_INPUT", rc)
	}
	for _, vcs := range m.VCSs {
		for _, vp := range vcs.VPPBs {
			if vp.BindStatus != model.Unbound {
				t.Errorf("unexpected bound vppb %+v after invalid bind", vp)
			}
		}
	}
}

func TestMPCMemRoundTrip(t *testing.T) {
	m := newTestSwitch(t)
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	ew := fmapi.NewEncoder()
	ew.Uint16(1) // ppid
	ew.Uint16(0) // ldid
	ew.Uint8(1)  // write
	ew.Uint32(0x1000)
	ew.Uint16(uint16(len(data)))
	ew.Raw(data)

	_, rc, err := MPCMem(m, ew.Bytes())
	if err != nil {
		t.Fatalf("MPCMem write: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("write rc = %v, want SUCCESS", rc)
	}

	er := fmapi.NewEncoder()
	er.Uint16(1)
	er.Uint16(0)
	er.Uint8(0)
	er.Uint32(0x1000)
	er.Uint16(uint16(len(data)))

	rsp, rc, err := MPCMem(m, er.Bytes())
	if err != nil {
		t.Fatalf("MPCMem read: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("read rc = %v, want SUCCESS", rc)
	}
	if !bytes.Equal(rsp, data) {
		t.Errorf("read back %x, want %x", rsp, data)
	}
}

func TestQoSBWAllocSetThenGet(t *testing.T) {
	m := newTestSwitch(t)
	p := m.Port(2)

	setReq := fmapi.U8ListSetReq{Start: 1, List: []uint8{0x40, 0x80}}
	es := fmapi.NewEncoder()
	es.Uint8(setReq.Start)
	es.Uint8(uint8(len(setReq.List)))
	es.Raw(setReq.List)

	_, rc, err := mccQoSBWAllocSet(p.MLD, es.Bytes())
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("set rc = %v, want SUCCESS", rc)
	}

	getReq := fmapi.U8ListGetReq{Start: 0, Limit: 4}
	eg := fmapi.NewEncoder()
	eg.Uint8(getReq.Start)
	eg.Uint8(getReq.Limit)

	rsp, rc, err := mccQoSBWAllocGet(p.MLD, eg.Bytes())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rc != fmapi.RCSuccess {
		t.Fatalf("get rc = %v, want SUCCESS", rc)
	}
	// Response layout: total(1) start(1) num(1) list...
	if len(rsp) < 3 {
		t.Fatalf("short response: %d bytes", len(rsp))
	}
	list := rsp[3:]
	want := []uint8{0, 0x40, 0x80, 0}
	if !bytes.Equal(list, want) {
		t.Errorf("list = %v, want %v", list, want)
	}
}

func TestEmulatorConnectDisconnect(t *testing.T) {
	m := newTestSwitch(t)
	entry := &model.CatalogEntry{
		Name: "mld_5x8_1.1_4G_extra", DV: model.DVCXL, DT: model.DeviceCxlType3Pooled,
		MLW: 16, MLS: 5,
		MLD: &model.MLDTemplate{MemorySize: 4 << 30, Num: 4, Granularity: model.Granularity256MiB,
			Rng1: []uint8{0, 1, 2, 3}, Rng2: []uint8{3, 4, 5, 6}},
	}
	m.RegisterCatalogEntry(entry)
	names := m.CatalogNames()
	var devid uint8
	for i, n := range names {
		if n == entry.Name {
			devid = uint8(i)
		}
	}

	_, rc := EmuConnDev(m, 10, devid)
	if rc != emuapi.RCSuccess {
		t.Fatalf("ConnDev rc = %v, want SUCCESS", rc)
	}

	req := fmapi.PortIDList{Ports: []uint16{10}}
	e := fmapi.NewEncoder()
	e.Uint8(uint8(len(req.Ports)))
	for _, p := range req.Ports {
		e.Uint16(p)
	}
	rsp, _, err := PSCPort(m, e.Bytes())
	if err != nil {
		t.Fatalf("PSCPort: %v", err)
	}
	// count(1) ppid(2) state(1) dv(1) dt(1) ...
	if rsp[5] != uint8(model.DeviceCxlType3Pooled) {
		t.Errorf("dt = %d, want CXL_TYPE_3_POOLED", rsp[5])
	}

	_, rc = EmuDisconDev(m, 10, 0)
	if rc != emuapi.RCSuccess {
		t.Fatalf("DisconDev rc = %v, want SUCCESS", rc)
	}
	p := m.Port(10)
	if p.PRSNT != 0 || p.DT != model.DeviceNone {
		t.Errorf("port after discon = %+v", p)
	}
}
