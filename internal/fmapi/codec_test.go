package fmapi

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{Category: CategoryReq, Tag: 3, Opcode: OpPSCID, Background: false, Length: 0, RC: 0, Ext: 0},
		{Category: CategoryResp, Tag: 3, Opcode: OpPSCID, Background: false, Length: 44, RC: RCSuccess, Ext: 0},
		{Category: CategoryResp, Tag: 0xF, Opcode: OpVSCBind, Background: true, Length: 0x7FFFFF, RC: RCBackgroundOpStarted, Ext: 0x1234},
	}
	for _, h := range cases {
		buf := h.Encode()
		got, err := DecodeHeader(buf[:])
		if err != nil {
			t.Fatalf("DecodeHeader: %v", err)
		}
		if got != h {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
		}
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, 4)); err == nil {
		t.Fatal("expected error decoding short header")
	}
}

func TestISCIdentityRoundTrip(t *testing.T) {
	want := ISCIdentity{VID: 0xB1B2, DID: 0xC1C2, SVID: 0xD1D2, SSID: 0xE1E2, SN: 0xA1A2A3A4A5A6A7A8, MaxMsgSizeN: 13}
	got, err := DecodeISCIdentity(want.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestISCIdentityWireOrder(t *testing.T) {
	id := ISCIdentity{VID: 0xB1B2, DID: 0xC1C2, SVID: 0xD1D2, SSID: 0xE1E2, SN: 0xA1A2A3A4A5A6A7A8, MaxMsgSizeN: 13}
	want := []byte{0xB2, 0xB1, 0xC2, 0xC1, 0xD2, 0xD1, 0xE2, 0xE1, 0xA8, 0xA7, 0xA6, 0xA5, 0xA4, 0xA3, 0xA2, 0xA1, 13}
	if got := id.Encode(); !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestPortIDListRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.Uint8(3)
	e.Uint16(0)
	e.Uint16(32)
	e.Uint16(33)
	got, err := DecodePortIDList(e.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := PortIDList{Ports: []uint16{0, 32, 33}}
	if len(got.Ports) != len(want.Ports) {
		t.Fatalf("got %v, want %v", got.Ports, want.Ports)
	}
	for i := range want.Ports {
		if got.Ports[i] != want.Ports[i] {
			t.Errorf("ports[%d] = %d, want %d", i, got.Ports[i], want.Ports[i])
		}
	}
}

func TestBindReqRoundTrip(t *testing.T) {
	want := BindReq{Vcsid: 0, Vppbid: 1, Ppid: 1, Ldid: 0}
	e := NewEncoder()
	e.Uint16(want.Vcsid)
	e.Uint16(want.Vppbid)
	e.Uint16(want.Ppid)
	e.Uint16(want.Ldid)
	got, err := DecodeBindReq(e.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMemReqWriteThenRead(t *testing.T) {
	e := NewEncoder()
	e.Uint16(1) // ppid
	e.Uint16(0) // ldid
	e.Uint8(1)  // write
	e.Uint32(0x1000)
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	e.Uint16(uint16(len(data)))
	e.Raw(data)

	got, err := DecodeMemReq(e.Bytes())
	if err != nil {
		t.Fatalf("decode write: %v", err)
	}
	if !got.IsWrite || !bytes.Equal(got.Data, data) {
		t.Errorf("got %+v", got)
	}

	e2 := NewEncoder()
	e2.Uint16(1)
	e2.Uint16(0)
	e2.Uint8(0) // read
	e2.Uint32(0x1000)
	e2.Uint16(4)

	got2, err := DecodeMemReq(e2.Bytes())
	if err != nil {
		t.Fatalf("decode read: %v", err)
	}
	if got2.IsWrite || len(got2.Data) != 4 {
		t.Errorf("got %+v", got2)
	}
}

func TestAllocGetSetRoundTrip(t *testing.T) {
	setReq := AllocSetReq{Start: 1, Ranges: []AllocRange{{Rng1: 1, Rng2: 2}, {Rng1: 3, Rng2: 4}}}
	e := NewEncoder()
	e.Uint8(setReq.Start)
	e.Uint8(uint8(len(setReq.Ranges)))
	for _, r := range setReq.Ranges {
		e.Uint8(r.Rng1)
		e.Uint8(r.Rng2)
	}
	got, err := DecodeAllocSetReq(e.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Start != setReq.Start || len(got.Ranges) != len(setReq.Ranges) {
		t.Fatalf("got %+v, want %+v", got, setReq)
	}

	resp := AllocGetResp{Total: 4, Granularity: 0, Start: 1, Ranges: setReq.Ranges}
	buf := resp.Encode()
	if len(buf) != 4+2*len(resp.Ranges) {
		t.Errorf("encoded length = %d, want %d", len(buf), 4+2*len(resp.Ranges))
	}
}

func TestQoSCtrlRoundTrip(t *testing.T) {
	want := QoSCtrl{EPCEn: true, TTREn: false, EgressModPcnt: 50, EgressSevPcnt: 90, SampleInterval: 15, RCB: 2, CompInterval: 100}
	got, err := DecodeQoSCtrl(want.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestU8ListSetGetRoundTrip(t *testing.T) {
	setReq := U8ListSetReq{Start: 1, List: []uint8{0x40, 0x80}}
	e := NewEncoder()
	e.Uint8(setReq.Start)
	e.Uint8(uint8(len(setReq.List)))
	e.Raw(setReq.List)
	got, err := DecodeU8ListSetReq(e.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Start != setReq.Start || !bytes.Equal(got.List, setReq.List) {
		t.Errorf("got %+v, want %+v", got, setReq)
	}

	resp := U8ListResp{Total: 4, Start: 0, List: []uint8{0, 0x40, 0x80, 0}}
	buf := resp.Encode()
	if len(buf) != 3+len(resp.List) {
		t.Errorf("encoded length = %d, want %d", len(buf), 3+len(resp.List))
	}
}
