package emuapi

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{Type: 0, Tag: 5, Opcode: OpListDev, Length: 0, A: 2, B: 0, RC: RCSuccess},
		{Type: 0, Tag: 0xF, Opcode: OpConnDev, Length: 0xFFFFFF, A: 10, B: 3, RC: RCInvalidInput},
		{Type: 0, Tag: 1, Opcode: OpDisconDev, Length: 0, A: 10, B: 0, RC: RCSuccess},
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

func TestDeviceListRoundTrip(t *testing.T) {
	want := DeviceList{
		Total: 3,
		Entries: []DeviceEntry{
			{Devid: 0, Name: "mld_5x8_1.1_4G"},
			{Devid: 1, Name: "mld_5x8_2.0_4G"},
		},
	}
	got, err := DecodeDeviceList(want.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != want.Total || len(got.Entries) != len(want.Entries) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want.Entries {
		if got.Entries[i] != want.Entries[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got.Entries[i], want.Entries[i])
		}
	}
}
