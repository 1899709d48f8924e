package emuapi

import "io"

// DeviceEntry is one catalog entry as reported by LIST_DEV: a stable
// numeric devid (the entry's position in Switch.CatalogNames()) paired
// with its catalog name.
type DeviceEntry struct {
	Devid uint8
	Name  string
}

// DeviceList is LIST_DEV's response body. The request carries no body of
// its own — num_requested and start travel in the header's a/b fields.
type DeviceList struct {
	Total   uint8
	Entries []DeviceEntry
}

// Encode serializes a DeviceList as a total byte and an entry-count byte
// followed by, for each entry, devid(1) + name-length(1) + name bytes.
func (r DeviceList) Encode() []byte {
	buf := make([]byte, 0, 2+len(r.Entries)*8)
	buf = append(buf, r.Total, uint8(len(r.Entries)))
	for _, e := range r.Entries {
		buf = append(buf, e.Devid, uint8(len(e.Name)))
		buf = append(buf, e.Name...)
	}
	return buf
}

// DecodeDeviceList parses a DeviceList, used by test harnesses that act as
// an emulator-API client against this package's own encoding.
func DecodeDeviceList(buf []byte) (DeviceList, error) {
	if len(buf) < 2 {
		return DeviceList{}, io.ErrUnexpectedEOF
	}
	r := DeviceList{Total: buf[0]}
	n := int(buf[1])
	pos := 2
	for i := 0; i < n; i++ {
		if pos+2 > len(buf) {
			return r, io.ErrUnexpectedEOF
		}
		devid := buf[pos]
		nameLen := int(buf[pos+1])
		pos += 2
		if pos+nameLen > len(buf) {
			return r, io.ErrUnexpectedEOF
		}
		r.Entries = append(r.Entries, DeviceEntry{Devid: devid, Name: string(buf[pos : pos+nameLen])})
		pos += nameLen
	}
	return r, nil
}
