package handlers

import (
	"github.com/cxlfabric/swemu/internal/emuapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// EmuFunc is the signature for CSE (emulator control) handlers. The
// request carries its a/b fields from the outer header rather than a
// decoded payload struct, since every CSE opcode packs its whole request
// into those two bytes.
type EmuFunc func(m *model.Switch, a, b uint8) (rsp []byte, rc emuapi.ReturnCode)

// EmuListDev implements LIST_DEV (0x01): a=num_requested, b=start.
func EmuListDev(m *model.Switch, a, b uint8) ([]byte, emuapi.ReturnCode) {
	m.Lock()
	defer m.Unlock()

	names := m.CatalogNames()
	start := int(b)
	if start > len(names) {
		start = len(names)
	}
	n := len(names) - start
	if int(a) < n {
		n = int(a)
	}

	list := emuapi.DeviceList{Total: uint8(len(names))}
	for i := 0; i < n; i++ {
		list.Entries = append(list.Entries, emuapi.DeviceEntry{Devid: uint8(start + i), Name: names[start+i]})
	}
	return list.Encode(), emuapi.RCSuccess
}

// EmuConnDev implements CONN_DEV (0x02): a=ppid, b=devid.
func EmuConnDev(m *model.Switch, a, b uint8) ([]byte, emuapi.ReturnCode) {
	m.Lock()
	defer m.Unlock()

	names := m.CatalogNames()
	if int(b) >= len(names) {
		return nil, emuapi.RCInvalidInput
	}
	entry := m.CatalogEntryByName(names[b])
	if entry == nil {
		return nil, emuapi.RCInvalidInput
	}
	if err := m.Connect(int(a), entry); err != nil {
		return nil, emuapi.RCInvalidInput
	}
	return nil, emuapi.RCSuccess
}

// EmuDisconDev implements DISCON_DEV (0x03): a=ppid, b=all (unused — this
// emulator has exactly one device per port, so "all" is a no-op
// distinction).
func EmuDisconDev(m *model.Switch, a, b uint8) ([]byte, emuapi.ReturnCode) {
	m.Lock()
	defer m.Unlock()

	if err := m.Disconnect(int(a)); err != nil {
		return nil, emuapi.RCInvalidInput
	}
	// Unlike the FM API's disconnect ambiguity (spec.md §9), the emulator
	// control plane's DISCON_DEV is expected to fully idle the port: the
	// scenario in spec.md §8 observes state=0 after DISCON_DEV.
	p := m.Port(int(a))
	if p != nil {
		p.State = model.PortDisabled
	}
	return nil, emuapi.RCSuccess
}
