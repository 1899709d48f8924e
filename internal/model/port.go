package model

// Port is a physical port of the switch, indexed 0..NumPorts-1 by Ppid.
type Port struct {
	Ppid uint16

	State PortState

	// Connected-device descriptors; meaningful only while State != DISABLED.
	DV uint8
	DT DeviceType
	CV uint8

	// Link capability.
	MLW     uint8 // max link width this port supports
	NLW     uint8 // negotiated link width (nibble-encoded, see Connect)
	Speeds  uint8 // supported-speeds bitmask
	MLS     uint8 // max link speed this port supports
	CLS     uint8 // current (negotiated) link speed
	LTSSM   uint8
	Lane    uint8
	LaneRev uint8

	// Pin/control.
	PERST   uint8
	PRSNT   uint8
	PWRCtrl uint8

	// Additional logical devices beyond the first one; 0 for a non-MLD
	// port. Equal to MLD.Num-1 when an MLD is attached (kept denormalized
	// because spec.md §3 defines Port.ld independently of Port.MLD, and a
	// disconnect clears ld without necessarily tearing down state atomically
	// with the MLD free in every intermediate step).
	LD uint8

	CfgSpace [configSpaceSize]byte

	MLD *MLD // nil when the port has no attached multi-logical device.

	DeviceName string
}

func newPort(ppid uint16, d PortDefaults) *Port {
	return &Port{
		Ppid:   ppid,
		State:  PortDisabled,
		DV:     DVNotCXL,
		DT:     DeviceNone,
		CV:     0,
		MLW:    d.MLW,
		Speeds: d.Speeds,
		MLS:    d.MLS,
		LTSSM:  0, // DISABLED
		PRSNT:  0,
	}
}

// IsMLD reports whether this port hosts a multi-logical device with more
// than one logical device.
func (p *Port) IsMLD() bool {
	return p.MLD != nil && p.LD > 0
}

// IsType3 reports whether the attached device is CXL Type 3 (single or
// pooled).
func (p *Port) IsType3() bool {
	return p.DT == DeviceCxlType3 || p.DT == DeviceCxlType3Pooled
}
