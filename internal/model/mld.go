package model

import "fmt"

// MLD is the multi-logical-device state owned by a Port. It exists only
// while Port.MLD != nil.
type MLD struct {
	MemorySize uint64
	Num        uint8 // logical device count, 1 <= Num <= MaxLDsPerMLD
	EPC        uint8
	TTR        uint8
	Granularity Granularity

	Rng1    []uint8 // range-1 allocation multiplier, per LD
	Rng2    []uint8 // range-2 allocation multiplier, per LD
	AllocBW []uint8 // 0..255, per LD
	BWLimit []uint8 // 0..255, per LD

	EPCEn          bool
	TTREn          bool
	EgressModPcnt  uint8 // [1,100]
	EgressSevPcnt  uint8 // [1,100]
	SampleInterval uint8 // [0,15]
	RCB            uint8
	CompInterval   uint8 // [0,255]
	BPAvgPcnt      uint8

	CfgSpace [][configSpaceSize]byte // len == Num

	// Optional memory-mapped backing file; both fields are non-nil
	// together, or both nil.
	Mem *BackingMap
}

// validateQoSDomains reports whether the percent/interval fields are within
// the ranges spec.md §3 states as invariants. Nothing calls it at present:
// Connect stores the template's values as given, and MCC_QOS_CTRL_SET
// stores decoded values without checking them (see DESIGN.md
// "MCC_QOS_CTRL_SET laxity").
func (m *MLD) validateQoSDomains() error {
	if m.EgressModPcnt < 1 || m.EgressModPcnt > 100 {
		return fmt.Errorf("egress_mod_pcnt %d out of [1,100]", m.EgressModPcnt)
	}
	if m.EgressSevPcnt < 1 || m.EgressSevPcnt > 100 {
		return fmt.Errorf("egress_sev_pcnt %d out of [1,100]", m.EgressSevPcnt)
	}
	if m.SampleInterval > 15 {
		return fmt.Errorf("sample_interval %d out of [0,15]", m.SampleInterval)
	}
	return nil
}

// ldSize returns the byte extent this logical device is allocated, derived
// from the granularity and its rng1/rng2 multipliers (spec.md §4.3 MPC_MEM).
func (m *MLD) ldSize(ldid uint16) (base, size uint64) {
	g := m.Granularity.Bytes()
	base = g * uint64(m.Rng1[ldid])
	max := g * uint64(m.Rng2[ldid]+1)
	return base, max - base
}
