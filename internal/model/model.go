// Package model holds the canonical, mutable state of the emulated CXL
// switch: ports, virtual switches, virtual PCIe-to-PCIe bridges,
// multi-logical devices, the device catalog, and switch-wide identity.
// All mutation happens under Switch.mu; handlers in internal/handlers are
// the only other package that touches these fields, and only while holding
// the lock.
package model

import (
	"fmt"
	"sync"
	"time"
)

// Hard ceilings from the CXL 2.0 Fabric Management API.
const (
	MaxPorts        = 256
	MaxVCSs         = 256
	MaxVPPBsPerVCS  = 256
	MaxLDsPerMLD    = 16
	ldidUnbound     = 0xFFFF // sentinel meaning "whole port, not a specific LD"
	defaultNumPorts = 32
	defaultNumVCSs  = 4

	defaultVPPBsPerVCS = 8
)

// LdidUnbound is the wire sentinel for "bind to the whole port" rather than
// a specific logical device.
const LdidUnbound = ldidUnbound

// PortState is the lifecycle state of a physical port.
type PortState uint8

const (
	PortDisabled PortState = iota
	PortBinding
	PortUnbinding
	PortDSP
	PortUSP
	PortFabric
	PortInvalid
)

func (s PortState) String() string {
	switch s {
	case PortDisabled:
		return "DISABLED"
	case PortBinding:
		return "BINDING"
	case PortUnbinding:
		return "UNBINDING"
	case PortDSP:
		return "DSP"
	case PortUSP:
		return "USP"
	case PortFabric:
		return "FABRIC"
	default:
		return "INVALID"
	}
}

// DeviceType mirrors the CXL device-type field reported in port info.
type DeviceType uint8

const (
	DeviceNone DeviceType = iota
	DeviceCxlType1
	DeviceCxlType2
	DeviceCxlType3
	DeviceCxlType3Pooled
)

// DVSEC connection value: whether the attached function is CXL-aware.
const (
	DVNotCXL uint8 = 0
	DVCXL    uint8 = 1
)

// VCSState is the lifecycle state of a virtual CXL switch.
type VCSState uint8

const (
	VCSDisabled VCSState = iota
	VCSEnabled
	VCSInvalid
)

// BindStatus is the binding state of a vPPB slot within a VCS.
type BindStatus uint8

const (
	Unbound BindStatus = iota
	InProgress
	BoundPort
	BoundLD
)

func (s BindStatus) String() string {
	switch s {
	case Unbound:
		return "UNBOUND"
	case InProgress:
		return "INPROGRESS"
	case BoundPort:
		return "BOUND_PORT"
	case BoundLD:
		return "BOUND_LD"
	default:
		return "UNKNOWN"
	}
}

// Granularity is an MLD allocation quantum.
type Granularity uint8

const (
	Granularity256MiB Granularity = 0
	Granularity512MiB Granularity = 1
	Granularity1GiB    Granularity = 2
)

// Bytes returns the quantum size in bytes.
func (g Granularity) Bytes() uint64 {
	switch g {
	case Granularity512MiB:
		return 512 << 20
	case Granularity1GiB:
		return 1 << 30
	default:
		return 256 << 20
	}
}

const configSpaceSize = 4096

// BackgroundOp is the switch-wide background-operation status block.
type BackgroundOp struct {
	Running bool
	Pcnt    uint8
	Opcode  uint16
	RC      uint16
	Ext     uint16
}

// PortDefaults are the per-port link-capability defaults a freshly
// constructed Switch applies before the loader overlays anything.
type PortDefaults struct {
	MLW    uint8
	Speeds uint8 // bitmask, bit i set => PCIe gen i+1 supported
	MLS    uint8 // max supported link speed generation
}

// Switch is the singleton root of the emulated switch model.
type Switch struct {
	mu sync.Mutex

	// Identity
	Name         string
	VID          uint16
	DID          uint16
	SVID         uint16
	SSID         uint16
	SN           uint64
	MaxMsgSizeN  uint8
	MsgRspLimitN uint8 // range [8,20]

	BOS BackgroundOp

	IngressPort  uint8
	NumDecoders  uint8
	PortDefaults PortDefaults

	// Optional filesystem directory for MLD backing files. Empty disables
	// memory-mapped backing entirely.
	Dir string

	Catalog map[string]*CatalogEntry

	Ports []*Port
	VCSs  []*VCS

	CreatedAt time.Time
}

// CatalogEntry is an immutable device template the loader registers; ports
// are connected to a catalog entry by name.
type CatalogEntry struct {
	Name     string
	RootPort bool
	DV       uint8
	DT       DeviceType
	CV       uint8
	MLW      uint8
	MLS      uint8
	CfgSpace [configSpaceSize]byte
	MLD      *MLDTemplate // nil for single-logical-function devices
}

// MLDTemplate is the catalog-side description of an MLD's static shape;
// Connect copies it into a owned *MLD on the target Port.
type MLDTemplate struct {
	MemorySize uint64
	Num        uint8 // logical device count, <= MaxLDsPerMLD
	EPC        uint8
	TTR        uint8
	Granularity Granularity
	Rng1       []uint8
	Rng2       []uint8
	AllocBW    []uint8
	BWLimit    []uint8

	EPCEn           bool
	TTREn           bool
	EgressModPcnt   uint8
	EgressSevPcnt   uint8
	SampleInterval  uint8
	RCB             uint8
	CompInterval    uint8
	BPAvgPcnt       uint8

	Mmap bool
}

// New constructs a Switch with the given port/VCS/vPPB-per-VCS counts,
// clamped to the CXL-defined maxima (a count of zero or less selects the
// default of 32 ports, 4 VCSs, or 8 vPPBs per VCS), with every port
// DISABLED and every VCS empty of bound state. Switch-wide identity is set to fixed defaults;
// callers (normally internal/config) overlay YAML-sourced values with the
// Set* methods below before serving requests.
func New(numPorts, numVCSs, vppbsPerVCS int) *Switch {
	if numPorts <= 0 {
		numPorts = defaultNumPorts
	}
	if numVCSs <= 0 {
		numVCSs = defaultNumVCSs
	}
	if vppbsPerVCS <= 0 {
		vppbsPerVCS = defaultVPPBsPerVCS
	}
	if numPorts > MaxPorts {
		numPorts = MaxPorts
	}
	if numVCSs > MaxVCSs {
		numVCSs = MaxVCSs
	}
	if vppbsPerVCS > MaxVPPBsPerVCS {
		vppbsPerVCS = MaxVPPBsPerVCS
	}

	sw := &Switch{
		VID:          0xB1B2,
		DID:          0xC1C2,
		SVID:         0xD1D2,
		SSID:         0xE1E2,
		SN:           0xA1A2A3A4A5A6A7A8,
		MaxMsgSizeN:  13,
		MsgRspLimitN: 9,
		IngressPort:  1,
		NumDecoders:  42,
		PortDefaults: PortDefaults{
			MLW:    16,
			Speeds: 0x1F, // PCIE1..PCIE5
			MLS:    5,    // PCIE5
		},
		Catalog:   make(map[string]*CatalogEntry),
		Ports:     make([]*Port, numPorts),
		VCSs:      make([]*VCS, numVCSs),
		CreatedAt: time.Now(),
	}

	for i := range sw.Ports {
		sw.Ports[i] = newPort(uint16(i), sw.PortDefaults)
	}
	for i := range sw.VCSs {
		sw.VCSs[i] = newVCS(uint16(i), vppbsPerVCS)
	}

	return sw
}

// Lock acquires the model's exclusive lock. Every handler must hold this
// across every read and write of Switch/Port/VCS/vPPB/MLD state, including
// the construction of response projections, and must release it (via
// Unlock) before any I/O (response enqueue) happens.
func (s *Switch) Lock() { s.mu.Lock() }

// Unlock releases the model's exclusive lock.
func (s *Switch) Unlock() { s.mu.Unlock() }

// NumPorts returns the number of physical ports. Caller must hold the lock
// if concurrent mutation of the port count were possible; port count is
// fixed at construction so this is safe to call unlocked too.
func (s *Switch) NumPorts() int { return len(s.Ports) }

// NumVCSs returns the number of virtual switches. Fixed at construction.
func (s *Switch) NumVCSs() int { return len(s.VCSs) }

// Port returns the port at index ppid, or nil if out of range. Caller must
// hold the lock.
func (s *Switch) Port(ppid int) *Port {
	if ppid < 0 || ppid >= len(s.Ports) {
		return nil
	}
	return s.Ports[ppid]
}

// VCS returns the VCS at index vcsid, or nil if out of range. Caller must
// hold the lock.
func (s *Switch) VCS(vcsid int) *VCS {
	if vcsid < 0 || vcsid >= len(s.VCSs) {
		return nil
	}
	return s.VCSs[vcsid]
}

// ActiveVPPBs returns the count of vPPBs whose bind status is not UNBOUND,
// scanned across every VCS. Caller must hold the lock.
func (s *Switch) ActiveVPPBs() int {
	n := 0
	for _, vcs := range s.VCSs {
		for _, v := range vcs.VPPBs {
			if v.BindStatus != Unbound {
				n++
			}
		}
	}
	return n
}

// RegisterCatalogEntry adds or replaces a device catalog entry. Used by the
// configuration loader and by EM CONN_DEV/LIST_DEV lookups.
func (s *Switch) RegisterCatalogEntry(e *CatalogEntry) {
	s.Catalog[e.Name] = e
}

// CatalogEntryByName returns the named catalog entry, or nil.
func (s *Switch) CatalogEntryByName(name string) *CatalogEntry {
	return s.Catalog[name]
}

// CatalogNames returns catalog entry names in a stable order, used by
// EM LIST_DEV.
func (s *Switch) CatalogNames() []string {
	names := make([]string, 0, len(s.Catalog))
	for n := range s.Catalog {
		names = append(names, n)
	}
	// Deterministic order: EM LIST_DEV pages by a numeric devid, so sort.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func (s *Switch) String() string {
	return fmt.Sprintf("Switch{name=%q vid=%#04x did=%#04x ports=%d vcss=%d}",
		s.Name, s.VID, s.DID, len(s.Ports), len(s.VCSs))
}
