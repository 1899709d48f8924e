package model

import (
	"fmt"
	"path/filepath"
)

// SetIdentity overlays switch-wide identity fields, called by the
// configuration loader before any port is connected.
func (s *Switch) SetIdentity(name string, vid, did, svid, ssid uint16, sn uint64, maxMsgSizeN uint8) {
	s.Name = name
	s.VID, s.DID, s.SVID, s.SSID, s.SN, s.MaxMsgSizeN = vid, did, svid, ssid, sn, maxMsgSizeN
}

// SetMsgRspLimitN overlays the message-response-limit exponent.
func (s *Switch) SetMsgRspLimitN(n uint8) { s.MsgRspLimitN = n }

// SetDir configures the directory used for MLD backing files. An empty dir
// disables memory-mapped backing for every subsequently connected port.
func (s *Switch) SetDir(dir string) { s.Dir = dir }

// SetPortOverride overlays per-port defaults the loader reads from YAML
// (mlw/mls/state/device_name), applied before Connect.
func (s *Switch) SetPortOverride(ppid int, mlw, mls uint8, state PortState, deviceName string) error {
	p := s.Port(ppid)
	if p == nil {
		return fmt.Errorf("set port override: ppid %d out of range", ppid)
	}
	if mlw != 0 {
		p.MLW = mlw
	}
	if mls != 0 {
		p.MLS = mls
	}
	p.State = state
	p.DeviceName = deviceName
	return nil
}

// SetVCS overlays a VCS's upstream port id and state, called by the loader.
func (s *Switch) SetVCS(vcsid int, uspid uint16, state VCSState) error {
	v := s.VCS(vcsid)
	if v == nil {
		return fmt.Errorf("set vcs: vcsid %d out of range", vcsid)
	}
	v.Uspid = uspid
	v.State = state
	return nil
}

// SetVCSSize resizes a VCS's vPPB slice to num slots, clamped to
// MaxVPPBsPerVCS. Existing slots (by index) keep their current state;
// shrinking drops trailing slots, growing appends freshly UNBOUND ones.
// Called by the loader to apply a per-VCS vppb count overriding the
// switch-wide default passed to New.
func (s *Switch) SetVCSSize(vcsid, num int) error {
	v := s.VCS(vcsid)
	if v == nil {
		return fmt.Errorf("set vcs size: vcsid %d out of range", vcsid)
	}
	if num < 0 {
		num = 0
	}
	if num > MaxVPPBsPerVCS {
		num = MaxVPPBsPerVCS
	}
	switch {
	case num == len(v.VPPBs):
		return nil
	case num < len(v.VPPBs):
		v.VPPBs = v.VPPBs[:num]
	default:
		for i := len(v.VPPBs); i < num; i++ {
			v.VPPBs = append(v.VPPBs, &VPPB{Vppbid: uint16(i), BindStatus: Unbound, Ldid: 0})
		}
	}
	return nil
}

// PreBindVPPB applies a loader-supplied vPPB pre-binding without going
// through the VSC_BIND handler's request/response path (no background-op
// bookkeeping, no response to encode) — used only at load time.
func (s *Switch) PreBindVPPB(vcsid, vppbid int, ppid, ldid uint16) error {
	v := s.VCS(vcsid)
	if v == nil {
		return fmt.Errorf("pre-bind: vcsid %d out of range", vcsid)
	}
	vp := v.VPPB(vppbid)
	if vp == nil {
		return fmt.Errorf("pre-bind: vppbid %d out of range in vcs %d", vppbid, vcsid)
	}
	if int(ppid) >= len(s.Ports) {
		return fmt.Errorf("pre-bind: ppid %d out of range", ppid)
	}
	vp.Ppid = ppid
	vp.Ldid = ldid
	if ldid == LdidUnbound {
		vp.BindStatus = BoundPort
	} else {
		vp.BindStatus = BoundLD
	}
	return nil
}

// Connect attaches a catalog entry's device image to a port: copies
// identity and link-capability fields, allocates and fills an MLD when the
// entry describes one, and optionally creates a memory-mapped backing file
// under Switch.Dir. Mirrors spec.md §4.2's Connect exactly.
func (s *Switch) Connect(ppid int, entry *CatalogEntry) error {
	p := s.Port(ppid)
	if p == nil {
		return fmt.Errorf("connect: ppid %d out of range", ppid)
	}
	if entry == nil {
		return fmt.Errorf("connect: nil catalog entry")
	}

	p.DV, p.DT, p.CV = entry.DV, entry.DT, entry.CV
	p.LTSSM = LTSSML0
	p.Lane = 0
	p.LaneRev = 0
	p.PERST = 0
	p.PWRCtrl = 0

	if entry.RootPort {
		p.State = PortUSP
	} else {
		p.State = PortDSP
	}

	mlw := entry.MLW
	if p.MLW < mlw {
		mlw = p.MLW
	}
	p.NLW = mlw << 4

	mls := entry.MLS
	if p.MLS < mls {
		mls = p.MLS
	}
	p.CLS = mls

	p.PRSNT = 1
	p.CfgSpace = entry.CfgSpace
	p.DeviceName = entry.Name

	if entry.MLD != nil {
		mld, err := buildMLD(entry.MLD)
		if err != nil {
			return fmt.Errorf("connect ppid %d: %w", ppid, err)
		}
		p.LD = mld.Num - 1
		if entry.MLD.Mmap && s.Dir != "" {
			path := filepath.Join(s.Dir, fmt.Sprintf("port%d", ppid))
			bm, err := OpenBackingMap(path, mld.MemorySize)
			if err != nil {
				return fmt.Errorf("connect ppid %d: %w", ppid, err)
			}
			mld.Mem = bm
		}
		p.MLD = mld
	} else {
		p.LD = 0
	}

	return nil
}

func buildMLD(t *MLDTemplate) (*MLD, error) {
	num := t.Num
	if num == 0 || num > MaxLDsPerMLD {
		return nil, fmt.Errorf("mld num %d out of [1,%d]", num, MaxLDsPerMLD)
	}

	m := &MLD{
		MemorySize:     t.MemorySize,
		Num:            num,
		EPC:            t.EPC,
		TTR:            t.TTR,
		Granularity:    t.Granularity,
		EPCEn:          t.EPCEn,
		TTREn:          t.TTREn,
		EgressModPcnt:  t.EgressModPcnt,
		EgressSevPcnt:  t.EgressSevPcnt,
		SampleInterval: t.SampleInterval,
		RCB:            t.RCB,
		CompInterval:   t.CompInterval,
		BPAvgPcnt:      t.BPAvgPcnt,
		Rng1:           make([]uint8, num),
		Rng2:           make([]uint8, num),
		AllocBW:        make([]uint8, num),
		BWLimit:        make([]uint8, num),
		CfgSpace:       make([][configSpaceSize]byte, num),
	}
	copy(m.Rng1, t.Rng1)
	copy(m.Rng2, t.Rng2)
	copy(m.AllocBW, t.AllocBW)
	copy(m.BWLimit, t.BWLimit)
	return m, nil
}

// Disconnect clears a port's connected-device state and frees its MLD, if
// any. It does not clear Port.State itself — spec.md §9 records this as a
// known, preserved ambiguity in the source this was emulated from: a caller
// can observe State=DSP with PRSNT=0 after Disconnect. Callers that want a
// fully idle port (e.g. EM DISCON_DEV) must set State separately.
func (s *Switch) Disconnect(ppid int) error {
	p := s.Port(ppid)
	if p == nil {
		return fmt.Errorf("disconnect: ppid %d out of range", ppid)
	}

	p.DV, p.DT, p.CV = DVNotCXL, DeviceNone, 0
	p.NLW, p.CLS = 0, 0
	p.LTSSM, p.Lane, p.LaneRev = 0, 0, 0
	p.PERST, p.PRSNT, p.PWRCtrl = 0, 0, 0
	p.LD = 0
	p.DeviceName = ""
	for i := range p.CfgSpace {
		p.CfgSpace[i] = 0
	}

	if p.MLD != nil {
		if p.MLD.Mem != nil {
			if err := p.MLD.Mem.Sync(); err != nil {
				return fmt.Errorf("disconnect ppid %d: flush backing map: %w", ppid, err)
			}
			if err := p.MLD.Mem.Close(); err != nil {
				return fmt.Errorf("disconnect ppid %d: close backing map: %w", ppid, err)
			}
		}
		p.MLD = nil
	}

	return nil
}
