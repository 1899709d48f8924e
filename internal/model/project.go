package model

// Identity is the read-only projection used by the PSC_ID handler
// (spec.md §4.2 project_identity).
type Identity struct {
	VID, DID, SVID, SSID uint16
	SN                    uint64
	MaxMsgSizeN           uint8
	MsgRspLimitN          uint8
	IngressPort           uint8
	NumPorts              uint8
	NumVCSs               uint8
	NumVPPBs              uint16
	NumDecoders           uint8
	ActivePortsBitmap     []byte
	ActiveVCSsBitmap      []byte
}

// ProjectIdentity builds the Identity projection. Caller must hold the lock.
func (s *Switch) ProjectIdentity() Identity {
	id := Identity{
		VID: s.VID, DID: s.DID, SVID: s.SVID, SSID: s.SSID, SN: s.SN,
		MaxMsgSizeN:  s.MaxMsgSizeN,
		MsgRspLimitN: s.MsgRspLimitN,
		IngressPort:  s.IngressPort,
		NumPorts:     uint8(len(s.Ports)),
		NumVCSs:      uint8(len(s.VCSs)),
		NumDecoders:  s.NumDecoders,
	}

	id.ActivePortsBitmap = make([]byte, (len(s.Ports)+7)/8)
	for i, p := range s.Ports {
		if p.State != PortDisabled {
			id.ActivePortsBitmap[i/8] |= 1 << uint(i%8)
		}
	}

	id.ActiveVCSsBitmap = make([]byte, (len(s.VCSs)+7)/8)
	for i, v := range s.VCSs {
		if v.State != VCSDisabled {
			id.ActiveVCSsBitmap[i/8] |= 1 << uint(i%8)
		}
		id.NumVPPBs += uint16(v.ActiveVPPBs())
	}

	return id
}

// PortInfo is the read-only projection used by PSC_PORT (spec.md §4.2
// project_port).
type PortInfo struct {
	Ppid    uint16
	State   PortState
	DV      uint8
	DT      DeviceType
	CV      uint8
	MLW     uint8
	NLW     uint8
	Speeds  uint8
	MLS     uint8
	CLS     uint8
	LTSSM   uint8
	Lane    uint8
	LaneRev uint8
	PERST   uint8
	PRSNT   uint8
	PWRCtrl uint8
	NumLD   uint8 // 0 if not an MLD port, else MLD.Num
}

// ProjectPort builds the PortInfo projection for p. Caller must hold the lock.
func ProjectPort(p *Port) PortInfo {
	info := PortInfo{
		Ppid: p.Ppid, State: p.State, DV: p.DV, DT: p.DT, CV: p.CV,
		MLW: p.MLW, NLW: p.NLW, Speeds: p.Speeds, MLS: p.MLS, CLS: p.CLS,
		LTSSM: p.LTSSM, Lane: p.Lane, LaneRev: p.LaneRev,
		PERST: p.PERST, PRSNT: p.PRSNT, PWRCtrl: p.PWRCtrl,
	}
	if p.MLD != nil {
		info.NumLD = p.MLD.Num
	}
	return info
}

// VPPBInfo is the per-slot projection embedded in a VCSInfoBlk.
type VPPBInfo struct {
	Vppbid     uint16
	BindStatus BindStatus
	Ppid       uint16
	Ldid       uint16
}

// VCSInfoBlk is the read-only projection used by VSC_INFO (spec.md §4.2
// project_vcs), covering the vPPB window [start,limit).
type VCSInfoBlk struct {
	Vcsid        uint16
	State        VCSState
	Uspid        uint16
	NumVPPBTotal uint16
	VPPBs        []VPPBInfo
}

// ProjectVCS builds the VCSInfoBlk projection for v, including vPPB slots
// in [start,limit). Caller must hold the lock.
func ProjectVCS(v *VCS, start, limit int) VCSInfoBlk {
	blk := VCSInfoBlk{
		Vcsid:        v.Vcsid,
		State:        v.State,
		Uspid:        v.Uspid,
		NumVPPBTotal: uint16(len(v.VPPBs)),
	}
	if start < 0 {
		start = 0
	}
	if limit > len(v.VPPBs) {
		limit = len(v.VPPBs)
	}
	for i := start; i < limit; i++ {
		p := v.VPPBs[i]
		blk.VPPBs = append(blk.VPPBs, VPPBInfo{
			Vppbid: p.Vppbid, BindStatus: p.BindStatus, Ppid: p.Ppid, Ldid: p.Ldid,
		})
	}
	return blk
}
