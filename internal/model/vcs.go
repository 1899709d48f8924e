package model

// VCS is a Virtual CXL Switch, an FM-visible logical switch carved out of
// the physical switch, indexed 0..NumVCSs-1 by Vcsid.
type VCS struct {
	Vcsid uint16
	State VCSState
	Uspid uint16 // upstream physical port id
	VPPBs []*VPPB
}

func newVCS(vcsid uint16, numVPPBs int) *VCS {
	if numVPPBs < 0 {
		numVPPBs = 0
	}
	if numVPPBs > MaxVPPBsPerVCS {
		numVPPBs = MaxVPPBsPerVCS
	}
	v := &VCS{
		Vcsid: vcsid,
		State: VCSDisabled,
		VPPBs: make([]*VPPB, numVPPBs),
	}
	for i := range v.VPPBs {
		v.VPPBs[i] = &VPPB{Vppbid: uint16(i), BindStatus: Unbound, Ldid: 0}
	}
	return v
}

// Num is the number of vPPB slots in this VCS.
func (v *VCS) Num() int { return len(v.VPPBs) }

// VPPB returns the vPPB at index vppbid, or nil if out of range.
func (v *VCS) VPPB(vppbid int) *VPPB {
	if vppbid < 0 || vppbid >= len(v.VPPBs) {
		return nil
	}
	return v.VPPBs[vppbid]
}

// ActiveVPPBs returns the count of non-UNBOUND vPPBs in this VCS.
func (v *VCS) ActiveVPPBs() int {
	n := 0
	for _, p := range v.VPPBs {
		if p.BindStatus != Unbound {
			n++
		}
	}
	return n
}
