package model

import (
	"fmt"
	"io"
)

// Dump prints a human-readable summary of switch, port, and VCS state.
// Never used on the wire — diagnostic only, reached from cmd/cxl-switch's
// -dump-state flag.
func (s *Switch) Dump(w io.Writer) {
	fmt.Fprintf(w, "switch %q vid=%#04x did=%#04x sn=%#016x ports=%d vcss=%d\n",
		s.Name, s.VID, s.DID, s.SN, len(s.Ports), len(s.VCSs))

	for _, p := range s.Ports {
		if p.State == PortDisabled && p.PRSNT == 0 {
			continue
		}
		fmt.Fprintf(w, "  port %3d state=%-10s dt=%d prsnt=%d device=%q",
			p.Ppid, p.State, p.DT, p.PRSNT, p.DeviceName)
		if p.MLD != nil {
			fmt.Fprintf(w, " mld(num=%d mem=%d)", p.MLD.Num, p.MLD.MemorySize)
		}
		fmt.Fprintln(w)
	}

	for _, v := range s.VCSs {
		active := v.ActiveVPPBs()
		if active == 0 && v.State == VCSDisabled {
			continue
		}
		fmt.Fprintf(w, "  vcs %3d state=%v uspid=%d active_vppbs=%d/%d\n",
			v.Vcsid, v.State, v.Uspid, active, len(v.VPPBs))
		for _, vp := range v.VPPBs {
			if vp.BindStatus == Unbound {
				continue
			}
			fmt.Fprintf(w, "    vppb %3d %s ppid=%d ldid=%d\n",
				vp.Vppbid, vp.BindStatus, vp.Ppid, vp.Ldid)
		}
	}
}
