package handlers

import (
	"log/slog"

	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

func vppbInfoWire(v model.VPPBInfo) fmapi.VPPBInfoWire {
	return fmapi.VPPBInfoWire{
		Vppbid: v.Vppbid, BindStatus: uint8(v.BindStatus), Ppid: v.Ppid, Ldid: v.Ldid,
	}
}

// VSCInfo implements VSC_INFO (0x5300): project each in-range requested
// VCS id over the vPPB window, capped at FMMaxVCSPerRsp blocks.
func VSCInfo(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeVSCInfoReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		var out fmapi.VCSInfoList
		for _, id := range r.VCSs {
			if len(out.VCSs) >= fmapi.FMMaxVCSPerRsp {
				break
			}
			v := m.VCS(int(id))
			if v == nil {
				continue
			}
			blk := model.ProjectVCS(v, int(r.VppbidStart), int(r.VppbidLimit))
			wire := fmapi.VCSInfoWire{
				Vcsid: blk.Vcsid, State: uint8(blk.State), Uspid: blk.Uspid,
				NumVPPBTotal: blk.NumVPPBTotal,
			}
			for _, vp := range blk.VPPBs {
				wire.VPPBs = append(wire.VPPBs, vppbInfoWire(vp))
			}
			out.VCSs = append(out.VCSs, wire)
		}
		return ok(out.Encode(), fmapi.RCSuccess)
	})
}

// VSCBind implements VSC_BIND (0x5301): bind a vPPB to a port or a
// specific logical device within an MLD port.
func VSCBind(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeBindReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		if int(r.Vcsid) >= m.NumVCSs() {
			return invalid()
		}
		vcs := m.VCS(int(r.Vcsid))
		if int(r.Vppbid) >= vcs.Num() {
			return invalid()
		}
		vp := vcs.VPPB(int(r.Vppbid))
		if int(r.Ppid) >= m.NumPorts() {
			return invalid()
		}
		p := m.Port(int(r.Ppid))
		if p.State == model.PortDisabled {
			return invalid()
		}

		ldScoped := r.Ldid != model.LdidUnbound
		if ldScoped && !p.IsType3() {
			return invalid()
		}
		if p.LD > 0 && !ldScoped {
			return invalid()
		}
		if ldScoped && p.LD == 0 {
			return invalid()
		}
		if vp.BindStatus != model.Unbound {
			return invalid()
		}

		if ldScoped {
			vp.BindStatus = model.BoundLD
			vp.Ppid, vp.Ldid = r.Ppid, r.Ldid
		} else {
			vp.BindStatus = model.BoundPort
			vp.Ppid, vp.Ldid = r.Ppid, 0
		}
		p.State = model.PortDSP

		m.BOS = model.BackgroundOp{Running: false, Pcnt: 100, Opcode: uint16(fmapi.OpVSCBind), RC: uint16(fmapi.RCSuccess), Ext: 0}

		slog.Debug("vsc_bind", "vcsid", r.Vcsid, "vppbid", r.Vppbid, "ppid", r.Ppid, "ldid", r.Ldid)
		return ok(nil, fmapi.RCBackgroundOpStarted)
	})
}

// VSCUnbind implements VSC_UNBIND (0x5302).
func VSCUnbind(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeUnbindReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		if int(r.Vcsid) >= m.NumVCSs() {
			return invalid()
		}
		vcs := m.VCS(int(r.Vcsid))
		if int(r.Vppbid) >= vcs.Num() {
			return invalid()
		}
		vp := vcs.VPPB(int(r.Vppbid))
		if vp.BindStatus == model.Unbound || vp.BindStatus == model.InProgress {
			return invalid()
		}
		if int(vp.Ppid) >= m.NumPorts() {
			return invalid()
		}
		p := m.Port(int(vp.Ppid))
		switch p.State {
		case model.PortBinding, model.PortUnbinding, model.PortUSP, model.PortDSP:
		default:
			return invalid()
		}

		vp.Reset()

		m.BOS = model.BackgroundOp{Running: false, Pcnt: 100, Opcode: uint16(fmapi.OpVSCUnbind), RC: uint16(fmapi.RCSuccess), Ext: 0}

		slog.Debug("vsc_unbind", "vcsid", r.Vcsid, "vppbid", r.Vppbid)
		return ok(nil, fmapi.RCBackgroundOpStarted)
	})
}

// VSCAER implements VSC_AER (0x5303): validate only, log the event — this
// emulator never injects AER errors onto the simulated link.
func VSCAER(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeAERReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		if int(r.Vcsid) >= m.NumVCSs() {
			return invalid()
		}
		vcs := m.VCS(int(r.Vcsid))
		if int(r.Vppbid) >= vcs.Num() {
			return invalid()
		}
		slog.Info("vsc_aer", "vcsid", r.Vcsid, "vppbid", r.Vppbid)
		return ok(nil, fmapi.RCSuccess)
	})
}
