package handlers

import (
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// PSCID implements PSC_ID (0x5100): project_identity, no validation.
func PSCID(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		id := m.ProjectIdentity()
		w := fmapi.Identity{
			VID: id.VID, DID: id.DID, SVID: id.SVID, SSID: id.SSID, SN: id.SN,
			IngressPort:       id.IngressPort,
			NumPorts:          id.NumPorts,
			NumVCSs:           id.NumVCSs,
			MaxMsgSizeN:       id.MaxMsgSizeN,
			MsgRspLimitN:      id.MsgRspLimitN,
			NumVPPBs:          id.NumVPPBs,
			NumDecoders:       id.NumDecoders,
			ActivePortsBitmap: id.ActivePortsBitmap,
			ActiveVCSsBitmap:  id.ActiveVCSsBitmap,
		}
		return ok(w.Encode(), fmapi.RCSuccess)
	})
}

func portInfoWire(p model.PortInfo) fmapi.PortInfoWire {
	return fmapi.PortInfoWire{
		Ppid: p.Ppid, State: uint8(p.State), DV: p.DV, DT: uint8(p.DT), CV: p.CV,
		MLW: p.MLW, NLW: p.NLW, Speeds: p.Speeds, MLS: p.MLS, CLS: p.CLS,
		LTSSM: p.LTSSM, Lane: p.Lane, LaneRev: p.LaneRev,
		PERST: p.PERST, PRSNT: p.PRSNT, PWRCtrl: p.PWRCtrl, NumLD: p.NumLD,
	}
}

// PSCPort implements PSC_PORT (0x5101): project each in-range requested
// port id, skipping out-of-range ones.
func PSCPort(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	ids, err := fmapi.DecodePortIDList(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		var out fmapi.PortInfoList
		for _, id := range ids.Ports {
			p := m.Port(int(id))
			if p == nil {
				continue
			}
			out.Ports = append(out.Ports, portInfoWire(model.ProjectPort(p)))
		}
		return ok(out.Encode(), fmapi.RCSuccess)
	})
}

// PSCPortCtrl implements PSC_PORT_CTRL (0x5102): ASSERT_PERST/
// DEASSERT_PERST mutate perst; RESET_PPB is a no-op.
func PSCPortCtrl(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodePortCtrl(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		p := m.Port(int(r.Ppid))
		if p == nil {
			return invalid()
		}
		switch r.Op {
		case fmapi.PortCtrlAssertPERST:
			p.PERST = 1
		case fmapi.PortCtrlDeassertPERST:
			p.PERST = 0
		case fmapi.PortCtrlResetPPB:
			// no-op: the emulator never models PPB reset side effects.
		default:
			return invalid()
		}
		return ok(nil, fmapi.RCSuccess)
	})
}

// PSCCfg implements PSC_CFG (0x5103): byte-enable-masked PCI config-space
// access into a port's own 4 KiB buffer.
func PSCCfg(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	a, err := fmapi.DecodePSCCfg(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		p := m.Port(int(a.Ppid))
		if p == nil {
			return invalid()
		}
		addr := (int(a.Ext) << 8) | int(a.Reg)
		var resp fmapi.CfgData
		for i := 0; i < 4; i++ {
			if a.FDBE&(1<<uint(i)) == 0 {
				continue
			}
			off := addr + i
			if off < 0 || off >= len(p.CfgSpace) {
				return invalid()
			}
			if a.IsWrite {
				p.CfgSpace[off] = a.Data[i]
			} else {
				resp.Data[i] = p.CfgSpace[off]
			}
		}
		return ok(resp.Encode(), fmapi.RCSuccess)
	})
}
