package handlers

import (
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// MPCCfg implements MPC_CFG (0x5400): config-space access into a specific
// logical device's buffer, using the same byte-enable mask as PSC_CFG.
func MPCCfg(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	a, err := fmapi.DecodeMPCCfg(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		p := m.Port(int(a.Ppid))
		if p == nil || !p.IsType3() || p.MLD == nil || a.Ldid >= uint16(p.LD) {
			return invalid()
		}
		cfg := &p.MLD.CfgSpace[a.Ldid]
		addr := (int(a.Ext) << 8) | int(a.Reg)
		var resp fmapi.CfgData
		for i := 0; i < 4; i++ {
			if a.FDBE&(1<<uint(i)) == 0 {
				continue
			}
			off := addr + i
			if off < 0 || off >= len(cfg) {
				return invalid()
			}
			if a.IsWrite {
				cfg[off] = a.Data[i]
			} else {
				resp.Data[i] = cfg[off]
			}
		}
		return ok(resp.Encode(), fmapi.RCSuccess)
	})
}

// MPCMem implements MPC_MEM (0x5401): 4 KiB-bounded memory pass-through
// into a logical device's backing map.
func MPCMem(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeMemReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		p := m.Port(int(r.Ppid))
		if p == nil || !p.IsType3() || r.Ldid >= uint16(p.LD) {
			return invalid()
		}
		if p.MLD == nil || p.MLD.Mem == nil {
			return unsupported()
		}
		if len(r.Data) > 4096 {
			return invalid()
		}
		base, ldSize := p.MLD.ldSize(r.Ldid)
		if uint64(r.Offset)+uint64(len(r.Data)) >= ldSize {
			return invalid()
		}
		absOff := base + uint64(r.Offset)
		if r.IsWrite {
			if err := p.MLD.Mem.WriteAt(r.Data, absOff); err != nil {
				return invalid()
			}
			return ok(nil, fmapi.RCSuccess)
		}
		buf := make([]byte, len(r.Data))
		if err := p.MLD.Mem.ReadAt(buf, absOff); err != nil {
			return invalid()
		}
		return ok(fmapi.MemResp{Data: buf}.Encode(), fmapi.RCSuccess)
	})
}

// MPCTMC implements MPC_TMC (0x5402): decode the inner CCI envelope and
// dispatch directly to the matching MCC inner handler, without
// re-acquiring the lock (the outer dispatch already holds it via
// withLock, and the inner handler is called from inside that closure).
func MPCTMC(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeTMCReq(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		p := m.Port(int(r.Ppid))
		if p == nil || !p.IsType3() {
			return invalid()
		}

		innerHdr, err := fmapi.DecodeHeader(r.Inner)
		if err != nil || len(r.Inner) < fmapi.HeaderSize {
			return invalid()
		}
		innerReq := r.Inner[fmapi.HeaderSize:]
		if int(innerHdr.Length) > len(innerReq) {
			return invalid()
		}
		innerReq = innerReq[:innerHdr.Length]

		fn, found := mccTable[innerHdr.Opcode]
		var innerRsp []byte
		var innerRC fmapi.ReturnCode
		if !found || p.MLD == nil {
			innerRC = fmapi.RCUnsupported
		} else {
			innerRsp, innerRC, err = fn(p.MLD, innerReq)
			if err != nil {
				innerRC = fmapi.RCInvalidInput
				innerRsp = nil
			}
		}

		outHdr := fmapi.Header{
			Category: fmapi.CategoryResp, Tag: innerHdr.Tag, Opcode: innerHdr.Opcode,
			Length: uint32(len(innerRsp)), RC: innerRC,
		}
		encoded := outHdr.Encode()
		full := append(encoded[:], innerRsp...)

		return ok(fmapi.TMCResp{Inner: full}.Encode(), fmapi.RCSuccess)
	})
}
