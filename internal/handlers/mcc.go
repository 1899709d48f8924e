package handlers

import (
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// innerFunc is an MLD component-command handler. Unlike the outer Func
// type, it never touches Switch or the lock: MPC_TMC already holds the
// lock when it calls one of these directly (no re-acquisition — see
// DESIGN NOTES §9's outer/inner split).
type innerFunc func(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error)

var mccTable = map[fmapi.Opcode]innerFunc{
	fmapi.OpMCCInfo:          mccInfo,
	fmapi.OpMCCAllocGet:      mccAllocGet,
	fmapi.OpMCCAllocSet:      mccAllocSet,
	fmapi.OpMCCQoSCtrlGet:    mccQoSCtrlGet,
	fmapi.OpMCCQoSCtrlSet:    mccQoSCtrlSet,
	fmapi.OpMCCQoSStat:       mccQoSStat,
	fmapi.OpMCCQoSBWAllocGet: mccQoSBWAllocGet,
	fmapi.OpMCCQoSBWAllocSet: mccQoSBWAllocSet,
	fmapi.OpMCCQoSBWLimitGet: mccQoSBWLimitGet,
	fmapi.OpMCCQoSBWLimitSet: mccQoSBWLimitSet,
}

func mccInfo(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r := fmapi.MCCInfo{MemorySize: mld.MemorySize, Num: mld.Num, EPC: mld.EPC, TTR: mld.TTR}
	return ok(r.Encode(), fmapi.RCSuccess)
}

func mccAllocGet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeAllocGetReq(req)
	if err != nil {
		return nil, 0, err
	}
	if r.Start > mld.Num {
		return invalid()
	}
	n := int(mld.Num) - int(r.Start)
	if int(r.Limit) < n {
		n = int(r.Limit)
	}
	resp := fmapi.AllocGetResp{Total: mld.Num, Granularity: uint8(mld.Granularity), Start: r.Start}
	for i := 0; i < n; i++ {
		idx := int(r.Start) + i
		resp.Ranges = append(resp.Ranges, fmapi.AllocRange{Rng1: mld.Rng1[idx], Rng2: mld.Rng2[idx]})
	}
	return ok(resp.Encode(), fmapi.RCSuccess)
}

func mccAllocSet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeAllocSetReq(req)
	if err != nil {
		return nil, 0, err
	}
	n := len(r.Ranges)
	if uint8(n) > mld.Num || r.Start > mld.Num || int(r.Start)+n > int(mld.Num) {
		return invalid()
	}
	for i, rg := range r.Ranges {
		mld.Rng1[int(r.Start)+i] = rg.Rng1
		mld.Rng2[int(r.Start)+i] = rg.Rng2
	}
	resp := fmapi.AllocGetResp{Total: mld.Num, Granularity: uint8(mld.Granularity), Start: r.Start, Ranges: r.Ranges}
	return ok(resp.Encode(), fmapi.RCSuccess)
}

func mccQoSCtrlGet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	q := fmapi.QoSCtrl{
		EPCEn: mld.EPCEn, TTREn: mld.TTREn,
		EgressModPcnt: mld.EgressModPcnt, EgressSevPcnt: mld.EgressSevPcnt,
		SampleInterval: mld.SampleInterval, RCB: mld.RCB, CompInterval: mld.CompInterval,
	}
	return ok(q.Encode(), fmapi.RCSuccess)
}

// mccQoSCtrlSet implements MCC_QOS_CTRL_SET with deliberately no range
// validation beyond decode, per spec.md §9: the source this was emulated
// from accepts out-of-domain values (egress_mod_pcnt=0, sample_interval=
// 255) without bounds-checking, and this implementation preserves that
// laxity rather than silently changing accepted behavior.
func mccQoSCtrlSet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	q, err := fmapi.DecodeQoSCtrl(req)
	if err != nil {
		return nil, 0, err
	}
	mld.EPCEn, mld.TTREn = q.EPCEn, q.TTREn
	mld.EgressModPcnt, mld.EgressSevPcnt = q.EgressModPcnt, q.EgressSevPcnt
	mld.SampleInterval, mld.RCB, mld.CompInterval = q.SampleInterval, q.RCB, q.CompInterval
	return ok(q.Encode(), fmapi.RCSuccess)
}

func mccQoSStat(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return ok(fmapi.QoSStat{BPAvgPcnt: mld.BPAvgPcnt}.Encode(), fmapi.RCSuccess)
}

func u8ListGet(list []uint8, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeU8ListGetReq(req)
	if err != nil {
		return nil, 0, err
	}
	if int(r.Start) > len(list) {
		return invalid()
	}
	n := len(list) - int(r.Start)
	if int(r.Limit) < n {
		n = int(r.Limit)
	}
	resp := fmapi.U8ListResp{Total: uint8(len(list)), Start: r.Start, List: append([]uint8(nil), list[r.Start:int(r.Start)+n]...)}
	return ok(resp.Encode(), fmapi.RCSuccess)
}

func u8ListSet(list []uint8, req []byte) ([]byte, fmapi.ReturnCode, error) {
	r, err := fmapi.DecodeU8ListSetReq(req)
	if err != nil {
		return nil, 0, err
	}
	if int(r.Start)+len(r.List) > len(list) {
		return invalid()
	}
	copy(list[r.Start:], r.List)
	resp := fmapi.U8ListResp{Total: uint8(len(list)), Start: 0, List: append([]uint8(nil), list...)}
	return ok(resp.Encode(), fmapi.RCSuccess)
}

func mccQoSBWAllocGet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return u8ListGet(mld.AllocBW, req)
}

func mccQoSBWAllocSet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return u8ListSet(mld.AllocBW, req)
}

func mccQoSBWLimitGet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return u8ListGet(mld.BWLimit, req)
}

func mccQoSBWLimitSet(mld *model.MLD, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return u8ListSet(mld.BWLimit, req)
}
