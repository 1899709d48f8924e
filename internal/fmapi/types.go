package fmapi

import "fmt"

// Per-opcode request and response payload shapes. Each type owns Encode
// (returns the wire bytes) and a matching Decode function, following the
// structural identifiers spec.md §4.1 names: scalars, fixed arrays,
// counted-list-of-blocks, and (for MPC_TMC) a nested envelope.

// --- ISC ---

// ISCIdentity is ISC ID's response: a narrower identity slice than
// PSC_ID's full Identity projection (no port/VCS counts).
type ISCIdentity struct {
	VID, DID, SVID, SSID uint16
	SN                    uint64
	MaxMsgSizeN           uint8
}

func (r ISCIdentity) Encode() []byte {
	e := NewEncoder()
	e.Uint16(r.VID)
	e.Uint16(r.DID)
	e.Uint16(r.SVID)
	e.Uint16(r.SSID)
	e.Uint64(r.SN)
	e.Uint8(r.MaxMsgSizeN)
	return e.Bytes()
}

func DecodeISCIdentity(buf []byte) (ISCIdentity, error) {
	d := NewDecoder(buf)
	var r ISCIdentity
	var err error
	if r.VID, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.DID, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.SVID, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.SSID, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.SN, err = d.Uint64(); err != nil {
		return r, err
	}
	if r.MaxMsgSizeN, err = d.Uint8(); err != nil {
		return r, err
	}
	return r, nil
}

// BackgroundOpBlock is ISC BOS's response shape.
type BackgroundOpBlock struct {
	Running bool
	Pcnt    uint8
	Opcode  uint16
	RC      uint16
	Ext     uint16
}

func (r BackgroundOpBlock) Encode() []byte {
	e := NewEncoder()
	if r.Running {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
	e.Uint8(r.Pcnt)
	e.Uint16(r.Opcode)
	e.Uint16(r.RC)
	e.Uint16(r.Ext)
	return e.Bytes()
}

// MsgLimit is both ISC MSG_LIMIT_GET's response and MSG_LIMIT_SET's
// request/response (the set path echoes the assigned value).
type MsgLimit struct {
	LimitN uint8
}

func (r MsgLimit) Encode() []byte {
	e := NewEncoder()
	e.Uint8(r.LimitN)
	return e.Bytes()
}

func DecodeMsgLimit(buf []byte) (MsgLimit, error) {
	d := NewDecoder(buf)
	v, err := d.Uint8()
	return MsgLimit{LimitN: v}, err
}

// --- PSC ---

// Identity is PSC_ID's response: the full switch-wide identity and count
// projection (model.Identity mirrored as a wire shape).
type Identity struct {
	VID, DID, SVID, SSID uint16
	SN                    uint64
	IngressPort           uint8
	NumPorts              uint8
	NumVCSs               uint8
	MaxMsgSizeN           uint8
	MsgRspLimitN          uint8
	NumVPPBs              uint16
	NumDecoders           uint8
	ActivePortsBitmap     []byte
	ActiveVCSsBitmap      []byte
}

func (r Identity) Encode() []byte {
	e := NewEncoder()
	e.Uint16(r.VID)
	e.Uint16(r.DID)
	e.Uint16(r.SVID)
	e.Uint16(r.SSID)
	e.Uint64(r.SN)
	e.Uint8(r.IngressPort)
	e.Uint8(r.NumPorts)
	e.Uint8(r.NumVCSs)
	e.Uint8(r.MaxMsgSizeN)
	e.Uint8(r.MsgRspLimitN)
	e.Uint16(r.NumVPPBs)
	e.Uint8(r.NumDecoders)
	e.Raw(r.ActivePortsBitmap)
	e.Raw(r.ActiveVCSsBitmap)
	return e.Bytes()
}

// PortIDList is PSC_PORT's request: the caller-supplied port ids to
// project, out-of-range entries silently skipped by the handler.
type PortIDList struct {
	Ports []uint16
}

func DecodePortIDList(buf []byte) (PortIDList, error) {
	d := NewDecoder(buf)
	n, err := d.Uint8()
	if err != nil {
		return PortIDList{}, err
	}
	ids := make([]uint16, n)
	for i := range ids {
		if ids[i], err = d.Uint16(); err != nil {
			return PortIDList{}, err
		}
	}
	return PortIDList{Ports: ids}, nil
}

// PortInfoWire is one PSC_PORT response block.
type PortInfoWire struct {
	Ppid                          uint16
	State                         uint8
	DV                            uint8
	DT                            uint8
	CV                            uint8
	MLW, NLW, Speeds, MLS, CLS    uint8
	LTSSM, Lane, LaneRev          uint8
	PERST, PRSNT, PWRCtrl         uint8
	NumLD                         uint8
}

func (p PortInfoWire) encodeInto(e *Encoder) {
	e.Uint16(p.Ppid)
	e.Uint8(p.State)
	e.Uint8(p.DV)
	e.Uint8(p.DT)
	e.Uint8(p.CV)
	e.Uint8(p.MLW)
	e.Uint8(p.NLW)
	e.Uint8(p.Speeds)
	e.Uint8(p.MLS)
	e.Uint8(p.CLS)
	e.Uint8(p.LTSSM)
	e.Uint8(p.Lane)
	e.Uint8(p.LaneRev)
	e.Uint8(p.PERST)
	e.Uint8(p.PRSNT)
	e.Uint8(p.PWRCtrl)
	e.Uint8(p.NumLD)
}

// PortInfoList is PSC_PORT's response: a counted list of PortInfoWire
// blocks, one per included port id.
type PortInfoList struct {
	Ports []PortInfoWire
}

func (r PortInfoList) Encode() []byte {
	e := NewEncoder()
	e.Uint8(uint8(len(r.Ports)))
	for _, p := range r.Ports {
		p.encodeInto(e)
	}
	return e.Bytes()
}

// PortCtrl is PSC_PORT_CTRL's request.
type PortCtrl struct {
	Ppid uint16
	Op   PortCtrlOp
}

func DecodePortCtrl(buf []byte) (PortCtrl, error) {
	d := NewDecoder(buf)
	var r PortCtrl
	var v8 uint8
	var err error
	if r.Ppid, err = d.Uint16(); err != nil {
		return r, err
	}
	if v8, err = d.Uint8(); err != nil {
		return r, err
	}
	r.Op = PortCtrlOp(v8)
	return r, nil
}

// CfgAccess is the shared shape of PSC_CFG and MPC_CFG: a PCI config-space
// byte-enable-masked 4-byte access. IsWrite distinguishes the two
// directions; Data carries write data inbound and read data outbound.
type CfgAccess struct {
	Ppid uint16
	Ldid uint16 // MPC_CFG only; ignored by PSC_CFG
	IsWrite bool
	Reg     uint16
	Ext     uint8
	FDBE    uint8 // nibble, bit i => byte i of Data is enabled
	Data    [4]byte
}

func decodeCfgAccess(buf []byte, hasLdid bool) (CfgAccess, error) {
	d := NewDecoder(buf)
	var r CfgAccess
	var err error
	if r.Ppid, err = d.Uint16(); err != nil {
		return r, err
	}
	if hasLdid {
		if r.Ldid, err = d.Uint16(); err != nil {
			return r, err
		}
	}
	var typ uint8
	if typ, err = d.Uint8(); err != nil {
		return r, err
	}
	r.IsWrite = typ == 1
	if typ != 0 && typ != 1 {
		return r, fmt.Errorf("fmapi: cfg access: unknown type %d", typ)
	}
	if r.Reg, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Ext, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.FDBE, err = d.Uint8(); err != nil {
		return r, err
	}
	raw, err := d.Raw(4)
	if err != nil {
		return r, err
	}
	copy(r.Data[:], raw)
	return r, nil
}

// DecodePSCCfg decodes a PSC_CFG request (no ldid field).
func DecodePSCCfg(buf []byte) (CfgAccess, error) { return decodeCfgAccess(buf, false) }

// DecodeMPCCfg decodes an MPC_CFG request (ldid present).
func DecodeMPCCfg(buf []byte) (CfgAccess, error) { return decodeCfgAccess(buf, true) }

// CfgData is the PSC_CFG/MPC_CFG response: the 4-byte slice read or
// (for a write) echoed back.
type CfgData struct {
	Data [4]byte
}

func (r CfgData) Encode() []byte {
	e := NewEncoder()
	e.Raw(r.Data[:])
	return e.Bytes()
}

// --- VSC ---

// VSCInfoReq is VSC_INFO's request.
type VSCInfoReq struct {
	VCSs        []uint16
	VppbidStart uint16
	VppbidLimit uint16
}

func DecodeVSCInfoReq(buf []byte) (VSCInfoReq, error) {
	d := NewDecoder(buf)
	var r VSCInfoReq
	n, err := d.Uint8()
	if err != nil {
		return r, err
	}
	r.VCSs = make([]uint16, n)
	for i := range r.VCSs {
		if r.VCSs[i], err = d.Uint16(); err != nil {
			return r, err
		}
	}
	if r.VppbidStart, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.VppbidLimit, err = d.Uint16(); err != nil {
		return r, err
	}
	return r, nil
}

// VPPBInfoWire is one vPPB slot within a VCSInfoWire block.
type VPPBInfoWire struct {
	Vppbid     uint16
	BindStatus uint8
	Ppid       uint16
	Ldid       uint16
}

// VCSInfoWire is one VSC_INFO response block.
type VCSInfoWire struct {
	Vcsid        uint16
	State        uint8
	Uspid        uint16
	NumVPPBTotal uint16
	VPPBs        []VPPBInfoWire
}

// VCSInfoList is VSC_INFO's response: a counted list of VCSInfoWire
// blocks, capped at FMMaxVCSPerRsp by the handler before encoding.
type VCSInfoList struct {
	VCSs []VCSInfoWire
}

func (r VCSInfoList) Encode() []byte {
	e := NewEncoder()
	e.Uint8(uint8(len(r.VCSs)))
	for _, v := range r.VCSs {
		e.Uint16(v.Vcsid)
		e.Uint8(v.State)
		e.Uint16(v.Uspid)
		e.Uint16(v.NumVPPBTotal)
		e.Uint16(uint16(len(v.VPPBs)))
		for _, vp := range v.VPPBs {
			e.Uint16(vp.Vppbid)
			e.Uint8(vp.BindStatus)
			e.Uint16(vp.Ppid)
			e.Uint16(vp.Ldid)
		}
	}
	return e.Bytes()
}

// BindReq is VSC_BIND's request.
type BindReq struct {
	Vcsid, Vppbid, Ppid, Ldid uint16
}

func DecodeBindReq(buf []byte) (BindReq, error) {
	d := NewDecoder(buf)
	var r BindReq
	var err error
	if r.Vcsid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Vppbid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Ppid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Ldid, err = d.Uint16(); err != nil {
		return r, err
	}
	return r, nil
}

// UnbindReq is VSC_UNBIND's request.
type UnbindReq struct {
	Vcsid, Vppbid uint16
}

func DecodeUnbindReq(buf []byte) (UnbindReq, error) {
	d := NewDecoder(buf)
	var r UnbindReq
	var err error
	if r.Vcsid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Vppbid, err = d.Uint16(); err != nil {
		return r, err
	}
	return r, nil
}

// AERReq is VSC_AER's request.
type AERReq struct {
	Vcsid, Vppbid uint16
}

func DecodeAERReq(buf []byte) (AERReq, error) {
	d := NewDecoder(buf)
	var r AERReq
	var err error
	if r.Vcsid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Vppbid, err = d.Uint16(); err != nil {
		return r, err
	}
	return r, nil
}

// --- MPC ---

// MemReq is MPC_MEM's request.
type MemReq struct {
	Ppid, Ldid uint16
	IsWrite    bool
	Offset     uint32
	Data       []byte // write payload, or the requested length for a read
}

// DecodeMemReq decodes an MPC_MEM request. For a read, Data's length (not
// its content) carries the requested byte count; the caller reads
// len(Data) before the handler overwrites it with the response.
func DecodeMemReq(buf []byte) (MemReq, error) {
	d := NewDecoder(buf)
	var r MemReq
	var err error
	if r.Ppid, err = d.Uint16(); err != nil {
		return r, err
	}
	if r.Ldid, err = d.Uint16(); err != nil {
		return r, err
	}
	var typ uint8
	if typ, err = d.Uint8(); err != nil {
		return r, err
	}
	r.IsWrite = typ == 1
	if r.Offset, err = d.Uint32(); err != nil {
		return r, err
	}
	length, err := d.Uint16()
	if err != nil {
		return r, err
	}
	if r.IsWrite {
		r.Data, err = d.Raw(int(length))
		if err != nil {
			return r, err
		}
	} else {
		r.Data = make([]byte, length)
	}
	return r, nil
}

// MemResp is MPC_MEM's response: the bytes read, or (for a write) empty.
type MemResp struct {
	Data []byte
}

func (r MemResp) Encode() []byte {
	e := NewEncoder()
	e.Raw(r.Data)
	return e.Bytes()
}

// TMCReq is MPC_TMC's request: a tunneled inner CCI message addressed to
// a port's MLD. Inner is the raw inner header+payload bytes, decoded a
// second time by internal/handlers using this same package's Header type.
type TMCReq struct {
	Ppid  uint16
	Inner []byte
}

func DecodeTMCReq(buf []byte) (TMCReq, error) {
	d := NewDecoder(buf)
	var r TMCReq
	var err error
	if r.Ppid, err = d.Uint16(); err != nil {
		return r, err
	}
	r.Inner, err = d.Raw(d.Remaining())
	return r, err
}

// TMCResp is MPC_TMC's response: the inner CCI response bytes, verbatim.
type TMCResp struct {
	Inner []byte
}

func (r TMCResp) Encode() []byte {
	e := NewEncoder()
	e.Raw(r.Inner)
	return e.Bytes()
}

// --- MCC (inner, tunneled via MPC_TMC) ---

// MCCInfo is MCC_INFO's response.
type MCCInfo struct {
	MemorySize uint64
	Num        uint8
	EPC        uint8
	TTR        uint8
}

func (r MCCInfo) Encode() []byte {
	e := NewEncoder()
	e.Uint64(r.MemorySize)
	e.Uint8(r.Num)
	e.Uint8(r.EPC)
	e.Uint8(r.TTR)
	return e.Bytes()
}

// AllocRange is one (rng1,rng2) allocation-range pair, used by both
// MCC_ALLOC_GET/SET.
type AllocRange struct {
	Rng1, Rng2 uint8
}

// AllocGetReq is MCC_ALLOC_GET's request.
type AllocGetReq struct {
	Start, Limit uint8
}

func DecodeAllocGetReq(buf []byte) (AllocGetReq, error) {
	d := NewDecoder(buf)
	var r AllocGetReq
	var err error
	if r.Start, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.Limit, err = d.Uint8(); err != nil {
		return r, err
	}
	return r, nil
}

// AllocGetResp is MCC_ALLOC_GET's response (and doubles as ALLOC_SET's
// echo response).
type AllocGetResp struct {
	Total       uint8
	Granularity uint8
	Start       uint8
	Ranges      []AllocRange
}

func (r AllocGetResp) Encode() []byte {
	e := NewEncoder()
	e.Uint8(r.Total)
	e.Uint8(r.Granularity)
	e.Uint8(r.Start)
	e.Uint8(uint8(len(r.Ranges)))
	for _, rg := range r.Ranges {
		e.Uint8(rg.Rng1)
		e.Uint8(rg.Rng2)
	}
	return e.Bytes()
}

// AllocSetReq is MCC_ALLOC_SET's request.
type AllocSetReq struct {
	Start  uint8
	Ranges []AllocRange
}

func DecodeAllocSetReq(buf []byte) (AllocSetReq, error) {
	d := NewDecoder(buf)
	var r AllocSetReq
	var err error
	if r.Start, err = d.Uint8(); err != nil {
		return r, err
	}
	n, err := d.Uint8()
	if err != nil {
		return r, err
	}
	r.Ranges = make([]AllocRange, n)
	for i := range r.Ranges {
		if r.Ranges[i].Rng1, err = d.Uint8(); err != nil {
			return r, err
		}
		if r.Ranges[i].Rng2, err = d.Uint8(); err != nil {
			return r, err
		}
	}
	return r, nil
}

// QoSCtrl is both MCC_QOS_CTRL_GET's response and MCC_QOS_CTRL_SET's
// request/response shape.
type QoSCtrl struct {
	EPCEn          bool
	TTREn          bool
	EgressModPcnt  uint8
	EgressSevPcnt  uint8
	SampleInterval uint8
	RCB            uint8
	CompInterval   uint8
}

func (r QoSCtrl) Encode() []byte {
	e := NewEncoder()
	if r.EPCEn {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
	if r.TTREn {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
	e.Uint8(r.EgressModPcnt)
	e.Uint8(r.EgressSevPcnt)
	e.Uint8(r.SampleInterval)
	e.Uint8(r.RCB)
	e.Uint8(r.CompInterval)
	return e.Bytes()
}

func DecodeQoSCtrl(buf []byte) (QoSCtrl, error) {
	d := NewDecoder(buf)
	var r QoSCtrl
	var err error
	var v uint8
	if v, err = d.Uint8(); err != nil {
		return r, err
	}
	r.EPCEn = v != 0
	if v, err = d.Uint8(); err != nil {
		return r, err
	}
	r.TTREn = v != 0
	if r.EgressModPcnt, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.EgressSevPcnt, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.SampleInterval, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.RCB, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.CompInterval, err = d.Uint8(); err != nil {
		return r, err
	}
	return r, nil
}

// QoSStat is MCC_QOS_STAT's response.
type QoSStat struct {
	BPAvgPcnt uint8
}

func (r QoSStat) Encode() []byte {
	e := NewEncoder()
	e.Uint8(r.BPAvgPcnt)
	return e.Bytes()
}

// U8ListGetReq is the shared request shape of MCC_QOS_BW_ALLOC_GET and
// MCC_QOS_BW_LIMIT_GET.
type U8ListGetReq struct {
	Start, Limit uint8
}

func DecodeU8ListGetReq(buf []byte) (U8ListGetReq, error) {
	d := NewDecoder(buf)
	var r U8ListGetReq
	var err error
	if r.Start, err = d.Uint8(); err != nil {
		return r, err
	}
	if r.Limit, err = d.Uint8(); err != nil {
		return r, err
	}
	return r, nil
}

// U8ListResp is the shared response shape of the BW alloc/limit GET and
// SET (echo) opcodes.
type U8ListResp struct {
	Total uint8
	Start uint8
	List  []uint8
}

func (r U8ListResp) Encode() []byte {
	e := NewEncoder()
	e.Uint8(r.Total)
	e.Uint8(r.Start)
	e.Uint8(uint8(len(r.List)))
	e.Raw(r.List)
	return e.Bytes()
}

// U8ListSetReq is the shared request shape of MCC_QOS_BW_ALLOC_SET and
// MCC_QOS_BW_LIMIT_SET.
type U8ListSetReq struct {
	Start uint8
	List  []uint8
}

func DecodeU8ListSetReq(buf []byte) (U8ListSetReq, error) {
	d := NewDecoder(buf)
	var r U8ListSetReq
	var err error
	if r.Start, err = d.Uint8(); err != nil {
		return r, err
	}
	n, err := d.Uint8()
	if err != nil {
		return r, err
	}
	if r.List, err = d.Raw(int(n)); err != nil {
		return r, err
	}
	return r, nil
}
