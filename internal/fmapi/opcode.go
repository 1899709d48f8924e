// Package fmapi implements the codec for the CXL Fabric Management API
// family: header bit-layout, per-opcode request/response shapes, and the
// scalar/array/counted-list encode-decode primitives the handler table
// builds responses with.
package fmapi

// Category distinguishes a request header from a response header.
type Category uint8

const (
	CategoryReq  Category = 0
	CategoryResp Category = 1
)

// Opcode identifies an FM API command, unique within the ISC/PSC/VSC/MPC
// families sharing one 16-bit opcode space.
type Opcode uint16

// Infrastructure (ISC).
const (
	OpISCID           Opcode = 0x0001
	OpISCBOS          Opcode = 0x0002
	OpISCMsgLimitGet  Opcode = 0x0003
	OpISCMsgLimitSet  Opcode = 0x0004
)

// Physical-switch (PSC).
const (
	OpPSCID       Opcode = 0x5100
	OpPSCPort     Opcode = 0x5101
	OpPSCPortCtrl Opcode = 0x5102
	OpPSCCfg      Opcode = 0x5103
)

// Virtual-switch (VSC).
const (
	OpVSCInfo   Opcode = 0x5300
	OpVSCBind   Opcode = 0x5301
	OpVSCUnbind Opcode = 0x5302
	OpVSCAER    Opcode = 0x5303
)

// MLD port-control (MPC).
const (
	OpMPCCfg Opcode = 0x5400
	OpMPCMem Opcode = 0x5401
	OpMPCTMC Opcode = 0x5402
)

// MLD component-command (MCC): a second, inner opcode space tunneled
// through MPC_TMC's nested CCI envelope, never seen at the outer dispatch
// table. spec.md §4.3 names these commands but leaves their numeric
// encoding unspecified; the values below are this implementation's fixed
// choice (recorded in DESIGN.md as an Open Question resolution).
const (
	OpMCCInfo          Opcode = 0x0400
	OpMCCAllocGet      Opcode = 0x0401
	OpMCCAllocSet      Opcode = 0x0402
	OpMCCQoSCtrlGet    Opcode = 0x0403
	OpMCCQoSCtrlSet    Opcode = 0x0404
	OpMCCQoSStat       Opcode = 0x0405
	OpMCCQoSBWAllocGet Opcode = 0x0406
	OpMCCQoSBWAllocSet Opcode = 0x0407
	OpMCCQoSBWLimitGet Opcode = 0x0408
	OpMCCQoSBWLimitSet Opcode = 0x0409
)

// PortCtrlOp is PSC_PORT_CTRL's sub-opcode field.
type PortCtrlOp uint8

const (
	PortCtrlAssertPERST   PortCtrlOp = 0
	PortCtrlDeassertPERST PortCtrlOp = 1
	PortCtrlResetPPB      PortCtrlOp = 2
)

// ReturnCode is the FM API rc field.
type ReturnCode uint16

const (
	RCSuccess             ReturnCode = 0x0000
	RCBackgroundOpStarted ReturnCode = 0x0002
	RCInvalidInput        ReturnCode = 0x0003
	RCUnsupported         ReturnCode = 0x0004
)

func (rc ReturnCode) String() string {
	switch rc {
	case RCSuccess:
		return "SUCCESS"
	case RCBackgroundOpStarted:
		return "BACKGROUND_OP_STARTED"
	case RCInvalidInput:
		return "INVALID_INPUT"
	case RCUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// FMMaxVCSPerRsp caps the number of VCS info blocks VSC_INFO emits in one
// response, per spec.md §4.3's tie-break rule.
const FMMaxVCSPerRsp = 8
