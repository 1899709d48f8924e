package handlers

import "github.com/cxlfabric/swemu/internal/fmapi"

// Family groups FM API opcodes by the command-set prefix spec.md §4.3
// organizes the opcode inventory under.
type Family uint8

const (
	FamilyISC Family = iota
	FamilyPSC
	FamilyVSC
	FamilyMPC
)

// table is a dense [opcode-offset]Func array for one family, built at
// package init — grounded on internal/helper/handlers.go's
// RegisterHandlers(mux) pattern, but a compile-time array instead of a
// sparse map since each family's opcode range is small and contiguous.
type table struct {
	base    fmapi.Opcode
	entries []Func
}

func (t table) lookup(op fmapi.Opcode) (Func, bool) {
	if op < t.base || int(op-t.base) >= len(t.entries) {
		return nil, false
	}
	fn := t.entries[op-t.base]
	return fn, fn != nil
}

var (
	iscTable = table{base: fmapi.OpISCID, entries: []Func{
		ISCID, ISCBOS, ISCMsgLimitGet, ISCMsgLimitSet,
	}}
	pscTable = table{base: fmapi.OpPSCID, entries: []Func{
		PSCID, PSCPort, PSCPortCtrl, PSCCfg,
	}}
	vscTable = table{base: fmapi.OpVSCInfo, entries: []Func{
		VSCInfo, VSCBind, VSCUnbind, VSCAER,
	}}
	mpcTable = table{base: fmapi.OpMPCCfg, entries: []Func{
		MPCCfg, MPCMem, MPCTMC,
	}}
)

// Lookup returns the handler registered for (family, op), or false if the
// opcode is unknown within that family.
func Lookup(family Family, op fmapi.Opcode) (Func, bool) {
	switch family {
	case FamilyISC:
		return iscTable.lookup(op)
	case FamilyPSC:
		return pscTable.lookup(op)
	case FamilyVSC:
		return vscTable.lookup(op)
	case FamilyMPC:
		return mpcTable.lookup(op)
	default:
		return nil, false
	}
}

// FamilyOf classifies an opcode by its numeric range, used by the
// dispatcher to pick which table to search.
func FamilyOf(op fmapi.Opcode) (Family, bool) {
	switch {
	case op >= fmapi.OpISCID && op <= fmapi.OpISCMsgLimitSet:
		return FamilyISC, true
	case op >= fmapi.OpPSCID && op <= fmapi.OpPSCCfg:
		return FamilyPSC, true
	case op >= fmapi.OpVSCInfo && op <= fmapi.OpVSCAER:
		return FamilyVSC, true
	case op >= fmapi.OpMPCCfg && op <= fmapi.OpMPCTMC:
		return FamilyMPC, true
	default:
		return 0, false
	}
}
