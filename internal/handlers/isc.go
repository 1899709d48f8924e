package handlers

import (
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// ISCID implements the ID opcode (0x0001): report a narrow identity slice,
// no validation.
func ISCID(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		id := fmapi.ISCIdentity{
			VID: m.VID, DID: m.DID, SVID: m.SVID, SSID: m.SSID,
			SN: m.SN, MaxMsgSizeN: m.MaxMsgSizeN,
		}
		return ok(id.Encode(), fmapi.RCSuccess)
	})
}

// ISCBOS implements the BOS opcode (0x0002): report the background-
// operation status block, no validation.
func ISCBOS(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		b := fmapi.BackgroundOpBlock{
			Running: m.BOS.Running, Pcnt: m.BOS.Pcnt,
			Opcode: m.BOS.Opcode, RC: m.BOS.RC, Ext: m.BOS.Ext,
		}
		return ok(b.Encode(), fmapi.RCSuccess)
	})
}

// ISCMsgLimitGet implements MSG_LIMIT_GET (0x0003).
func ISCMsgLimitGet(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		return ok(fmapi.MsgLimit{LimitN: m.MsgRspLimitN}.Encode(), fmapi.RCSuccess)
	})
}

// ISCMsgLimitSet implements MSG_LIMIT_SET (0x0004): require 8 <= limit <=
// 20, then assign and echo it back.
func ISCMsgLimitSet(m *model.Switch, req []byte) ([]byte, fmapi.ReturnCode, error) {
	lim, err := fmapi.DecodeMsgLimit(req)
	if err != nil {
		return nil, 0, err
	}
	return withLock(m, func() ([]byte, fmapi.ReturnCode, error) {
		if lim.LimitN < 8 || lim.LimitN > 20 {
			return invalid()
		}
		m.SetMsgRspLimitN(lim.LimitN)
		return ok(fmapi.MsgLimit{LimitN: m.MsgRspLimitN}.Encode(), fmapi.RCSuccess)
	})
}
