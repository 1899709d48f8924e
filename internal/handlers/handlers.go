// Package handlers implements the ten-step decode/validate/mutate/encode
// pipeline for every Fabric Management and emulator-control opcode, and
// the dense per-family tables internal/dispatch looks handlers up in.
package handlers

import (
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/model"
)

// Func is the signature every outer (lock-owning) handler implements.
// It decodes req, validates and mutates m under the lock, and returns the
// encoded response payload plus the return code to place in the
// application header. A non-nil error means decode/encode itself failed
// (a framing-level problem, not a validation failure) and the caller
// should route to the completion-code queue rather than emit rc.
type Func func(m *model.Switch, req []byte) (rsp []byte, rc fmapi.ReturnCode, err error)

// withLock runs fn with m's model lock held, matching the pipeline's
// steps 5 (acquire) through 8 (encode) — release happens when fn returns,
// before the caller enqueues the response frame (step 9).
func withLock(m *model.Switch, fn func() ([]byte, fmapi.ReturnCode, error)) ([]byte, fmapi.ReturnCode, error) {
	m.Lock()
	defer m.Unlock()
	return fn()
}

// ok builds the common case: a successful decode/encode with the handler's
// own return code (usually RCSuccess, sometimes RCBackgroundOpStarted).
func ok(rsp []byte, rc fmapi.ReturnCode) ([]byte, fmapi.ReturnCode, error) {
	return rsp, rc, nil
}

// invalid is the common validation-failure return: empty payload,
// INVALID_INPUT, no framing error.
func invalid() ([]byte, fmapi.ReturnCode, error) {
	return nil, fmapi.RCInvalidInput, nil
}

// unsupported is returned for a well-formed opcode this switch chooses not
// to implement further (e.g. a MPC_MEM target with no backing store).
func unsupported() ([]byte, fmapi.ReturnCode, error) {
	return nil, fmapi.RCUnsupported, nil
}
