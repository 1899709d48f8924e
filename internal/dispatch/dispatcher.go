package dispatch

import (
	"log/slog"

	"github.com/cxlfabric/swemu/internal/emuapi"
	"github.com/cxlfabric/swemu/internal/fmapi"
	"github.com/cxlfabric/swemu/internal/handlers"
	"github.com/cxlfabric/swemu/internal/model"
)

// Dispatcher wires a Switch to three channels: Inbound carries request
// frames in, Outbound carries application responses out, Completion
// carries framing-failure notices out. Run drains Inbound until it is
// closed.
type Dispatcher struct {
	m          *model.Switch
	Inbound    chan Frame
	Outbound   chan Frame
	Completion chan CompletionFrame
}

// New constructs a Dispatcher over m with buffered queues of the given
// depth.
func New(m *model.Switch, queueDepth int) *Dispatcher {
	return &Dispatcher{
		m:          m,
		Inbound:    make(chan Frame, queueDepth),
		Outbound:   make(chan Frame, queueDepth),
		Completion: make(chan CompletionFrame, queueDepth),
	}
}

// Run consumes frames from Inbound until it is closed, dispatching each
// to its handler and routing the result to Outbound or Completion. It
// returns once Inbound is drained and closed — callers typically run it
// in its own goroutine from cmd/cxl-switch's main loop.
func (d *Dispatcher) Run() {
	for f := range d.Inbound {
		d.dispatchOne(f)
	}
}

func (d *Dispatcher) dispatchOne(f Frame) {
	switch f.Space {
	case SpaceFM:
		d.dispatchFM(f)
	case SpaceCSE:
		d.dispatchCSE(f)
	default:
		d.Completion <- CompletionFrame{Space: f.Space, CompletionCode: 1}
	}
}

func (d *Dispatcher) dispatchFM(f Frame) {
	if len(f.Data) < fmapi.HeaderSize {
		slog.Warn("dispatch: fm frame shorter than header", "len", len(f.Data))
		d.Completion <- CompletionFrame{Space: SpaceFM, CompletionCode: 1}
		return
	}

	hdr, err := fmapi.DecodeHeader(f.Data)
	if err != nil {
		d.Completion <- CompletionFrame{Space: SpaceFM, CompletionCode: 1}
		return
	}
	payload := f.Data[fmapi.HeaderSize:]
	if int(hdr.Length) > len(payload) {
		d.Completion <- CompletionFrame{Space: SpaceFM, CompletionCode: 1}
		return
	}
	payload = payload[:hdr.Length]

	family, ok := handlers.FamilyOf(hdr.Opcode)
	if !ok {
		slog.Warn("dispatch: unknown fm opcode", "opcode", hdr.Opcode)
		d.Completion <- CompletionFrame{Space: SpaceFM, CompletionCode: 1}
		return
	}

	fn, ok := handlers.Lookup(family, hdr.Opcode)
	var rsp []byte
	var rc fmapi.ReturnCode
	if !ok {
		rc = fmapi.RCUnsupported
	} else {
		rsp, rc, err = fn(d.m, payload)
		if err != nil {
			slog.Error("dispatch: handler decode/encode failure", "opcode", hdr.Opcode, "err", err)
			d.Completion <- CompletionFrame{Space: SpaceFM, CompletionCode: 1}
			return
		}
	}

	outHdr := fmapi.Header{
		Category: fmapi.CategoryResp, Tag: hdr.Tag, Opcode: hdr.Opcode,
		Background: false, Length: uint32(len(rsp)), RC: rc,
	}
	enc := outHdr.Encode()
	d.Outbound <- Frame{Space: SpaceFM, Data: append(enc[:], rsp...)}
}

func (d *Dispatcher) dispatchCSE(f Frame) {
	if len(f.Data) < emuapi.HeaderSize {
		d.Completion <- CompletionFrame{Space: SpaceCSE, CompletionCode: 1}
		return
	}

	hdr, err := emuapi.DecodeHeader(f.Data)
	if err != nil {
		d.Completion <- CompletionFrame{Space: SpaceCSE, CompletionCode: 1}
		return
	}

	var fn handlers.EmuFunc
	switch hdr.Opcode {
	case emuapi.OpListDev:
		fn = handlers.EmuListDev
	case emuapi.OpConnDev:
		fn = handlers.EmuConnDev
	case emuapi.OpDisconDev:
		fn = handlers.EmuDisconDev
	default:
		slog.Warn("dispatch: unknown cse opcode", "opcode", hdr.Opcode)
		d.Completion <- CompletionFrame{Space: SpaceCSE, CompletionCode: 1}
		return
	}

	rsp, rc := fn(d.m, hdr.A, hdr.B)
	outHdr := emuapi.Header{
		Type: hdr.Type, Tag: hdr.Tag, Opcode: hdr.Opcode,
		Length: uint32(len(rsp)), A: hdr.A, B: hdr.B, RC: rc,
	}
	enc := outHdr.Encode()
	d.Outbound <- Frame{Space: SpaceCSE, Data: append(enc[:], rsp...)}
}
