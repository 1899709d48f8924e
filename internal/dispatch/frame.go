// Package dispatch consumes request frames from an inbound queue,
// decodes only the outer application header, looks up the matching
// handler by (family, opcode), invokes it, and routes the resulting
// response (or a framing-failure completion code) back out.
package dispatch

// Frame is one application-layer message: a full header-plus-payload
// byte sequence for either the FM API or the CSE (emulator) family. The
// transport boundary is expressed as plain byte slices carried over Go
// channels rather than a concrete socket, since MCTP itself is out of
// scope (spec.md Non-goals) — this mirrors how internal/ipc.Server reads
// a Header plus payload off a net.Conn in a loop, with the socket
// replaced by a channel.
type Frame struct {
	// Space distinguishes the FM API frame space from the emulator
	// control frame space; the dispatcher uses it to pick which codec and
	// handler table apply before even decoding the header.
	Space Space
	Data  []byte
}

// Space selects which wire family a Frame belongs to.
type Space uint8

const (
	SpaceFM  Space = iota // internal/fmapi's 12-byte header + ISC/PSC/VSC/MPC opcodes
	SpaceCSE              // internal/emuapi's 12-byte header + LIST_DEV/CONN_DEV/DISCON_DEV
)

// CompletionFrame is emitted on the completion-code queue for framing
// errors: a bad transport header, a short payload, or an opcode lookup
// miss at the outer dispatch. No application response is produced for a
// completion-code frame — spec.md §4.4's error-handling ladder.
type CompletionFrame struct {
	Space          Space
	CompletionCode uint8
}
