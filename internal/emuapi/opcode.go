// Package emuapi implements the codec for the emulator-specific control
// API: the CSE family's header layout and the LIST_DEV/CONN_DEV/DISCON_DEV
// opcodes that let a test harness attach and detach catalog devices
// without going through the Fabric Management wire protocol.
package emuapi

// Opcode identifies a CSE command.
type Opcode uint8

const (
	OpEvent     Opcode = 0x00 // never emitted by this implementation
	OpListDev   Opcode = 0x01
	OpConnDev   Opcode = 0x02
	OpDisconDev Opcode = 0x03
)

// ReturnCode is the CSE rc field; shares SUCCESS/INVALID_INPUT/UNSUPPORTED
// numbering with the FM API family for a uniform handler signature.
type ReturnCode uint16

const (
	RCSuccess      ReturnCode = 0x0000
	RCInvalidInput ReturnCode = 0x0003
	RCUnsupported  ReturnCode = 0x0004
)
