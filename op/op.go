// Package op holds the unit instruction set: opcodes, the 4 word instruction
// encoding, programs and the binary image header.
package op

import (
	"encoding/binary"
	"errors"
)

var Endian = binary.BigEndian

// Instruction word layout.
const (
	ValueArgMask = 0xF000 // Top 4 bits of the command word hold the value flags.
	OpcodeMask   = 0x0FFF

	ValueArg0 = 0x1000
	ValueArg1 = 0x2000
	ValueArg2 = 0x4000

	ArgsNumber = 3 // This may not be changed. The VM reads 4 words per instruction.
)

// Limits.
const (
	MaxInstructions = 1000
	TextMaxLength   = 6  // print("......")
	TokenMaxLength  = 31 // Longest function name or operator.
)

// Errors.
var (
	ErrEmptyProgram   = errors.New("program has no instructions")
	ErrProgramTooLong = errors.New("program has too many instructions")
	ErrBadWordCount   = errors.New("word count is not a multiple of 4")
	ErrBadMagic       = errors.New("invalid magic number")
	ErrTruncated      = errors.New("truncated program")
)

// ValueFlag returns the "is literal value" flag for argument n.
func ValueFlag(n int) uint16 {
	return ValueArg0 << n
}
