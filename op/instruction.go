package op

import (
	"fmt"
)

// Instruction is a single VM instruction: the command word (opcode + value
// flags) followed by 3 argument words.
type Instruction struct {
	Cmd  uint16
	Args [ArgsNumber]uint16
}

// NewInstruction builds an instruction from raw words. No validation is done.
func NewInstruction(cmd, a, b, c uint16) Instruction {
	return Instruction{Cmd: cmd, Args: [ArgsNumber]uint16{a, b, c}}
}

// NewNop returns the all zero instruction.
func NewNop() Instruction {
	return Instruction{}
}

// NewValue returns the instruction of a bare literal value line.
func NewValue(v uint16) Instruction {
	return NewInstruction(uint16(Nop)|ValueArg0, v, 0, 0)
}

// NewLocation returns a location literal, as written by the VM in code memory.
func NewLocation(x, y uint8) Instruction {
	return NewInstruction(uint16(Location)|ValueArg0|ValueArg1, uint16(x), uint16(y), 0)
}

// Opcode returns the command word without the value flags.
func (ins Instruction) Opcode() Opcode {
	return Opcode(ins.Cmd & OpcodeMask)
}

// Flags returns the value flags of the command word.
func (ins Instruction) Flags() uint16 {
	return ins.Cmd & ValueArgMask
}

// Arg returns the nth argument word.
func (ins Instruction) Arg(n int) uint16 {
	return ins.Args[n]
}

// SetArg sets the nth argument word.
func (ins *Instruction) SetArg(n int, v uint16) {
	ins.Args[n] = v
}

// IsValue reports whether the nth argument is a literal value.
func (ins Instruction) IsValue(n int) bool {
	return ins.Cmd&ValueFlag(n) != 0
}

// IsIndirection reports whether the nth argument is a memory address.
func (ins Instruction) IsIndirection(n int) bool {
	return !ins.IsValue(n)
}

// Mode returns how the nth argument is read.
func (ins Instruction) Mode(n int) ParamMode {
	if ins.IsValue(n) {
		return ParamModeValue
	}
	return ParamModeIndirection
}

// Words returns the 4 words of the instruction, in VM order.
func (ins Instruction) Words() [4]uint16 {
	return [4]uint16{ins.Cmd, ins.Args[0], ins.Args[1], ins.Args[2]}
}

// Encode appends the big endian encoding of the instruction to buf.
func (ins Instruction) Encode(buf []byte) []byte {
	for _, w := range ins.Words() {
		buf = Endian.AppendUint16(buf, w)
	}
	return buf
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%04X %04X %04X %04X", ins.Cmd, ins.Args[0], ins.Args[1], ins.Args[2])
}

// InstructionsFromWords converts each chunk of 4 words into an instruction.
func InstructionsFromWords(words []uint16) ([]Instruction, error) {
	if len(words)%4 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadWordCount, len(words))
	}
	out := make([]Instruction, 0, len(words)/4)
	for i := 0; i < len(words); i += 4 {
		out = append(out, NewInstruction(words[i], words[i+1], words[i+2], words[i+3]))
	}
	return out, nil
}
