package op

import (
	"fmt"
	"slices"
)

// Program is a compiled unit program. It always holds between 1 and
// MaxInstructions instructions.
type Program struct {
	instructions []Instruction
}

// NewProgram wraps the given instructions. The slice is copied.
func NewProgram(instructions []Instruction) (*Program, error) {
	if len(instructions) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(instructions) > MaxInstructions {
		return nil, fmt.Errorf("%w: %d > %d", ErrProgramTooLong, len(instructions), MaxInstructions)
	}
	return &Program{instructions: slices.Clone(instructions)}, nil
}

// ProgramFromWords converts raw words into a program.
func ProgramFromWords(words []uint16) (*Program, error) {
	instructions, err := InstructionsFromWords(words)
	if err != nil {
		return nil, err
	}
	return NewProgram(instructions)
}

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.instructions) }

// index maps a 1 based line number onto the program, wrapping around.
// 1 is the first instruction, 0 the last one.
func (p *Program) index(line int) int {
	n := len(p.instructions)
	i := (line - 1) % n
	if i < 0 {
		i += n
	}
	return i
}

// At returns the instruction at the given 1 based line, modulo the program length.
func (p *Program) At(line int) Instruction {
	return p.instructions[p.index(line)]
}

// Set replaces the instruction at the given 1 based line, modulo the program length.
func (p *Program) Set(line int, ins Instruction) {
	p.instructions[p.index(line)] = ins
}

// Instructions returns a copy of the instructions.
func (p *Program) Instructions() []Instruction {
	return slices.Clone(p.instructions)
}

// Subset returns up to n instructions starting at the 1 based line start.
// The subset is clamped to the end of the program and fails when empty.
func (p *Program) Subset(start, n int) (*Program, error) {
	if start < 1 || start > len(p.instructions) || n < 1 {
		return nil, fmt.Errorf("subset [%d:+%d] of %d instructions: %w", start, n, len(p.instructions), ErrEmptyProgram)
	}
	end := min(start-1+n, len(p.instructions))
	return NewProgram(p.instructions[start-1 : end])
}

// Equal reports whether both programs hold the same instructions.
func (p *Program) Equal(other *Program) bool {
	if p == nil || other == nil {
		return p == other
	}
	return slices.Equal(p.instructions, other.instructions)
}

// Words flattens the program into VM words.
func (p *Program) Words() []uint16 {
	out := make([]uint16, 0, 4*len(p.instructions))
	for _, ins := range p.instructions {
		w := ins.Words()
		out = append(out, w[:]...)
	}
	return out
}
