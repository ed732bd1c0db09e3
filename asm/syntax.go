package asm

import (
	"go.creack.net/botasm/op"
)

// Syntax maps a token to an opcode.
type Syntax struct {
	Token    string
	Opcode   op.Opcode
	Template string // Decompile text, empty when the syntax is compile only.

	slots []slot // Record value feeding each argument, in argument order.
}

func syntax(token, template string, code op.Opcode, slots ...slot) Syntax {
	if len(token) > op.TokenMaxLength || len(slots) > op.ArgsNumber {
		panic("invalid syntax " + token)
	}
	return Syntax{Token: token, Opcode: code, Template: template, slots: slots}
}

// build encodes the record. Each argument gets the value flag of its source slot.
func (s Syntax) build(r record) op.Instruction {
	ins := op.Instruction{Cmd: uint16(s.Opcode) | r.raw}
	for i, sl := range s.slots {
		v, lit := r.get(sl)
		ins.Args[i] = v
		if lit {
			ins.Cmd |= op.ValueFlag(i)
		}
	}
	return ins
}

// Arity returns the number of arguments the syntax sets.
func (s Syntax) Arity() int { return len(s.slots) }
