package asm

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/botasm/op"
)

// Template placeholders.
const (
	placeholderArg0 = "$A0"
	placeholderArg1 = "$A1"
	placeholderArg2 = "$A2"
	placeholderOp2  = "$OP2" // Operator packed in argument 2.
	placeholderText = "$TEXT"
)

// argText renders the nth argument: literal values as signed decimals,
// indirections as unsigned [N].
func argText(ins op.Instruction, n int) string {
	if ins.IsValue(n) {
		return strconv.Itoa(int(int16(ins.Arg(n))))
	}
	return "[" + strconv.Itoa(int(ins.Arg(n))) + "]"
}

func render(tpl string, ins op.Instruction) string {
	return strings.NewReplacer(
		placeholderArg0, argText(ins, 0),
		placeholderArg1, argText(ins, 1),
		placeholderArg2, argText(ins, 2),
		placeholderOp2, op.AssertOpString(ins.Arg(2)),
		placeholderText, ins.Text(),
	).Replace(tpl)
}

// fallback renders instructions no matcher knows about.
func fallback(ins op.Instruction) string {
	if ins.Opcode() == op.Nop && ins.Flags()&^op.ValueArg0 == 0 && ins.Arg(1) == 0 && ins.Arg(2) == 0 {
		return fmt.Sprintf("%5d", ins.Arg(0))
	}
	return rawWords(ins)
}

// rawWords renders the instruction as a raw asm line.
func rawWords(ins op.Instruction) string {
	return fmt.Sprintf("0x%04x 0x%04x 0x%04x 0x%04x", ins.Cmd, ins.Arg(0), ins.Arg(1), ins.Arg(2))
}
