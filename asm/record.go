package asm

import (
	"strconv"

	"go.creack.net/botasm/op"
)

// slot selects the record value feeding an instruction argument.
type slot int

const (
	slot0 slot = iota
	slot1
	slot2
	slotOne  // Literal 1.
	slotZero // Literal 0.
)

// record is what a matcher extracts from a line.
type record struct {
	token   string
	values  [op.ArgsNumber]uint16
	literal [op.ArgsNumber]bool // false means indirection.
	raw     uint16              // Command word bits, raw asm lines only.
	warning string
}

func (r record) get(s slot) (uint16, bool) {
	switch s {
	case slotOne:
		return 1, true
	case slotZero:
		return 0, true
	default:
		return r.values[s], r.literal[s]
	}
}

// set stores the operand captured at group n of m into the ith value.
func (r *record) set(i int, m []string, n int) bool {
	v, lit, ok := operand(m, n)
	r.values[i], r.literal[i] = v, lit
	return ok
}

// setAddress stores the forced indirection captured at group n of m into the ith value.
func (r *record) setAddress(i int, m []string, n int) bool {
	v, ok := parseNumber(m[n])
	r.values[i], r.literal[i] = v, false
	return ok
}

// operand reads a literal-or-indirection capture: group n holds the literal
// form, group n+1 the address form. For destinations, group n holds [D]
// which counts as literal.
func operand(m []string, n int) (v uint16, literal, ok bool) {
	if m[n] != "" {
		v, ok = parseNumber(m[n])
		return v, true, ok
	}
	v, ok = parseNumber(m[n+1])
	return v, false, ok
}

// parseNumber parses a decimal number fitting in a word.
// Negative numbers down to -32768 wrap around.
func parseNumber(s string) (uint16, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < -32768 || n > 0xFFFF {
		return 0, false
	}
	return uint16(n), true
}

// parseToken validates a function name or operator.
func parseToken(s string) (string, bool) {
	if s == "" || len(s) > op.TokenMaxLength {
		return "", false
	}
	return s, true
}
