package op

// AssertOp packs a 1 or 2 chars assert operator into a word, first char in the low byte.
func AssertOp(s string) uint16 {
	var w uint16
	if len(s) > 0 {
		w = uint16(s[0])
	}
	if len(s) > 1 {
		w |= uint16(s[1]) << 8
	}
	return w
}

// AssertOpString returns the operator packed by AssertOp, stopping at the
// first NUL. Undisplayable bytes are replaced by '?'.
func AssertOpString(op uint16) string {
	lo, hi := LowByte(op), HighByte(op)
	switch {
	case lo == 0:
		return ""
	case hi == 0:
		return string([]byte{toText(lo)})
	default:
		return string([]byte{toText(lo), toText(hi)})
	}
}

// CheckAssert evaluates the assert operator op over a and b.
// A zero op tests a for truth. Unknown operators are false.
//
// && || < > & | ! == != <= >=
func CheckAssert(a, b, op uint16) bool {
	lo, hi := LowByte(op), HighByte(op)
	switch {
	case op == 0:
		return a != 0
	case hi == '=':
		switch lo {
		case '=':
			return a == b
		case '!':
			return a != b
		case '<':
			return a <= b
		case '>':
			return a >= b
		}
	case lo == '&' && hi == '&':
		return a != 0 && b != 0
	case lo == '|' && hi == '|':
		return a != 0 || b != 0
	case hi == 0:
		switch lo {
		case '|':
			return a|b != 0
		case '&':
			return a&b != 0
		case '<':
			return a < b
		case '>':
			return a > b
		case '!':
			return a == 0
		}
	}
	return false
}
