package asm

import (
	"regexp"
)

// Line fragments.
//
// An operand is written either as a literal or as an indirection [N].
// Operand fragments use 3 groups: the whole operand, the literal and the
// address. A destination [D] writes to D, [[D]] writes to the address held in D.
const (
	trailingComment = `(?:(?:[ \t]*)|(?:[ \t]*//.*))?`
	space           = `(?:[ \t]*)`
	spaces          = `(?:[ \t]+)`
	leadingSpace    = space

	functionName = `(\w+)`
	value        = `(\d+)`
	integer      = `([\+\-]?\d+)`

	indirection          = `(?:\[` + space + value + space + `\])`
	indirection2         = `(?:\[` + space + `\[` + space + value + space + `\]` + space + `\])`
	integerOrIndirection = `(` + integer + `|` + indirection + `)`
	valueOrIndirection   = `(` + value + `|` + indirection + `)`
	destination          = `(` + indirection + `|` + indirection2 + `)`

	hexWord = `0x([0-9A-Fa-f]{4})`

	openParen  = space + `\(` + space
	argSep     = space + `,` + space
	closeParen = space + `\)`
)

// Line shapes.
const (
	patCommentLine = trailingComment
	patValue       = leadingSpace + integer + trailingComment
	patAsm         = leadingSpace + hexWord + `[ \t]+` + hexWord + `[ \t]+` + hexWord + `[ \t]+` + hexWord + trailingComment

	// [X] OP= Y
	patMathOp1 = leadingSpace + indirection + space + `([\+\*\^\|\-/~&=!<>%])=` + space + integerOrIndirection + trailingComment
	// X = Y OP Z
	patMathOp2 = leadingSpace + destination + space + `=` + space + integerOrIndirection + space + `([\+\*\^\|\-/~&=!<>%]+)` + space + integerOrIndirection + trailingComment

	patIfGoto1 = leadingSpace + `if` + space + `([!]?)` + space + integerOrIndirection + space + `goto` + space + valueOrIndirection + trailingComment
	patIfGoto2 = leadingSpace + `if` + spaces + integerOrIndirection + space + `([=!<>]{1,2})` + space + integerOrIndirection + spaces + `goto` + spaces + valueOrIndirection + trailingComment

	patAssert1 = leadingSpace + `assert` + openParen + integerOrIndirection + space + `([=!<>&\|]{1,2})` + space + integerOrIndirection + closeParen + trailingComment
	patAssert2 = leadingSpace + `assert` + openParen + `([!]?)` + space + integerOrIndirection + closeParen + trailingComment

	patPrintText = leadingSpace + `print` + openParen + `"([\S ]{0,6})"` + closeParen + trailingComment

	patAssign = leadingSpace + destination + space + `=` + space + integerOrIndirection + trailingComment
	patGoto   = leadingSpace + `goto` + spaces + valueOrIndirection + trailingComment

	// f(...)
	patFn00   = leadingSpace + functionName + openParen + `\)` + trailingComment
	patFn01   = leadingSpace + functionName + openParen + integerOrIndirection + closeParen + trailingComment
	patFn01i  = leadingSpace + functionName + openParen + indirection + closeParen + trailingComment
	patFn02   = leadingSpace + functionName + openParen + integerOrIndirection + argSep + integerOrIndirection + closeParen + trailingComment
	patFn02i  = leadingSpace + functionName + openParen + indirection + argSep + indirection + closeParen + trailingComment
	patFn03   = leadingSpace + functionName + openParen + integerOrIndirection + argSep + integerOrIndirection + argSep + integerOrIndirection + closeParen + trailingComment
	patFn01i2 = leadingSpace + functionName + openParen + indirection + argSep + integerOrIndirection + argSep + integerOrIndirection + closeParen + trailingComment
	patFn011i = leadingSpace + functionName + openParen + integerOrIndirection + argSep + indirection + closeParen + trailingComment

	// [D] = f(...)
	patFn10  = leadingSpace + destination + space + `=` + space + functionName + openParen + `\)` + trailingComment
	patFn11  = leadingSpace + destination + space + `=` + space + functionName + openParen + integerOrIndirection + closeParen + trailingComment
	patFn11i = leadingSpace + destination + space + `=` + space + functionName + openParen + indirection + closeParen + trailingComment
	patFn12  = leadingSpace + destination + space + `=` + space + functionName + openParen + integerOrIndirection + argSep + integerOrIndirection + closeParen + trailingComment
	patFn12i = leadingSpace + destination + space + `=` + space + functionName + openParen + indirection + argSep + indirection + closeParen + trailingComment
)

// lineRegexp compiles a line shape. The whole line must match.
func lineRegexp(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + pattern + `)$`)
}
