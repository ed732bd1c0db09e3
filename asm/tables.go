package asm

import (
	"strconv"

	"go.creack.net/botasm/op"
)

// Matcher names.
const (
	MatchGoto      = "goto"
	MatchAssign    = "assign"
	MatchValue     = "value"
	MatchFn00      = "f()"
	MatchFn01      = "f(A)"
	MatchFn01i     = "f([A])"
	MatchFn02      = "f(A,B)"
	MatchFn02i     = "f([A],[B])"
	MatchFn03      = "f(A,B,C)"
	MatchFn01i2    = "f([A],B,C)"
	MatchFn10      = "[D]=f()"
	MatchFn11      = "[D]=f(A)"
	MatchFn11i     = "[D]=f([A])"
	MatchFn12      = "[D]=f(A,B)"
	MatchFn12i     = "[D]=f([A],[B])"
	MatchIfGoto1   = "if-goto"
	MatchIfGoto2   = "if-compare-goto"
	MatchMathOp1   = "compound-math"
	MatchMathOp2   = "math"
	MatchAsm       = "asm"
	MatchPrintText = "print-text"
	MatchComment   = "comment"
	MatchAssert1   = "assert-compare"
	MatchAssert2   = "assert"
	MatchFn011i    = "f(A,[B])"
)

const (
	tokenGoto   = "goto"
	tokenIf     = "if"
	tokenIfNot  = "if !"
	tokenAssert = "assert"
	tokenPrint  = "print"

	templateAssert = "assert( $A0 $OP2 $A1 )"

	warnAlwaysJumps = "constant condition, always jumps"
	warnNeverJumps  = "constant condition, never jumps"

	assertNotEqual  = "!="
	assertEqualBits = '=' // OR'ed in the low byte of "!=" gives "==".
)

// newMatchers returns the matchers in lookup order. The order matters: a line
// is compiled by the first matcher accepting it, and an instruction is
// decompiled by the first matcher knowing its opcode.
func newMatchers() []*Matcher {
	return []*Matcher{
		newMatcher(MatchGoto, patGoto, parseGoto,
			syntax(tokenGoto, "goto $A0", op.Jmp, slot0),
		),
		newMatcher(MatchAssign, patAssign, parseAssign,
			syntax("", "[$A1] = $A0", op.Copy, slot0, slot1),
		),
		newMatcher(MatchValue, patValue, parseValue,
			syntax("", "", op.Nop, slot0),
		),
		newMatcher(MatchFn00, patFn00, callParser(1),
			syntax("clear_msgs", "clear_msgs()", op.MsgClearMsgs),
			syntax("sense", "sense()", op.SenseMax),
			syntax("cancel_sales", "cancel_sales()", op.CancelSales),
		),
		newMatcher(MatchFn01, patFn01, callParser(1, operandAt(3)),
			syntax("advance", "advance( $A0 )", op.Advance, slot0),
			syntax("print", "print( $A0 )", op.PrintVal, slot0),
			syntax("sense", "sense( $A0 )", op.Sense, slot0),
			syntax("synch", "synch( $A0 )", op.Synch, slot0),
			syntax("selfdestruct", "selfdestruct( $A0 )", op.SelfDestruct, slot0),
			syntax("turn_cw", "turn( $A1, $A0 )", op.Turn, slot0, slotOne),
			syntax("turn_ccw", "turn( $A1, $A0 )", op.Turn, slot0, slotZero),
			syntax("move_msg_to_msgbuf", "move_msg_to_msgbuf( $A0 )", op.MoveMsgMsgbuf, slot0),
			syntax("lock_cargohold", "lock_cargohold( $A0 )", op.LockCargo, slot0),
			syntax("set_error_code", "set_error_code( $A0 )", op.SetErrorCode, slot0),
		),
		// Locations are always read from memory.
		newMatcher(MatchFn01i, patFn01i, callParser(1, addressAt(2)),
			syntax("navigate_to", "navigate_to( $A0 )", op.NavigateTo, slot0),
			syntax("aim_at", "aim_at( $A0 )", op.AimAt, slot0),
			syntax("fire_at", "fire_at( $A0 )", op.FireAt, slot0),
		),
		newMatcher(MatchFn02, patFn02, callParser(1, operandAt(3), operandAt(6)),
			syntax("turn", "turn( $A1, $A0 )", op.Turn, slot1, slot0),
			syntax("store_and_goto", "store_and_goto( $A0, $A1 )", op.StoreJmp, slot0, slot1),
			syntax("refine", "refine( $A0, $A1 )", op.Refine, slot0, slot1),
			syntax("set_navigation_weighting", "set_navigation_weighting( $A0, $A1 )", op.SetAstarWeight, slot0, slot1),
			syntax("try_buy", "try_buy( $A0, $A1 )", op.TryBuy, slot0, slot1),
		),
		newMatcher(MatchFn02i, patFn02i, callParser(1, addressAt(2), addressAt(3)),
			syntax("plot_route_between", "plot_route_between( $A0, $A1 )", op.PlotRouteBetween, slot0, slot1),
		),
		newMatcher(MatchFn03, patFn03, callParser(1, operandAt(3), operandAt(6), operandAt(9)),
			syntax("build", "build( $A0, $A1, $A2 )", op.Build, slot0, slot1, slot2),
			syntax("broadcast", "broadcast( $A0, $A1, $A2 )", op.Broadcast, slot0, slot1, slot2),
			syntax("copy_code_from_msgbuf", "copy_code_from_msgbuf( $A0, $A1, $A2 )", op.CopyMsgbufCode, slot0, slot1, slot2),
			syntax("copy_code", "copy_code( $A0, $A1, $A2 )", op.CopyCode, slot0, slot1, slot2),
			syntax("swap_code", "swap_code( $A0, $A1, $A2 )", op.SwapCode, slot0, slot1, slot2),
			syntax("copy_route", "copy_route( $A0, $A1, $A2 )", op.CopyRoute, slot0, slot1, slot2),
			syntax("for_sale", "for_sale( $A0, $A1, $A2 )", op.ForSale, slot0, slot1, slot2),
		),
		newMatcher(MatchFn01i2, patFn01i2, callParser(1, addressAt(2), operandAt(4), operandAt(7)),
			syntax("transmit", "transmit( $A0, $A1, $A2 )", op.Transmit, slot0, slot1, slot2),
			syntax("give_cargo_to", "give_cargo_to( $A0, $A1, $A2 )", op.GiveCargoTo, slot0, slot1, slot2),
			syntax("take_cargo_from", "take_cargo_from( $A0, $A1, $A2 )", op.TakeCargoFrom, slot0, slot1, slot2),
		),
		newMatcher(MatchFn10, patFn10, callParser(4, operandAt(2)),
			syntax("get_line_number", "[$A0] = get_line_number()", op.Linenumber, slot0),
			syntax("get_line_count", "[$A0] = get_line_count()", op.LineCount, slot0),
			syntax("get_msgbuf_line_count", "[$A0] = get_msgbuf_line_count()", op.MsgbufLineCount, slot0),
			syntax("get_cap", "[$A0] = get_cap()", op.Cap, slot0),
			syntax("get_max_cap", "[$A0] = get_max_cap()", op.MaxCap, slot0),
			syntax("get_max_msgs", "[$A0] = get_max_msgs()", op.GetMaxMsgs, slot0),
			syntax("get_msgs_count", "[$A0] = get_msgs_count()", op.GetMsgsCount, slot0),
			syntax("get_sense_range", "[$A0] = get_sense_range()", op.MaxSenseRange, slot0),
			syntax("get_transmit_range", "[$A0] = get_transmit_range()", op.MaxTransmitRange, slot0),
			syntax("get_broadcast_range", "[$A0] = get_broadcast_range()", op.MaxBroadcastRange, slot0),
			syntax("get_blueprint_count", "[$A0] = get_blueprint_count()", op.GetBlueprintCount, slot0),
			syntax("get_sense_result_count", "[$A0] = get_sense_result_count()", op.SenseResultCount, slot0),
			syntax("get_location", "[$A0] = get_location()", op.GetLocation, slot0),
			syntax("get_random", "[$A0] = get_random()", op.Rand, slot0),
			syntax("get_cargohold_freespace", "[$A0] = get_cargohold_freespace()", op.CargoholdFreeSpace, slot0),
			syntax("get_cargohold_spaceused", "[$A0] = get_cargohold_spaceused()", op.CargoholdSpaceUsed, slot0),
			syntax("get_cargohold_volume", "[$A0] = get_cargohold_volume()", op.CargoholdVolume, slot0),
			syntax("is_cargohold_locked", "[$A0] = is_cargohold_locked()", op.IsCargoLocked, slot0),
			syntax("get_route_length", "[$A0] = get_route_length()", op.GetRouteLength, slot0),
			syntax("get_error_code", "[$A0] = get_error_code()", op.GetErrorCode, slot0),
			syntax("get_credits_balance", "[$A0] = get_credits_balance()", op.GetCreditsBalance, slot0),
		),
		newMatcher(MatchFn11, patFn11, callParser(4, operandAt(2), operandAt(6)),
			syntax("abs", "[$A0] = abs( $A1 )", op.Abs, slot0, slot1),
			syntax("advance", "[$A1] = advance( $A0 )", op.AdvanceWithStore, slot1, slot0),
			syntax("can_build", "[$A0] = can_build( $A1 )", op.CanBuild, slot0, slot1),
			syntax("get_sense_result_type", "[$A0] = get_sense_result_type( $A1 )", op.SenseResultType, slot0, slot1),
			syntax("get_sense_result_location", "[$A0] = get_sense_result_location( $A1 )", op.SenseResultLocation, slot0, slot1),
			syntax("get_cargohold_count_of", "[$A0] = get_cargohold_count_of( $A1 )", op.CargoholdUnitsOf, slot0, slot1),
			syntax("get_cargohold_volume_of", "[$A0] = get_cargohold_volume_of( $A1 )", op.CargoholdVolOf, slot0, slot1),
			syntax("get_navigation_weighting", "[$A0] = get_navigation_weighting( $A1 )", op.GetAstarWeight, slot0, slot1),
			syntax("get_refine_period", "[$A0] = get_refine_period( $A1 )", op.GetRefinePeriod, slot0, slot1),
			syntax("is_location", "[$A0] = is_location( $A1 )", op.IsLocation, slot0, slot1),
			syntax("get_line_number_plus", "[$A0] = get_line_number_plus( $A1 )", op.GetLinenumberPlus, slot0, slot1),
		),
		newMatcher(MatchFn11i, patFn11i, callParser(4, operandAt(2), addressAt(5)),
			syntax("get_distance_to", "[$A0] = get_distance_to( $A1 )", op.DistanceTo, slot0, slot1),
			syntax("get_cw_turn_count_to", "[$A0] = get_cw_turn_count_to( $A1 )", op.CwTurnCountTo, slot0, slot1),
			syntax("can_fire_at", "[$A0] = can_fire_at( $A1 )", op.CanFireAt, slot0, slot1),
			syntax("can_aim_at", "[$A0] = can_aim_at( $A1 )", op.CanAimAt, slot0, slot1),
			syntax("has_line_of_fire_to", "[$A0] = has_line_of_fire_to( $A1 )", op.HasLineOfFireTo, slot0, slot1),
		),
		newMatcher(MatchFn12, patFn12, callParser(4, operandAt(2), operandAt(6), operandAt(9)),
			syntax("get_random", "[$A0] = get_random( $A1, $A2 )", op.RandRange, slot0, slot1, slot2),
			syntax("compare_line", "[$A0] = compare_line( $A1, $A2 )", op.CompareCodeLine, slot0, slot1, slot2),
			syntax("try_buy", "[$A0] = try_buy( $A1, $A2 )", op.TryBuyWithStore, slot0, slot1, slot2),
		),
		newMatcher(MatchFn12i, patFn12i, callParser(4, operandAt(2), addressAt(5), addressAt(6)),
			syntax("get_distance_between", "[$A0] = get_distance_between( $A1, $A2 )", op.DistanceBetween, slot0, slot1, slot2),
		),
		newMatcher(MatchIfGoto1, patIfGoto1, parseIfGoto1,
			syntax(tokenGoto, "", op.Jmp, slot0),
			syntax("", "", op.Nop),
			syntax(tokenIf, "if $A0 != $A1 goto $A2", op.JmpNeq, slot0, slot1, slot2),
			syntax(tokenIfNot, "if $A0 == $A1 goto $A2", op.JmpEq, slot0, slot1, slot2),
		),
		newMatcher(MatchIfGoto2, patIfGoto2, parseIfGoto2,
			syntax("if <", "if $A0 < $A1 goto $A2", op.JmpLt, slot0, slot1, slot2),
			syntax("if >", "if $A0 > $A1 goto $A2", op.JmpGt, slot0, slot1, slot2),
			syntax("if >=", "if $A0 >= $A1 goto $A2", op.JmpGte, slot0, slot1, slot2),
			syntax("if <=", "if $A0 <= $A1 goto $A2", op.JmpLte, slot0, slot1, slot2),
			syntax("if ==", "if $A0 == $A1 goto $A2", op.JmpEq, slot0, slot1, slot2),
			syntax("if !=", "if $A0 != $A1 goto $A2", op.JmpNeq, slot0, slot1, slot2),
		),
		newMatcher(MatchMathOp1, patMathOp1, parseMathOp1, mathSyntaxes(false)...),
		newMatcher(MatchMathOp2, patMathOp2, parseMathOp2, mathSyntaxes(true)...),
		newMatcher(MatchAsm, patAsm, parseAsm,
			syntax("", "", op.Nop, slot0, slot1, slot2),
		),
		newMatcher(MatchPrintText, patPrintText, parsePrintText,
			syntax(tokenPrint, `print( "$TEXT" )`, op.PrintTxt, slot0, slot1, slot2),
		),
		newMatcher(MatchComment, patCommentLine, parseComment,
			syntax("", "", op.Nop),
		),
		newMatcher(MatchAssert1, patAssert1, parseAssert1,
			syntax(tokenAssert, templateAssert, op.Assert, slot0, slot1, slot2),
		),
		newMatcher(MatchAssert2, patAssert2, parseAssert2,
			syntax(tokenAssert, templateAssert, op.Assert, slot0, slot1, slot2),
		),
		newMatcher(MatchFn011i, patFn011i, callParser(1, operandAt(3), addressAt(5)),
			syntax("navigate_n_towards", "navigate_n_towards( $A0, $A1 )", op.NavigateNTowards, slot0, slot1),
			syntax("transfer_credits_to", "transfer_credits_to( $A0, $A1 )", op.TransferCreditsTo, slot0, slot1),
		),
	}
}

// mathSyntaxes returns the operators of [D] = A OP B. The compound form
// [D] OP= B only knows the arithmetic and bitwise ones.
func mathSyntaxes(all bool) []Syntax {
	type mathOp struct {
		token string
		code  op.Opcode
	}
	ops := []mathOp{
		{"+", op.Add},
		{"-", op.Sub},
		{"*", op.Mul},
		{"/", op.Div},
		{"%", op.Modulo},
		{"|", op.Or},
		{"&", op.And},
		{"^", op.Xor},
	}
	if all {
		ops = append(ops, []mathOp{
			{">", op.BoolGt},
			{"<", op.BoolLt},
			{">=", op.BoolGte},
			{"<=", op.BoolLte},
			{">>", op.RightShift},
			{"<<", op.LeftShift},
			{"||", op.BoolOr},
			{"&&", op.BoolAnd},
			{"==", op.Eq},
			{"!=", op.Neq},
		}...)
	}
	out := make([]Syntax, 0, len(ops))
	for _, elem := range ops {
		out = append(out, syntax(elem.token, "[$A0] = $A1 "+elem.token+" $A2", elem.code, slot0, slot1, slot2))
	}
	return out
}

// capture tells where an argument is in the line match.
type capture struct {
	group  int
	forced bool // Written as [N] only.
}

func operandAt(group int) capture { return capture{group: group} }
func addressAt(group int) capture { return capture{group: group, forced: true} }

// callParser parses function calls: the name is at nameGroup and each
// capture fills the next record value.
func callParser(nameGroup int, captures ...capture) func(m []string) (record, bool) {
	return func(m []string) (record, bool) {
		token, ok := parseToken(m[nameGroup])
		if !ok {
			return record{}, false
		}
		r := record{token: token}
		for i, c := range captures {
			if c.forced {
				ok = r.setAddress(i, m, c.group)
			} else {
				ok = r.set(i, m, c.group)
			}
			if !ok {
				return record{}, false
			}
		}
		return r, true
	}
}

func parseGoto(m []string) (record, bool) {
	r := record{token: tokenGoto}
	ok := r.set(0, m, 2)
	return r, ok
}

// [to] = from
func parseAssign(m []string) (record, bool) {
	var r record
	if !r.set(1, m, 2) || !r.set(0, m, 5) {
		return record{}, false
	}
	return r, true
}

func parseValue(m []string) (record, bool) {
	v, ok := parseNumber(m[1])
	return record{values: [op.ArgsNumber]uint16{v}, literal: [op.ArgsNumber]bool{true}}, ok
}

func parseComment([]string) (record, bool) {
	return record{}, true
}

// A literal condition is resolved now: either an unconditional jump or nothing.
// Otherwise the condition is compared against 0 at runtime.
func parseIfGoto1(m []string) (record, bool) {
	invert := m[1] == "!"
	cond, condLiteral, ok1 := operand(m, 3)
	target, targetLiteral, ok2 := operand(m, 6)
	if !ok1 || !ok2 {
		return record{}, false
	}
	if condLiteral {
		if (cond != 0) == invert {
			return record{warning: warnNeverJumps}, true
		}
		return record{
			token:   tokenGoto,
			values:  [op.ArgsNumber]uint16{target},
			literal: [op.ArgsNumber]bool{targetLiteral},
			warning: warnAlwaysJumps,
		}, true
	}
	token := tokenIf
	if invert {
		token = tokenIfNot
	}
	return record{
		token:   token,
		values:  [op.ArgsNumber]uint16{cond, 0, target},
		literal: [op.ArgsNumber]bool{false, true, targetLiteral},
	}, true
}

func parseIfGoto2(m []string) (record, bool) {
	r := record{token: tokenIf + " " + m[4]}
	if !r.set(0, m, 2) || !r.set(1, m, 6) || !r.set(2, m, 9) {
		return record{}, false
	}
	return r, true
}

// [D] OP= V is [D] = [D] OP V.
func parseMathOp1(m []string) (record, bool) {
	dst, ok := parseNumber(m[1])
	if !ok {
		return record{}, false
	}
	r := record{
		token:   m[2],
		values:  [op.ArgsNumber]uint16{dst, dst},
		literal: [op.ArgsNumber]bool{true, false},
	}
	if !r.set(2, m, 4) {
		return record{}, false
	}
	return r, true
}

func parseMathOp2(m []string) (record, bool) {
	token, ok := parseToken(m[7])
	if !ok {
		return record{}, false
	}
	r := record{token: token}
	if !r.set(0, m, 2) || !r.set(1, m, 5) || !r.set(2, m, 9) {
		return record{}, false
	}
	return r, true
}

func parseAsm(m []string) (record, bool) {
	var words [4]uint16
	for i := range words {
		n, err := strconv.ParseUint(m[i+1], 16, 16)
		if err != nil {
			return record{}, false
		}
		words[i] = uint16(n)
	}
	return record{
		raw:    words[0],
		values: [op.ArgsNumber]uint16{words[1], words[2], words[3]},
	}, true
}

func parsePrintText(m []string) (record, bool) {
	if len(m[1]) > op.TextMaxLength {
		return record{}, false
	}
	return record{token: tokenPrint, values: op.PackText(m[1])}, true
}

func parseAssert1(m []string) (record, bool) {
	r := record{token: tokenAssert}
	if !r.set(0, m, 2) || !r.set(1, m, 6) {
		return record{}, false
	}
	r.values[2] = op.AssertOp(m[4])
	return r, true
}

// assert( [!]A ) is assert( A != 0 ), or assert( A == 0 ) when inverted.
func parseAssert2(m []string) (record, bool) {
	r := record{token: tokenAssert}
	if !r.set(0, m, 3) {
		return record{}, false
	}
	opWord := op.AssertOp(assertNotEqual)
	if m[1] == "!" {
		opWord |= assertEqualBits
	}
	r.values[1], r.literal[1] = 0, true
	r.values[2] = opWord
	return r, true
}
