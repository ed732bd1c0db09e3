package asm_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/op"
)

var scoutLines = []string{
	"sense(5)",
	"[1] = get_sense_result_count()",
	"[4] = get_distance_between([2],[5])",
	`print("DIST")`,
	"if [0] goto [2]",
}

var _ = Describe("Compile", func() {
	DescribeTable("should encode",
		func(line string, expected op.Instruction) {
			ins, err := asm.Compile(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(ins).To(Equal(expected))
		},
		Entry("a sense with a literal range", "sense(5)", op.NewInstruction(0x100F, 5, 0, 0)),
		Entry("a getter storing to memory", "[1] = get_sense_result_count()", op.NewInstruction(0x1014, 1, 0, 0)),
		Entry("a getter reading 2 locations", "[4] = get_distance_between([2],[5])", op.NewInstruction(0x101A, 4, 2, 5)),
		Entry("a print with text", `print("DIST")`, op.NewInstruction(0x0004, 'D'|'I'<<8, 'S'|'T'<<8, 0)),
		Entry("an if on memory", "if [0] goto [2]", op.NewInstruction(0x2034, 0, 0, 2)),
		Entry("an inverted if on memory", "if ![3] goto 7", op.NewInstruction(0x6033, 3, 0, 7)),
		Entry("a goto", "goto 12", op.NewInstruction(0x1001, 12, 0, 0)),
		Entry("a goto through memory", "goto [12]", op.NewInstruction(0x0001, 12, 0, 0)),
		Entry("a copy", "[3] = [4]", op.NewInstruction(0x2003, 4, 3, 0)),
		Entry("a copy through a pointer", "[[3]] = 9", op.NewInstruction(0x1003, 9, 3, 0)),
		Entry("a value line", "42", op.NewValue(42)),
		Entry("a negative value line", "-1", op.NewValue(0xFFFF)),
		Entry("a raw line", "0x1234 0xabcd 0x0000 0xFFFF", op.NewInstruction(0x1234, 0xABCD, 0, 0xFFFF)),
		Entry("a compound operation", "[5] += 3", op.NewInstruction(0x5006, 5, 5, 3)),
		Entry("a binary operation", "[5] = [1] >> 2", op.NewInstruction(0x5000|uint16(op.RightShift), 5, 1, 2)),
		Entry("a clockwise turn", "turn_cw( 2 )", op.NewInstruction(0x3011, 2, 1, 0)),
		Entry("a counter clockwise turn", "turn_ccw( [2] )", op.NewInstruction(0x2011, 2, 0, 0)),
		Entry("a turn", "turn( 0, [6] )", op.NewInstruction(0x2011, 6, 0, 0)),
		Entry("an advance storing its result", "[2] = advance( 3 )", op.NewInstruction(0x3000|uint16(op.AdvanceWithStore), 3, 2, 0)),
		Entry("a call with a trailing comment", "sense( 5 )  // look around", op.NewInstruction(0x100F, 5, 0, 0)),
		Entry("a call with leading spaces", "\t  sense(5)", op.NewInstruction(0x100F, 5, 0, 0)),
		Entry("a mixed operand call", "navigate_n_towards( 3, [9] )", op.NewInstruction(0x1000|uint16(op.NavigateNTowards), 3, 9, 0)),
	)

	DescribeTable("should compile to a nop",
		func(line string) {
			Expect(asm.MustCompile(line)).To(Equal(op.NewNop()))
		},
		Entry("an empty line", ""),
		Entry("a blank line", "   \t"),
		Entry("a comment", "// comment"),
		Entry("an indented comment", "  // comment"),
	)

	DescribeTable("should map the comparison to its jump",
		func(cmp string, code op.Opcode) {
			ins := asm.MustCompile("if [1] " + cmp + " [2] goto 3")
			Expect(ins.Opcode()).To(Equal(code))
			Expect(ins.Args).To(Equal([op.ArgsNumber]uint16{1, 2, 3}))
		},
		Entry("<", "<", op.JmpLt),
		Entry(">", ">", op.JmpGt),
		Entry(">=", ">=", op.JmpGte),
		Entry("<=", "<=", op.JmpLte),
		Entry("==", "==", op.JmpEq),
		Entry("!=", "!=", op.JmpNeq),
	)

	Context("when the condition is a literal", func() {
		It("should jump unconditionally on a true condition", func() {
			r := asm.TryCompile("if 1 goto 5")
			Expect(r.OK()).To(BeTrue())
			Expect(r.Warning()).To(Equal("constant condition, always jumps"))
			ins, err := r.Instruction()
			Expect(err).NotTo(HaveOccurred())
			Expect(ins).To(Equal(op.NewInstruction(0x1001, 5, 0, 0)))
		})

		It("should keep an indirect target", func() {
			r := asm.TryCompile("if !0 goto [5]")
			ins, err := r.Instruction()
			Expect(err).NotTo(HaveOccurred())
			Expect(ins).To(Equal(op.NewInstruction(0x0001, 5, 0, 0)))
		})

		It("should drop the jump on a false condition", func() {
			r := asm.TryCompile("if 0 goto 5")
			Expect(r.Warning()).To(Equal("constant condition, never jumps"))
			ins, err := r.Instruction()
			Expect(err).NotTo(HaveOccurred())
			Expect(ins).To(Equal(op.NewNop()))

			r = asm.TryCompile("if !3 goto 5")
			Expect(r.Warning()).To(Equal("constant condition, never jumps"))
		})

		It("should not warn on memory conditions", func() {
			Expect(asm.TryCompile("if [1] goto 5").Warning()).To(BeEmpty())
		})
	})

	It("should fall through to the next shape on an unknown function", func() {
		ins := asm.MustCompile("assert( [5] )")
		Expect(ins.Opcode()).To(Equal(op.Assert))
		Expect(ins.Args).To(Equal([op.ArgsNumber]uint16{5, 0, op.AssertOp("!=")}))
		Expect(ins.IsValue(1)).To(BeTrue())
		Expect(asm.Default().MatcherFor("assert( [5] )")).To(Equal(asm.MatchAssert2))
	})

	It("should invert bare asserts", func() {
		ins := asm.MustCompile("assert( ![5] )")
		Expect(op.AssertOpString(ins.Arg(2))).To(Equal("=="))
	})

	DescribeTable("should refuse",
		func(line string) {
			r := asm.TryCompile(line)
			Expect(r.OK()).To(BeFalse())
			Expect(r.Err()).To(MatchError(asm.ErrUnableToCompile))
			Expect(r.Err().Error()).To(Equal("Unable to compile `" + line + "`"))

			var cErr *asm.CompileError
			Expect(errors.As(r.Err(), &cErr)).To(BeTrue())
			Expect(cErr.Line).To(Equal(line))
		},
		Entry("an unknown function", "explode()"),
		Entry("a literal location", "navigate_to( 5 )"),
		Entry("too many arguments", "sense( 1, 2 )"),
		Entry("a number too large", "sense( 65536 )"),
		Entry("a number too small", "sense( -32769 )"),
		Entry("a text too long", `print("TOOLONG")`),
		Entry("a text too long in bytes", `print("éééé")`),
		Entry("garbage", "hello world"),
		Entry("a missing parenthesis", "sense( 5"),
	)

	It("should accept the word range", func() {
		Expect(asm.MustCompile("sense( 65535 )").Arg(0)).To(Equal(uint16(0xFFFF)))
		Expect(asm.MustCompile("sense( -32768 )").Arg(0)).To(Equal(uint16(0x8000)))
		Expect(asm.MustCompile(`print("ééé")`).Opcode()).To(Equal(op.PrintTxt))
	})
})

var _ = Describe("CompileLines", func() {
	It("should compile each line", func() {
		p, err := asm.CompileLines(scoutLines)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(5))
		Expect(p.At(1)).To(Equal(asm.MustCompile("sense(5)")))
	})

	It("should give the same program from text", func() {
		fromLines, err := asm.CompileLines(scoutLines)
		Expect(err).NotTo(HaveOccurred())

		fromText, err := asm.CompileText(strings.Join(scoutLines, "\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(fromText.Equal(fromLines)).To(BeTrue())

		fromText, err = asm.CompileText(strings.Join(scoutLines, "\r\n") + "\r\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(fromText.Equal(fromLines)).To(BeTrue())
	})

	It("should report the failing line", func() {
		_, err := asm.CompileLines([]string{"sense(1)", "nope"})
		Expect(err).To(MatchError(asm.ErrUnableToCompile))
		Expect(err.Error()).To(Equal("line 2: Unable to compile `nope`"))
	})

	It("should enforce the program length", func() {
		_, err := asm.CompileLines(nil)
		Expect(err).To(MatchError(op.ErrEmptyProgram))

		_, err = asm.CompileText("")
		Expect(err).To(MatchError(op.ErrEmptyProgram))

		lines := make([]string, op.MaxInstructions)
		p, err := asm.CompileLines(lines)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(op.MaxInstructions))

		_, err = asm.CompileLines(append(lines, ""))
		Expect(err).To(MatchError(op.ErrProgramTooLong))
	})
})

var _ = Describe("Decompile", func() {
	DescribeTable("should render",
		func(ins op.Instruction, expected string) {
			Expect(asm.Decompile(ins)).To(Equal(expected))
		},
		Entry("the nop as an empty line", op.NewNop(), ""),
		Entry("a value line", op.NewValue(42), "   42"),
		Entry("an unknown opcode as raw words", op.NewInstruction(0x0FFF, 1, 2, 3), "0x0fff 0x0001 0x0002 0x0003"),
		Entry("a location as raw words", op.NewLocation(3, 4), "0x3999 0x0003 0x0004 0x0000"),
		Entry("a flagged nop as raw words", op.NewInstruction(0x2000, 0, 0, 0), "0x2000 0x0000 0x0000 0x0000"),
		Entry("a sense", op.NewInstruction(0x100F, 5, 0, 0), "sense( 5 )"),
		Entry("a getter", op.NewInstruction(0x1014, 1, 0, 0), "[1] = get_sense_result_count()"),
		Entry("a getter with a pointer", op.NewInstruction(0x0014, 1, 0, 0), "[[1]] = get_sense_result_count()"),
		Entry("a print", op.NewInstruction(0x0004, 'D'|'I'<<8, 'S'|'T'<<8, 0), `print( "DIST" )`),
		Entry("an if", op.NewInstruction(0x2034, 0, 0, 2), "if [0] != 0 goto [2]"),
		Entry("an advance storing its result", op.NewInstruction(0x3000|uint16(op.AdvanceWithStore), 3, 2, 0), "[2] = advance( 3 )"),
		Entry("a negative literal as signed", op.NewInstruction(0x100F, 0xFFFF, 0, 0), "sense( -1 )"),
		Entry("the smallest literal", op.NewInstruction(0x100F, 0x8000, 0, 0), "sense( -32768 )"),
		Entry("a high address as unsigned", op.NewInstruction(0x000F, 0xFFFF, 0, 0), "sense( [65535] )"),
		Entry("an assert", op.NewInstruction(0x3024, 1, 2, op.AssertOp("<=")), "assert( 1 <= 2 )"),
	)

	DescribeTable("should give back the typed literal",
		func(line, expected string) {
			Expect(asm.Decompile(asm.MustCompile(line))).To(Equal(expected))
		},
		Entry("in a call", "sense( -1 )", "sense( -1 )"),
		Entry("in an assignment", "[1] = -5", "[1] = -5"),
		Entry("in a compound assignment", "[3] += -2", "[3] = [3] + -2"),
		Entry("at the bottom of the range", "sense( -32768 )", "sense( -32768 )"),
		Entry("above the signed range", "sense( 40000 )", "sense( -25536 )"),
	)

	// Any four words decompile, and the exact form compiles back to them.
	It("should render any instruction", func() {
		rng := rand.New(rand.NewPCG(1, 2))
		arg := func() uint16 {
			if rng.IntN(2) == 0 {
				return uint16(rng.IntN(8))
			}
			return uint16(rng.Uint32())
		}
		check := func(ins op.Instruction) {
			Expect(func() { asm.Decompile(ins) }).NotTo(Panic(), "%s", ins)
			text := asm.Default().DecompileExact(ins)
			Expect(asm.Compile(text)).To(Equal(ins), "%s: %q", ins, text)
		}

		for _, code := range asm.Opcodes() {
			for flags := range uint16(8) {
				for range 16 {
					check(op.NewInstruction(uint16(code)|flags<<12, arg(), arg(), arg()))
				}
			}
		}
		for range 20000 {
			check(op.NewInstruction(uint16(rng.Uint32()), arg(), arg(), arg()))
		}
	})

	It("should round trip the program", func() {
		p, err := asm.CompileLines(scoutLines)
		Expect(err).NotTo(HaveOccurred())

		back, err := asm.CompileLines(asm.Default().DecompileProgram(p))
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Equal(p)).To(BeTrue())
	})

	It("should round trip raw lines", func() {
		for _, ins := range []op.Instruction{
			op.NewInstruction(0x0FFF, 1, 2, 3),
			op.NewLocation(10, 20),
			op.NewValue(7),
			op.NewInstruction(0x7000, 0, 0, 0),
		} {
			Expect(asm.Compile(asm.Decompile(ins))).To(Equal(ins), "%s", ins)
		}
	})

	It("should fall back to raw words when the text does not compile back", func() {
		ins := op.NewInstruction(0x1000|uint16(op.NavigateTo), 5, 0, 0)
		Expect(asm.Decompile(ins)).To(Equal("navigate_to( 5 )"))

		text := asm.Default().DecompileExact(ins)
		Expect(text).To(HavePrefix("0x1"))
		Expect(asm.Compile(text)).To(Equal(ins))

		Expect(asm.Default().DecompileExact(asm.MustCompile("sense( 5 )"))).To(Equal("sense( 5 )"))
	})

	// Every template is rendered with each mix of literal and memory
	// operands. Whatever compiles must come back unchanged.
	It("should round trip every template", func() {
		operands := []string{"3", "[7]"}
		for _, m := range asm.Default().Matchers() {
			for _, s := range m.Syntaxes() {
				if s.Template == "" {
					continue
				}
				compiled := 0
				for mask := range 1 << op.ArgsNumber {
					line := strings.NewReplacer(
						"$A0", operands[mask&1],
						"$A1", operands[mask>>1&1],
						"$A2", operands[mask>>2&1],
						"$OP2", "<",
						"$TEXT", "HI 42",
					).Replace(s.Template)
					ins, err := asm.Compile(line)
					if err != nil {
						continue
					}
					compiled++
					text := asm.Decompile(ins)
					Expect(asm.Compile(text)).To(Equal(ins), "%s %q: %q -> %q", m.Name, s.Token, line, text)
				}
				Expect(compiled).NotTo(BeZero(), "%s %q", m.Name, s.Template)
			}
		}
	})
})

var _ = Describe("Predict", func() {
	It("should predict nothing without a prefix", func() {
		Expect(asm.Predict("")).To(BeEmpty())
	})

	It("should list the matching tokens once, sorted", func() {
		got := asm.Predict("get_sense")
		Expect(got).To(Equal([]string{
			"get_sense_range",
			"get_sense_result_count",
			"get_sense_result_location",
			"get_sense_result_type",
		}))
	})

	It("should keep tokens shared by several shapes once", func() {
		got := asm.Predict("sense")
		Expect(got).To(Equal([]string{"sense"}))
	})

	It("should hold for any prefix", func() {
		for _, prefix := range []string{"a", "c", "g", "get_", "i", "t", "tr", "[", "+", "zz"} {
			got := asm.Predict(prefix)
			Expect(slices.IsSorted(got)).To(BeTrue(), prefix)
			Expect(slices.Compact(slices.Clone(got))).To(Equal(got), prefix)
			for _, token := range got {
				Expect(token).To(HavePrefix(prefix))
			}
		}
	})
})

var _ = Describe("Compiler", func() {
	It("should try the shapes in order", func() {
		var names []string
		for _, m := range asm.Default().Matchers() {
			names = append(names, m.Name)
		}
		Expect(names).To(Equal([]string{
			asm.MatchGoto, asm.MatchAssign, asm.MatchValue,
			asm.MatchFn00, asm.MatchFn01, asm.MatchFn01i, asm.MatchFn02, asm.MatchFn02i, asm.MatchFn03, asm.MatchFn01i2,
			asm.MatchFn10, asm.MatchFn11, asm.MatchFn11i, asm.MatchFn12, asm.MatchFn12i,
			asm.MatchIfGoto1, asm.MatchIfGoto2, asm.MatchMathOp1, asm.MatchMathOp2,
			asm.MatchAsm, asm.MatchPrintText, asm.MatchComment, asm.MatchAssert1, asm.MatchAssert2,
			asm.MatchFn011i,
		}))
	})

	It("should list the opcodes it produces", func() {
		codes := asm.Opcodes()
		Expect(slices.IsSorted(codes)).To(BeTrue())
		Expect(codes).To(ContainElements(op.Nop, op.Sense, op.JmpGte, op.TransferCreditsTo))
		Expect(codes).NotTo(ContainElement(op.Location))
		for _, code := range codes {
			Expect(code.Valid()).To(BeTrue(), code.String())
		}
	})

	It("should find the syntaxes of a token", func() {
		syntaxes := asm.Default().Syntax("advance")
		Expect(syntaxes).To(HaveLen(2))
		Expect(syntaxes[0].Opcode).To(Equal(op.Advance))
		Expect(syntaxes[1].Opcode).To(Equal(op.AdvanceWithStore))
		Expect(syntaxes[1].Arity()).To(Equal(2))
	})
})

var _ = Describe("Assemble", func() {
	It("should produce a decodable image", func() {
		data, p, err := asm.Assemble("scout", strings.Join(scoutLines, "\n"))
		Expect(err).NotTo(HaveOccurred())

		h, decoded, err := op.DecodeProgram(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Name()).To(Equal("scout"))
		Expect(h.Count).To(Equal(uint32(5)))
		Expect(decoded.Equal(p)).To(BeTrue())
	})

	It("should require a name", func() {
		_, _, err := asm.Assemble("", "sense(1)")
		Expect(err).To(HaveOccurred())
	})

	It("should report compile errors", func() {
		_, _, err := asm.Assemble("broken", "sense(1)\nnope")
		Expect(err).To(MatchError(asm.ErrUnableToCompile))
	})
})
