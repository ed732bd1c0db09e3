package op_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.creack.net/botasm/op"
)

func values(n int) []op.Instruction {
	out := make([]op.Instruction, n)
	for i := range out {
		out[i] = op.NewValue(uint16(i + 1))
	}
	return out
}

var _ = Describe("Program", func() {
	It("should refuse empty programs", func() {
		_, err := op.NewProgram(nil)
		Expect(err).To(MatchError(op.ErrEmptyProgram))
	})

	It("should accept up to the max instruction count", func() {
		p, err := op.NewProgram(values(op.MaxInstructions))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(op.MaxInstructions))

		_, err = op.NewProgram(values(op.MaxInstructions + 1))
		Expect(err).To(MatchError(op.ErrProgramTooLong))
	})

	It("should copy its input", func() {
		in := values(2)
		p, err := op.NewProgram(in)
		Expect(err).NotTo(HaveOccurred())

		in[0] = op.NewNop()
		Expect(p.At(1)).To(Equal(op.NewValue(1)))
	})

	Context("when indexing", func() {
		var p *op.Program

		BeforeEach(func() {
			var err error
			p, err = op.NewProgram(values(3))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be 1 based", func() {
			Expect(p.At(1)).To(Equal(op.NewValue(1)))
			Expect(p.At(3)).To(Equal(op.NewValue(3)))
		})

		It("should wrap around", func() {
			Expect(p.At(0)).To(Equal(op.NewValue(3)))
			Expect(p.At(4)).To(Equal(op.NewValue(1)))
			Expect(p.At(-1)).To(Equal(op.NewValue(2)))
		})

		It("should set modulo the length", func() {
			p.Set(5, op.NewNop())
			Expect(p.At(2)).To(Equal(op.NewNop()))
		})
	})

	Context("when taking a subset", func() {
		var p *op.Program

		BeforeEach(func() {
			var err error
			p, err = op.NewProgram(values(5))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should clamp to the end", func() {
			s, err := p.Subset(4, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Instructions()).To(Equal([]op.Instruction{op.NewValue(4), op.NewValue(5)}))
		})

		It("should fail when empty", func() {
			_, err := p.Subset(6, 1)
			Expect(err).To(MatchError(op.ErrEmptyProgram))
			_, err = p.Subset(1, 0)
			Expect(err).To(MatchError(op.ErrEmptyProgram))
		})
	})

	It("should compare programs", func() {
		a, _ := op.NewProgram(values(2))
		b, _ := op.NewProgram(values(2))
		c, _ := op.NewProgram(values(3))

		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(c)).To(BeFalse())
	})

	Context("when encoding", func() {
		It("should round trip through the binary image", func() {
			p, err := op.NewProgram([]op.Instruction{
				op.NewInstruction(uint16(op.Sense)|op.ValueArg0, 5, 0, 0),
				op.NewValue(0xFFFF),
			})
			Expect(err).NotTo(HaveOccurred())

			buf, err := p.Encode("scout")
			Expect(err).NotTo(HaveOccurred())
			headerSize, _ := op.HeaderStructSize()
			Expect(buf).To(HaveLen(headerSize + 2*8))

			h, p2, err := op.DecodeProgram(buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(h.Name()).To(Equal("scout"))
			Expect(h.Count).To(Equal(uint32(2)))
			Expect(p2.Equal(p)).To(BeTrue())
		})

		It("should reject bad images", func() {
			p, _ := op.NewProgram(values(1))
			buf, err := p.Encode("x")
			Expect(err).NotTo(HaveOccurred())

			_, _, err = op.DecodeProgram(buf[:len(buf)-1])
			Expect(err).To(MatchError(op.ErrTruncated))

			buf[0] ^= 0xFF
			_, _, err = op.DecodeProgram(buf)
			Expect(err).To(MatchError(op.ErrBadMagic))
		})

		It("should refuse long names", func() {
			p, _ := op.NewProgram(values(1))
			_, err := p.Encode("0123456789012345678901234567890123456789")
			Expect(err).To(HaveOccurred())
		})

		It("should flatten to words", func() {
			p, _ := op.NewProgram(values(2))
			Expect(p.Words()).To(Equal([]uint16{op.ValueArg0, 1, 0, 0, op.ValueArg0, 2, 0, 0}))
		})
	})
})

var _ = Describe("CheckAssert", func() {
	DescribeTable("operators",
		func(a, b uint16, opText string, want bool) {
			Expect(op.CheckAssert(a, b, op.AssertOp(opText))).To(Equal(want))
		},
		Entry("truth", uint16(1), uint16(0), "", true),
		Entry("falsy", uint16(0), uint16(9), "", false),
		Entry("==", uint16(3), uint16(3), "==", true),
		Entry("!=", uint16(3), uint16(3), "!=", false),
		Entry("<=", uint16(3), uint16(4), "<=", true),
		Entry(">=", uint16(3), uint16(4), ">=", false),
		Entry("&&", uint16(1), uint16(0), "&&", false),
		Entry("||", uint16(1), uint16(0), "||", true),
		Entry("|", uint16(0), uint16(0), "|", false),
		Entry("&", uint16(2), uint16(1), "&", false),
		Entry("<", uint16(2), uint16(3), "<", true),
		Entry(">", uint16(2), uint16(3), ">", false),
		Entry("!", uint16(0), uint16(3), "!", true),
		Entry("unknown", uint16(1), uint16(1), "~", false),
	)

	It("should print the operator back", func() {
		Expect(op.AssertOpString(op.AssertOp("!="))).To(Equal("!="))
		Expect(op.AssertOpString(op.AssertOp("<"))).To(Equal("<"))
		Expect(op.AssertOpString(0)).To(Equal(""))
	})
})
