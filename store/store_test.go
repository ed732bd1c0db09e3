package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/op"
	"go.creack.net/botasm/store"
)

func program() *op.Program {
	p, err := op.NewProgram([]op.Instruction{
		asm.MustCompile("sense( 5 )"),
		op.NewNop(),
		asm.MustCompile(`print( "HI" )`),
		op.NewValue(42),
		op.NewInstruction(0x1000|uint16(op.NavigateTo), 5, 0, 0),
		op.NewLocation(1, 2),
		op.NewNop(),
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Store", func() {
	DescribeTable("should round trip",
		func(f store.Format, keepsName bool) {
			p := program()
			data, err := store.Encode(f, "scout", p)
			Expect(err).NotTo(HaveOccurred())

			name, back, err := store.Decode(f, data)
			Expect(err).NotTo(HaveOccurred())
			Expect(back.Equal(p)).To(BeTrue())
			if keepsName {
				Expect(name).To(Equal("scout"))
			} else {
				Expect(name).To(BeEmpty())
			}
		},
		Entry("the binary image", store.FormatBin, true),
		Entry("the save data", store.FormatJSON, false),
		Entry("the cbor image", store.FormatCBOR, true),
		Entry("the source", store.FormatText, false),
	)

	It("should save one line per instruction", func() {
		data, err := store.MarshalJSON(program())
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(MatchJSON(`{"instructions": [
			"sense( 5 )",
			"",
			"print( \"HI\" )",
			"   42",
			"0x1055 0x0005 0x0000 0x0000",
			"0x3999 0x0001 0x0002 0x0000",
			""
		]}`))
	})

	It("should load hand written save data", func() {
		p, err := store.UnmarshalJSON([]byte(`{"instructions": ["sense(5)", "goto 1"]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Len()).To(Equal(2))
		Expect(p.At(2)).To(Equal(asm.MustCompile("goto 1")))
	})

	It("should report bad save data", func() {
		_, err := store.UnmarshalJSON([]byte(`{"instructions": ["sense(5)", "boom"]}`))
		Expect(err).To(MatchError(asm.ErrUnableToCompile))

		_, err = store.UnmarshalJSON([]byte(`{"instructions": []}`))
		Expect(err).To(MatchError(op.ErrEmptyProgram))

		_, err = store.UnmarshalJSON([]byte(`[`))
		Expect(err).To(HaveOccurred())
	})

	It("should encode cbor canonically", func() {
		a, err := store.MarshalCBOR("scout", program())
		Expect(err).NotTo(HaveOccurred())
		b, err := store.MarshalCBOR("scout", program())
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("should refuse cbor words not making whole instructions", func() {
		_, _, err := store.UnmarshalCBOR([]byte{0xa2, 0x01, 0x60, 0x02, 0x81, 0x01})
		Expect(err).To(MatchError(op.ErrBadWordCount))
	})

	DescribeTable("should guess the format",
		func(path string, expected store.Format) {
			f, err := store.FormatFromPath(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(expected))
			Expect(f.Ext()).To(Equal(path[len(path)-len(f.Ext()):]))
		},
		Entry("source", "bots/scout.bot", store.FormatText),
		Entry("binary", "scout.botc", store.FormatBin),
		Entry("save", "scout.json", store.FormatJSON),
		Entry("cbor", "scout.cbor", store.FormatCBOR),
	)

	It("should refuse unknown formats", func() {
		_, err := store.FormatFromPath("scout.txt")
		Expect(err).To(HaveOccurred())
		_, err = store.ParseFormat("yaml")
		Expect(err).To(HaveOccurred())
		f, err := store.ParseFormat("cbor")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(store.FormatCBOR))
	})
})
