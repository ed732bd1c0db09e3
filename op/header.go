package op

import (
	"bytes"
	"fmt"
	"strings"
)

// Header.
const (
	ProgNameLength = 32
	BotExecMagic   = 0xb1e5c0de
)

type ProgramHeader struct {
	Magic    uint32
	ProgName [ProgNameLength + 1]byte
	Count    uint32 // Instruction count.
}

// HeaderStructSize returns the size of the header struct.
// Similar to unsafe.Sizeof, but with hardcoded values instead of the
// dynamic ones based on the current system/architecture.
// Return the full size and the size of the name field.
func HeaderStructSize() (headerSize, nameLength int) {
	align := 4      // Align on 4 bytes.
	headerSize += 4 // magic number.

	nameLength = ProgNameLength + 1
	if n := nameLength % align; n != 0 {
		nameLength += (align - n)
	}
	headerSize += nameLength

	headerSize += 4 // instruction count.

	return headerSize, nameLength
}

// Name returns the program name, without the padding.
func (h ProgramHeader) Name() string {
	name, _, _ := strings.Cut(string(h.ProgName[:]), "\x00")
	return name
}

// Encode returns the binary image of the program: header followed by
// 4 big endian words per instruction.
func (p *Program) Encode(name string) ([]byte, error) {
	if len(name) > ProgNameLength {
		return nil, fmt.Errorf("program name %q exceeds %d bytes", name, ProgNameLength)
	}
	_, nameLength := HeaderStructSize()

	buf := bytes.NewBuffer(nil)

	// Write the magic number.
	tmp := make([]byte, 4)
	Endian.PutUint32(tmp, BotExecMagic)
	buf.Write(tmp)

	// Write the program name, padded for alignment.
	nameBuf := make([]byte, nameLength)
	copy(nameBuf, name)
	buf.Write(nameBuf)

	// Write the instruction count.
	Endian.PutUint32(tmp, uint32(len(p.instructions)))
	buf.Write(tmp)

	// Write the main program code.
	code := make([]byte, 0, 8*len(p.instructions))
	for _, ins := range p.instructions {
		code = ins.Encode(code)
	}
	buf.Write(code)
	return buf.Bytes(), nil
}

// DecodeProgram parses a binary image produced by Encode.
func DecodeProgram(data []byte) (ProgramHeader, *Program, error) {
	var h ProgramHeader
	headerSize, nameLength := HeaderStructSize()
	if len(data) < headerSize {
		return h, nil, fmt.Errorf("%w: header needs %d bytes, got %d", ErrTruncated, headerSize, len(data))
	}
	h.Magic = Endian.Uint32(data[0:4])
	if h.Magic != BotExecMagic {
		return h, nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, h.Magic)
	}
	copy(h.ProgName[:], data[4:4+ProgNameLength])
	h.Count = Endian.Uint32(data[4+nameLength : headerSize])

	code := data[headerSize:]
	if uint64(len(code)) != 8*uint64(h.Count) {
		return h, nil, fmt.Errorf("%w: header says %d instructions, got %d bytes of code", ErrTruncated, h.Count, len(code))
	}
	words := make([]uint16, 0, len(code)/2)
	for i := 0; i < len(code); i += 2 {
		words = append(words, Endian.Uint16(code[i:]))
	}
	prog, err := ProgramFromWords(words)
	if err != nil {
		return h, nil, fmt.Errorf("decode program %q: %w", h.Name(), err)
	}
	return h, prog, nil
}
