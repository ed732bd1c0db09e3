package op

import "strings"

// Printable characters. Anything else is displayed as '?'.
const (
	textDigits      = "0123456789"
	textLowercase   = "abcdefghijklmnopqrstuvwxyz"
	textUppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	textPunctuation = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// IsText reports whether c can be displayed in game.
func IsText(c byte) bool {
	return c != 0 && (strings.IndexByte(textDigits, c) >= 0 ||
		strings.IndexByte(textLowercase, c) >= 0 ||
		strings.IndexByte(textUppercase, c) >= 0 ||
		strings.IndexByte(textPunctuation, c) >= 0)
}

func toText(c byte) byte {
	if IsText(c) {
		return c
	}
	return '?'
}

// LowByte and HighByte split a word, low byte first in text order.
func LowByte(w uint16) byte  { return byte(w & 0x00FF) }
func HighByte(w uint16) byte { return byte(w >> 8) }

// PackText packs up to TextMaxLength bytes into 3 words, 2 per word, low byte first.
// Extra bytes are ignored.
func PackText(s string) [ArgsNumber]uint16 {
	var out [ArgsNumber]uint16
	for i := 0; i < len(s) && i < TextMaxLength; i++ {
		out[i/2] |= uint16(s[i]) << (8 * (i % 2))
	}
	return out
}

// ArgsAsChars returns the 3 argument words as 6 displayable chars.
func (ins Instruction) ArgsAsChars() [TextMaxLength]byte {
	var out [TextMaxLength]byte
	for i, a := range ins.Args {
		out[2*i] = toText(LowByte(a))
		out[2*i+1] = toText(HighByte(a))
	}
	return out
}

// ArgsAsString returns the 3 argument words as a 6 chars displayable string.
func (ins Instruction) ArgsAsString() string {
	chars := ins.ArgsAsChars()
	return string(chars[:])
}

// Text returns the text packed in the arguments, stopping at the first NUL.
func (ins Instruction) Text() string {
	var buf []byte
	for _, a := range ins.Args {
		for _, c := range []byte{LowByte(a), HighByte(a)} {
			if c == 0 {
				return string(buf)
			}
			buf = append(buf, toText(c))
		}
	}
	return string(buf)
}
