// Package store saves and loads programs in the supported file formats.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/op"
)

// Format is a program file format.
type Format string

// Formats.
const (
	FormatBin  Format = "bin"  // Binary image, .botc.
	FormatJSON Format = "json" // Save data, one source line per instruction.
	FormatCBOR Format = "cbor" // Raw words.
	FormatText Format = "text" // Source, .bot.
)

// Formats lists the known formats.
var Formats = []Format{FormatBin, FormatJSON, FormatCBOR, FormatText}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := filepath.Ext(path); ext {
	case ".botc":
		return FormatBin, nil
	case ".json":
		return FormatJSON, nil
	case ".cbor":
		return FormatCBOR, nil
	case ".bot":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid file extension for %q, must be .bot, .botc, .json or .cbor", path)
	}
}

// Ext returns the file extension of the format.
func (f Format) Ext() string {
	switch f {
	case FormatBin:
		return ".botc"
	case FormatText:
		return ".bot"
	default:
		return "." + string(f)
	}
}

// Save is the JSON save data.
type Save struct {
	Instructions []string `json:"instructions"`
}

// MarshalJSON returns the save data of the program.
func MarshalJSON(p *op.Program) ([]byte, error) {
	s := Save{Instructions: make([]string, 0, p.Len())}
	for _, ins := range p.Instructions() {
		s.Instructions = append(s.Instructions, asm.Default().DecompileExact(ins))
	}
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalJSON loads save data, compiling each line.
func UnmarshalJSON(data []byte) (*op.Program, error) {
	var s Save
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("store: unmarshal save: %w", err)
	}
	p, err := asm.CompileLines(s.Instructions)
	if err != nil {
		return nil, fmt.Errorf("store: compile save: %w", err)
	}
	return p, nil
}

// Image is the CBOR form of a program.
type Image struct {
	Name  string   `cbor:"1,keyasint"`
	Words []uint16 `cbor:"2,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("store: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalCBOR serializes the program words. The encoding is canonical:
// equal programs give equal bytes.
func MarshalCBOR(name string, p *op.Program) ([]byte, error) {
	return cborEncMode.Marshal(Image{Name: name, Words: p.Words()})
}

// UnmarshalCBOR deserializes a program from CBOR bytes.
func UnmarshalCBOR(data []byte) (string, *op.Program, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return "", nil, fmt.Errorf("store: unmarshal image: %w", err)
	}
	p, err := op.ProgramFromWords(img.Words)
	if err != nil {
		return "", nil, fmt.Errorf("store: decode image %q: %w", img.Name, err)
	}
	return img.Name, p, nil
}

// Encode writes the program in the given format.
func Encode(f Format, name string, p *op.Program) ([]byte, error) {
	switch f {
	case FormatBin:
		return p.Encode(name)
	case FormatJSON:
		return MarshalJSON(p)
	case FormatCBOR:
		return MarshalCBOR(name, p)
	case FormatText:
		lines := make([]string, 0, p.Len())
		for _, ins := range p.Instructions() {
			lines = append(lines, asm.Default().DecompileExact(ins))
		}
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// Decode reads a program in the given format. The name is empty for the
// formats not storing it.
func Decode(f Format, data []byte) (string, *op.Program, error) {
	switch f {
	case FormatBin:
		h, p, err := op.DecodeProgram(data)
		if err != nil {
			return "", nil, err
		}
		return h.Name(), p, nil
	case FormatJSON:
		p, err := UnmarshalJSON(data)
		return "", p, err
	case FormatCBOR:
		return UnmarshalCBOR(data)
	case FormatText:
		p, err := asm.CompileText(string(data))
		return "", p, err
	default:
		return "", nil, fmt.Errorf("unknown format %q", f)
	}
}
