// Package disasm turns compiled programs back into source listings.
package disasm

import (
	"crypto/md5"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tliron/commonlog"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/op"
)

var log = commonlog.GetLogger("botasm.disasm")

//go:embed known/*.bot
var knownSrcs embed.FS

// Listing is a decompiled program.
type Listing struct {
	Name    string
	Program *op.Program
	Lines   []string // One per instruction.
	Known   string   // Path of the known source the listing comes from, if any.
}

func md5sum(p *op.Program) string {
	h := md5.New()
	for _, ins := range p.Instructions() {
		h.Write(ins.Encode(nil))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

type knownSrc struct {
	path  string
	lines []string
}

// knownIndex maps the md5 of the compiled code to its source.
var knownIndex = sync.OnceValues(func() (map[string]knownSrc, error) {
	return indexSrcs(knownSrcs, "known/*.bot")
})

func indexSrcs(fsys fs.FS, pattern string) (map[string]knownSrc, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list known srcs: %w", err)
	}
	index := make(map[string]knownSrc, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		lines, err := asm.SplitLines(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to split %q: %w", path, err)
		}
		p, err := asm.CompileLines(lines)
		if err != nil {
			// Should not happen.
			return nil, fmt.Errorf("failed to compile known src %q: %w", path, err)
		}
		sum := md5sum(p)
		if _, ok := index[sum]; ok {
			continue
		}
		index[sum] = knownSrc{path: path, lines: lines}
	}
	return index, nil
}

// FromProgram decompiles the program. When it matches a known source, the
// listing is that source, comments included.
func FromProgram(name string, p *op.Program) (*Listing, error) {
	index, err := knownIndex()
	if err != nil {
		return nil, err
	}
	l := &Listing{Name: name, Program: p}
	if src, ok := index[md5sum(p)]; ok {
		log.Debugf("%q matches known source %q", name, src.path)
		l.Lines = src.lines
		l.Known = src.path
		return l, nil
	}
	l.Lines = asm.Default().DecompileProgram(p)
	return l, nil
}

// Disasm decodes a binary image and decompiles it.
func Disasm(data []byte) (*Listing, error) {
	h, p, err := op.DecodeProgram(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	return FromProgram(h.Name(), p)
}

// Table renders the listing with the raw words next to each line.
func (l *Listing) Table() string {
	t := table.NewWriter()
	t.SetTitle(l.Name)
	t.AppendHeader(table.Row{"#", "Words", "Source"})
	for i, ins := range l.Program.Instructions() {
		t.AppendRow(table.Row{strconv.Itoa(i + 1), ins.String(), l.Lines[i]})
	}
	t.AppendFooter(table.Row{"", strconv.Itoa(l.Program.Len()), l.Known})
	return t.Render()
}
