package asm

import (
	"bufio"
	"fmt"
	"slices"
	"strings"

	"github.com/tliron/commonlog"

	"go.creack.net/botasm/op"
)

var log = commonlog.GetLogger("botasm.asm")

// Compiler translates source lines to instructions and back.
// It is immutable once built and safe for concurrent use.
type Compiler struct {
	matchers []*Matcher
}

// NewCompiler builds the grammar.
func NewCompiler() *Compiler {
	c := &Compiler{matchers: newMatchers()}
	log.Debugf("grammar ready: %d matchers, %d opcodes", len(c.matchers), len(c.Opcodes()))
	return c
}

// Matchers returns the matchers in lookup order.
func (c *Compiler) Matchers() []*Matcher {
	return slices.Clone(c.matchers)
}

// TryCompile compiles a single line. The first matcher accepting the line wins.
func (c *Compiler) TryCompile(line string) Result {
	for _, m := range c.matchers {
		if ins, warning, ok := m.compile(line); ok {
			return success(ins, warning)
		}
	}
	return failure(&CompileError{Line: line})
}

// Compile compiles a single line.
func (c *Compiler) Compile(line string) (op.Instruction, error) {
	return c.TryCompile(line).Instruction()
}

// MatcherFor returns the name of the matcher compiling the line, empty if none does.
func (c *Compiler) MatcherFor(line string) string {
	for _, m := range c.matchers {
		if _, _, ok := m.match(line); ok {
			return m.Name
		}
	}
	return ""
}

// CompileLines compiles a program, one instruction per line. Blank and
// comment lines compile to a nop. Stops at the first failing line.
func (c *Compiler) CompileLines(lines []string) (*op.Program, error) {
	instructions := make([]op.Instruction, 0, len(lines))
	for i, line := range lines {
		ins, err := c.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		instructions = append(instructions, ins)
	}
	return op.NewProgram(instructions)
}

// CompileText splits the text in lines and compiles them.
// Windows line endings are accepted.
func (c *Compiler) CompileText(text string) (*op.Program, error) {
	lines, err := SplitLines(text)
	if err != nil {
		return nil, err
	}
	return c.CompileLines(lines)
}

// SplitLines splits text on line breaks, dropping the carriage returns.
// A trailing line break does not start a new line.
func SplitLines(text string) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(nil, len(text)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("split lines: %w", err)
	}
	return lines, nil
}

// Decompile renders an instruction as source text. The nop renders as an
// empty line. Never fails: instructions no matcher knows render as raw words.
func (c *Compiler) Decompile(ins op.Instruction) string {
	if ins == op.NewNop() {
		return ""
	}
	for _, m := range c.matchers {
		if s, ok := m.decompile(ins); ok {
			return s
		}
	}
	return fallback(ins)
}

// DecompileExact is like Decompile, but renders the raw words when the text
// would not compile back to the same instruction.
func (c *Compiler) DecompileExact(ins op.Instruction) string {
	s := c.Decompile(ins)
	if back, err := c.Compile(s); err == nil && back == ins {
		return s
	}
	return rawWords(ins)
}

// DecompileProgram decompiles each instruction of the program.
func (c *Compiler) DecompileProgram(p *op.Program) []string {
	out := make([]string, 0, p.Len())
	for _, ins := range p.Instructions() {
		out = append(out, c.Decompile(ins))
	}
	return out
}

// Predict returns the known tokens starting with prefix, sorted and
// without duplicates. An empty prefix yields nothing.
func (c *Compiler) Predict(prefix string) []string {
	if prefix == "" {
		return nil
	}
	var out []string
	for _, m := range c.matchers {
		for _, t := range m.tokens {
			if t != "" && strings.HasPrefix(t, prefix) {
				out = append(out, t)
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Opcodes returns the opcodes the grammar can produce, sorted.
func (c *Compiler) Opcodes() []op.Opcode {
	var out []op.Opcode
	for _, m := range c.matchers {
		for _, s := range m.syntaxes {
			out = append(out, s.Opcode)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Syntax returns the syntaxes registered for the token, in lookup order.
func (c *Compiler) Syntax(token string) []Syntax {
	var out []Syntax
	for _, m := range c.matchers {
		if s, ok := m.syntaxes[token]; ok && token != "" {
			out = append(out, s)
		}
	}
	return out
}
