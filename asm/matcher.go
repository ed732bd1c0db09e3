package asm

import (
	"regexp"

	"go.creack.net/botasm/op"
)

// Matcher recognizes one line shape. Its syntax table maps the token
// extracted from the line to an opcode.
type Matcher struct {
	Name string

	re    *regexp.Regexp
	parse func(m []string) (record, bool)

	syntaxes  map[string]Syntax
	tokens    []string             // Registration order.
	templates map[op.Opcode]string // First registered template wins.
}

func newMatcher(name, pattern string, parse func(m []string) (record, bool), syntaxes ...Syntax) *Matcher {
	m := &Matcher{
		Name:      name,
		re:        lineRegexp(pattern),
		parse:     parse,
		syntaxes:  make(map[string]Syntax, len(syntaxes)),
		templates: map[op.Opcode]string{},
	}
	for _, s := range syntaxes {
		if _, ok := m.syntaxes[s.Token]; ok {
			panic("duplicate token " + s.Token + " in " + name)
		}
		m.syntaxes[s.Token] = s
		m.tokens = append(m.tokens, s.Token)
		if _, ok := m.templates[s.Opcode]; !ok && s.Template != "" {
			m.templates[s.Opcode] = s.Template
		}
	}
	return m
}

// match extracts the record from the line. A line matching the shape with
// an unknown token does not match.
func (m *Matcher) match(line string) (Syntax, record, bool) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return Syntax{}, record{}, false
	}
	r, ok := m.parse(sub)
	if !ok {
		return Syntax{}, record{}, false
	}
	s, ok := m.syntaxes[r.token]
	if !ok {
		return Syntax{}, record{}, false
	}
	return s, r, true
}

func (m *Matcher) compile(line string) (op.Instruction, string, bool) {
	s, r, ok := m.match(line)
	if !ok {
		return op.Instruction{}, "", false
	}
	return s.build(r), r.warning, true
}

func (m *Matcher) decompile(ins op.Instruction) (string, bool) {
	tpl, ok := m.templates[ins.Opcode()]
	if !ok {
		return "", false
	}
	return render(tpl, ins), true
}

// Syntaxes returns the syntax table, in registration order.
func (m *Matcher) Syntaxes() []Syntax {
	out := make([]Syntax, 0, len(m.tokens))
	for _, t := range m.tokens {
		out = append(out, m.syntaxes[t])
	}
	return out
}
