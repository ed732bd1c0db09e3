package lsp

import (
	"fmt"
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/op"
)

// maxCompletions caps the completion list.
const maxCompletions = 50

func documentLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func lineRange(line int, text string) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: 0},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(len(text))},
	}
}

// diagnose compiles each line of the document.
func diagnose(c *asm.Compiler, text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := lspName
	add := func(line int, lineText string, severity protocol.DiagnosticSeverity, msg string) {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(line, lineText),
			Severity: &severity,
			Source:   &source,
			Message:  msg,
		})
	}

	lines := documentLines(text)
	// A trailing line break does not start an instruction.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		r := c.TryCompile(line)
		switch {
		case !r.OK():
			add(i, line, protocol.DiagnosticSeverityError, r.Err().Error())
		case r.Warning() != "":
			add(i, line, protocol.DiagnosticSeverityWarning, r.Warning())
		}
		if i == op.MaxInstructions {
			add(i, line, protocol.DiagnosticSeverityError, fmt.Sprintf("%s: more than %d lines", op.ErrProgramTooLong, op.MaxInstructions))
		}
	}
	return diagnostics
}

// complete lists the tokens starting with prefix.
func complete(c *asm.Compiler, prefix string) []protocol.CompletionItem {
	kind := protocol.CompletionItemKindFunction
	var items []protocol.CompletionItem
	for _, token := range c.Predict(prefix) {
		if len(items) >= maxCompletions {
			break
		}
		detail := syntaxDetail(c.Syntax(token))
		tokenCopy := token
		items = append(items, protocol.CompletionItem{
			Label:      token,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &tokenCopy,
		})
	}
	return items
}

func syntaxDetail(syntaxes []asm.Syntax) string {
	names := make([]string, 0, len(syntaxes))
	for _, s := range syntaxes {
		names = append(names, s.Opcode.String())
	}
	return strings.Join(names, ", ")
}

// hover documents the syntaxes of the word.
func hover(c *asm.Compiler, word string) *protocol.Hover {
	syntaxes := c.Syntax(word)
	if len(syntaxes) == 0 {
		return nil
	}
	var b strings.Builder
	for i, s := range syntaxes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s** `0x%04X`", s.Opcode, uint16(s.Opcode))
		if info, ok := op.Lookup(s.Opcode); ok && info.Comment != "" {
			fmt.Fprintf(&b, ": %s", info.Comment)
		}
		if s.Template != "" {
			fmt.Fprintf(&b, "\n\n```\n%s\n```", s.Template)
		}
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

func isTokenChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

// extractPrefix returns the token part before the cursor.
func extractPrefix(text string, pos protocol.Position) string {
	lines := documentLines(text)
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := min(int(pos.Character), len(line))

	start := col
	for start > 0 && isTokenChar(rune(line[start-1])) {
		start--
	}
	return line[start:col]
}

// extractWord returns the token under the cursor.
func extractWord(text string, pos protocol.Position) string {
	lines := documentLines(text)
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := min(int(pos.Character), len(line))

	start := col
	for start > 0 && isTokenChar(rune(line[start-1])) {
		start--
	}
	end := col
	for end < len(line) && isTokenChar(rune(line[end])) {
		end++
	}
	return line[start:end]
}
