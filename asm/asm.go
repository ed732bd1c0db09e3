// Package asm translates bot source lines into VM instructions and back.
package asm

import (
	"fmt"

	"go.creack.net/botasm/op"
)

var defaultCompiler = NewCompiler()

// Default returns the shared compiler.
func Default() *Compiler { return defaultCompiler }

// TryCompile compiles a single line with the shared compiler.
func TryCompile(line string) Result { return defaultCompiler.TryCompile(line) }

// Compile compiles a single line with the shared compiler.
func Compile(line string) (op.Instruction, error) { return defaultCompiler.Compile(line) }

// MustCompile is like Compile but panics on error.
func MustCompile(line string) op.Instruction {
	ins, err := defaultCompiler.Compile(line)
	if err != nil {
		panic(err)
	}
	return ins
}

// CompileLines compiles a program with the shared compiler.
func CompileLines(lines []string) (*op.Program, error) { return defaultCompiler.CompileLines(lines) }

// CompileText compiles a program source with the shared compiler.
func CompileText(text string) (*op.Program, error) { return defaultCompiler.CompileText(text) }

// Decompile renders an instruction with the shared compiler.
func Decompile(ins op.Instruction) string { return defaultCompiler.Decompile(ins) }

// Predict lists the tokens starting with prefix.
func Predict(prefix string) []string { return defaultCompiler.Predict(prefix) }

// Opcodes lists the opcodes the grammar can produce.
func Opcodes() []op.Opcode { return defaultCompiler.Opcodes() }

// Assemble compiles the source and returns the binary image.
func Assemble(name, src string) ([]byte, *op.Program, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("missing program name")
	}

	// Parse the input.
	p, err := CompileText(src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile %q: %w", name, err)
	}

	// Encode the program.
	data, err := p.Encode(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode program: %w", err)
	}
	log.Infof("assembled %q: %d instructions, %d bytes", name, p.Len(), len(data))
	return data, p, nil
}
