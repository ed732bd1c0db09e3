package asm

import (
	"errors"
	"fmt"

	"go.creack.net/botasm/op"
)

// ErrUnableToCompile is returned when no matcher accepts a line.
var ErrUnableToCompile = errors.New("unable to compile")

// CompileError reports the line no matcher accepted.
type CompileError struct {
	Line string
}

// Error is shown to players verbatim.
func (e *CompileError) Error() string {
	return fmt.Sprintf("Unable to compile `%s`", e.Line)
}

func (e *CompileError) Unwrap() error { return ErrUnableToCompile }

// Result is the outcome of compiling a single line: either an instruction,
// possibly with a warning, or an error.
type Result struct {
	ins     op.Instruction
	warning string
	err     error
}

func success(ins op.Instruction, warning string) Result {
	return Result{ins: ins, warning: warning}
}

func failure(err error) Result {
	return Result{err: err}
}

// OK reports whether the line compiled.
func (r Result) OK() bool { return r.err == nil }

// Err returns the compilation error, nil on success.
func (r Result) Err() error { return r.err }

// Warning returns the warning attached to a successful compilation, if any.
func (r Result) Warning() string { return r.warning }

// Instruction returns the compiled instruction, or the compilation error.
func (r Result) Instruction() (op.Instruction, error) {
	if r.err != nil {
		return op.Instruction{}, r.err
	}
	return r.ins, nil
}
