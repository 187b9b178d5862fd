package common

import (
	"fmt"
	"runtime"

	"treec/ast"
)

// Construct identifies which of spec.md §7's three error taxonomies
// produced a CompileError.
type Construct int

const (
	Declaration Construct = iota
	Expression
	DataType
)

func (c Construct) String() string {
	switch c {
	case Declaration:
		return "declaration"
	case Expression:
		return "expression"
	case DataType:
		return "data type"
	default:
		return "error"
	}
}

// CompileError is spec.md §6's CompileError: a construct tag, an optional
// source range, and a message. Range is the zero SourceRange when no
// LineTable was supplied to the checker (spec.md §6's checkModule, as
// opposed to checkModuleWithLineInformation).
type CompileError struct {
	Construct Construct
	Range     ast.SourceRange
	Message   string
}

func (e CompileError) Error() string {
	if e.Range.IsEmpty() {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Range.CursorString(), e.Message)
}

// NewSystemError wraps an error that originates outside the compiler's own
// control flow (I/O, an external collaborator) so that callers can
// distinguish it from a CompileError without inspecting its message text.
func NewSystemError(err error) error {
	return systemError{inner: err}
}

type systemError struct {
	inner error
}

func (e systemError) Error() string {
	return fmt.Sprintf("system error: %v", e.inner)
}

func (e systemError) Unwrap() error {
	return e.inner
}

// NewCompilerError reports a violation of one of the checker's own
// invariants — a bug in the compiler, never a fact about the source file
// being compiled. message should name the invariant that broke.
func NewCompilerError(message string) error {
	_, file, line, _ := runtime.Caller(1)
	return compilerError{message: message, file: file, line: line}
}

type compilerError struct {
	message string
	file    string
	line    int
}

func (e compilerError) Error() string {
	return fmt.Sprintf("internal compiler error: %s at %s:%d", e.message, e.file, e.line)
}
