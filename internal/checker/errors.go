package checker

import (
	"fmt"

	"treec/ast"
	"treec/internal/common"
)

// newError builds a common.CompileError tagged with construct, resolving
// node's source range from lines if lines is non-nil (spec.md §6's
// checkModuleWithLineInformation vs. plain checkModule).
func newError(lines *ast.LineTable, construct common.Construct, node any, format string, args ...any) error {
	r, _ := lines.Lookup(node)
	return common.CompileError{
		Construct: construct,
		Range:     r,
		Message:   fmt.Sprintf(format, args...),
	}
}

func declarationError(lines *ast.LineTable, node any, format string, args ...any) error {
	return newError(lines, common.Declaration, node, format, args...)
}

func expressionError(lines *ast.LineTable, node any, format string, args ...any) error {
	return newError(lines, common.Expression, node, format, args...)
}

func dataTypeError(lines *ast.LineTable, node any, format string, args ...any) error {
	return newError(lines, common.DataType, node, format, args...)
}
