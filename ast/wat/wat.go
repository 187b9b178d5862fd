// Package wat is a small WebAssembly text-format AST with a recursive
// pretty-printer, in the shape of the s-expression tree a WAT emitter
// needs and nothing more (spec.md §4.7's emitter contract).
package wat

import (
	"strconv"
	"strings"
)

// Module is one compiled `.tree` file's worth of output: a flat list of
// function definitions, each already marked for export.
type Module struct {
	Funcs []*Func
}

type Param struct {
	Name string
}

type Func struct {
	Name   string
	Params []Param
	Locals []Param
	// Body is a sequence of instructions executed in order; only the last
	// one is required to leave a value on the stack, matching how
	// set_local-then-read let-lowering actually executes.
	Body []Instr
	// Comment, when non-empty, is written as a `;;` trailer above the
	// function's export clause — the CLI's debug aid, stripped under
	// -release (cmd/treec/main.go).
	Comment string
}

// Instr is any instruction or literal node that can appear in a function
// body position.
type Instr interface {
	ToWAT(level int) string
}

// ConstInstr is `(i32.const n)`.
type ConstInstr struct {
	Value int64
}

func (i ConstInstr) ToWAT(level int) string {
	return wrap(level, "i32.const "+strconv.FormatInt(i.Value, 10))
}

// GetLocalInstr is `(get_local $name)`.
type GetLocalInstr struct {
	Name string
}

func (i GetLocalInstr) ToWAT(level int) string {
	return wrap(level, "get_local $"+i.Name)
}

// SetLocalInstr is `(set_local $name value)`, used to lower a let-bound
// declaration before the instructions that read it.
type SetLocalInstr struct {
	Name  string
	Value Instr
}

func (i SetLocalInstr) ToWAT(level int) string {
	return wrapChildren(level, "set_local $"+i.Name, []Instr{i.Value})
}

// CallInstr is `(call $name arg...)`.
type CallInstr struct {
	Name string
	Args []Instr
}

func (i CallInstr) ToWAT(level int) string {
	head := "call $" + i.Name
	return wrapChildren(level, head, i.Args)
}

// BinopKind names the four arithmetic opcodes spec.md §4.7 requires.
type BinopKind int

const (
	Add BinopKind = iota
	Sub
	Mul
	DivS
)

func (k BinopKind) String() string {
	switch k {
	case Add:
		return "i32.add"
	case Sub:
		return "i32.sub"
	case Mul:
		return "i32.mul"
	case DivS:
		return "i32.div_s"
	default:
		return "i32.add"
	}
}

// BinopInstr is `(i32.{add|sub|mul|div_s} left right)`.
type BinopInstr struct {
	Kind  BinopKind
	Left  Instr
	Right Instr
}

func (i BinopInstr) ToWAT(level int) string {
	return wrapChildren(level, i.Kind.String(), []Instr{i.Left, i.Right})
}

// EqInstr is `(i32.eq left right)`, the comparator used to build a case
// expression's select chain.
type EqInstr struct {
	Left  Instr
	Right Instr
}

func (i EqInstr) ToWAT(level int) string {
	return wrapChildren(level, "i32.eq", []Instr{i.Left, i.Right})
}

// SelectInstr is `(select ifTrue ifFalse cond)` — WAT's select takes the
// condition last.
type SelectInstr struct {
	Cond    Instr
	IfTrue  Instr
	IfFalse Instr
}

func (i SelectInstr) ToWAT(level int) string {
	return wrapChildren(level, "select", []Instr{i.IfTrue, i.IfFalse, i.Cond})
}

func (f *Func) ToWAT(level int) string {
	sb := strings.Builder{}
	if f.Comment != "" {
		sb.WriteString(indent(level))
		sb.WriteString(";; " + f.Comment + "\n")
	}
	sb.WriteString(indent(level))
	sb.WriteString("(export \"" + f.Name + "\" (func $" + f.Name + "))\n")
	sb.WriteString(indent(level))
	sb.WriteString("(func $" + f.Name)
	for _, p := range f.Params {
		sb.WriteString(" (param $" + p.Name + " i32)")
	}
	for _, l := range f.Locals {
		sb.WriteString(" (local $" + l.Name + " i32)")
	}
	sb.WriteString(" (result i32)\n")
	for _, instr := range f.Body {
		sb.WriteString(instr.ToWAT(level + 1))
	}
	sb.WriteString(")\n")
	return sb.String()
}

// ToWAT renders the whole module as a `(module ...)` s-expression.
func (m *Module) ToWAT() string {
	sb := strings.Builder{}
	sb.WriteString("(module\n")
	for _, f := range m.Funcs {
		sb.WriteString(f.ToWAT(1))
	}
	sb.WriteString(")\n")
	return sb.String()
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func wrap(level int, body string) string {
	return indent(level) + "(" + body + ")\n"
}

func wrapChildren(level int, head string, children []Instr) string {
	sb := strings.Builder{}
	sb.WriteString(indent(level))
	sb.WriteString("(" + head + "\n")
	for _, c := range children {
		sb.WriteString(c.ToWAT(level + 1))
	}
	sb.WriteString(indent(level) + ")\n")
	return sb.String()
}
