package typed

import "treec/ast"

// Module is the typed form of parsed.Module: every declaration and
// constructor carries a resolved Type, and ADT constructors have been
// synthesized into ordinary declarations (spec.md §4.2).
type Module struct {
	Declarations []*Declaration
	Constructors map[ast.Identifier]*Constructor
}

// Constructor records an ADT variant's resolved field types and its
// function type (the fields folded with Lambda onto the data type), kept
// alongside Module.Declarations in Module.Constructors, keyed by
// constructor name. The emitter does not read it.
type Constructor struct {
	DataType ast.Identifier
	Name     ast.Identifier
	Index    int // discriminant among its data type's constructors
	Fields   []Type
	Type     Type
}

// Declaration is one checked function/value equation.
type Declaration struct {
	Name ast.Identifier
	Args []Argument
	Body Expression
	Type Type // the full Lambda-folded type, per spec.md §4.3

	// IsConstructor is set for declarations synthesized from an ADT
	// constructor rather than written by the programmer (spec.md §4.2).
	IsConstructor bool
}

// Argument is a checked parameter pattern, carrying the type it was
// inferred to have (spec.md §4.5).
type Argument interface {
	_argument()
	ArgType() Type
}

type AIdentifier struct {
	Name ast.Identifier
	Type Type
}

func (*AIdentifier) _argument()      {}
func (a *AIdentifier) ArgType() Type { return a.Type }

type ADeconstruction struct {
	Constructor ast.Identifier
	Tag         int
	Args        []Argument
	Type        Type
}

func (*ADeconstruction) _argument()      {}
func (a *ADeconstruction) ArgType() Type { return a.Type }

type ANumberLiteral struct {
	Value int64
	Type  Type
}

func (*ANumberLiteral) _argument()      {}
func (a *ANumberLiteral) ArgType() Type { return a.Type }

// Expression is a checked expression node, carrying its resolved Type.
type Expression interface {
	_expression()
	ExprType() Type
}

type EIdentifier struct {
	Name ast.Identifier
	Type Type
}

func (*EIdentifier) _expression()     {}
func (e *EIdentifier) ExprType() Type { return e.Type }

type ENumber struct {
	Value int64
	Type  Type
}

func (*ENumber) _expression()     {}
func (e *ENumber) ExprType() Type { return e.Type }

type EFloat struct {
	Value float64
	Type  Type
}

func (*EFloat) _expression()     {}
func (e *EFloat) ExprType() Type { return e.Type }

type EString struct {
	Value string
	Type  Type
}

func (*EString) _expression()     {}
func (e *EString) ExprType() Type { return e.Type }

// EInfix mirrors parsed.EInfix one-to-one; the checker has already
// validated the operand types against Op by the time this node exists
// (spec.md §4.4), so the emitter only needs to dispatch on Op.
type EInfix struct {
	Op    EInfixOp
	Left  Expression
	Right Expression
	Type  Type
}

type EInfixOp int

const (
	Add EInfixOp = iota
	Subtract
	Multiply
	Divide
	StringAdd
)

func (*EInfix) _expression()     {}
func (e *EInfix) ExprType() Type { return e.Type }

type EApply struct {
	Func Expression
	Arg  Expression
	Type Type
}

func (*EApply) _expression()     {}
func (e *EApply) ExprType() Type { return e.Type }

type CaseBranch struct {
	Pattern    Argument
	Expression Expression
}

type ECase struct {
	Value    Expression
	Branches []*CaseBranch
	Type     Type
}

func (*ECase) _expression()     {}
func (e *ECase) ExprType() Type { return e.Type }

type ELet struct {
	Declarations []*Declaration
	Body         Expression
	Type         Type
}

func (*ELet) _expression()     {}
func (e *ELet) ExprType() Type { return e.Type }

// EADTConstruction is the body of every synthesized constructor
// declaration (spec.md §3, §4.2): Tag is the constructor's 0-based
// position within its ADT, Args are the declaration's own identifier
// arguments in order. Its ExprType is a placeholder per spec.md §9 — the
// only thing that ever reads a declaration's type is the annotation it was
// checked against, never this node in isolation.
type EADTConstruction struct {
	DataType ast.Identifier
	Name     ast.Identifier
	Tag      int
	Args     []Expression
}

func (*EADTConstruction) _expression() {}
func (e *EADTConstruction) ExprType() Type {
	return TLambda{Param: TNum{}, Result: TNum{}}
}
