// Package typed defines the type language and typed AST that the checker
// produces: spec.md §3's "Type language" and "Typed AST".
package typed

import (
	"fmt"
	"strings"

	"treec/ast"
)

// Type is the type language of spec.md §3. Equality is structural, with
// one asymmetry: Generic is never equal to anything but an identical
// Generic (spec.md §3) — generics are eliminated by the constraint solver
// (see internal/checker/constraints.go), never by equality.
type Type interface {
	fmt.Stringer
	_type()
	Equals(other Type) bool
}

// TNum is the Int primitive.
type TNum struct{}

func (TNum) _type() {}
func (TNum) String() string { return "Int" }
func (t TNum) Equals(o Type) bool {
	_, ok := o.(TNum)
	return ok
}

// TFloat is the Float primitive.
type TFloat struct{}

func (TFloat) _type() {}
func (TFloat) String() string { return "Float" }
func (t TFloat) Equals(o Type) bool {
	_, ok := o.(TFloat)
	return ok
}

// TStr is the String primitive.
type TStr struct{}

func (TStr) _type() {}
func (TStr) String() string { return "String" }
func (t TStr) Equals(o Type) bool {
	_, ok := o.(TStr)
	return ok
}

// TLambdaHead names a declared data type's head: its name considered as a
// type constructor awaiting its generic arguments (spec.md's "type
// lambda"). A nullary data type's use is just a bare TLambdaHead; an
// applied use wraps it in TApplied.
type TLambdaHead struct {
	Name ast.Identifier
}

func (TLambdaHead) _type() {}
func (t TLambdaHead) String() string { return string(t.Name) }
func (t TLambdaHead) Equals(o Type) bool {
	y, ok := o.(TLambdaHead)
	return ok && t.Name == y.Name
}

// TApplied is type-level application, left-associative: `Result e a`
// parses as TApplied(TApplied(TLambdaHead{Result}, e), a).
type TApplied struct {
	Func Type
	Arg  Type
}

func (TApplied) _type() {}
func (t TApplied) String() string {
	return fmt.Sprintf("%v %v", t.Func, t.Arg)
}
func (t TApplied) Equals(o Type) bool {
	y, ok := o.(TApplied)
	return ok && t.Func.Equals(y.Func) && t.Arg.Equals(y.Arg)
}

// TLambda is a function type, right-associative: `a -> b -> c` parses as
// TLambda(a, TLambda(b, c)).
type TLambda struct {
	Param  Type
	Result Type
}

func (TLambda) _type() {}
func (t TLambda) String() string {
	return fmt.Sprintf("%v -> %v", t.Param, t.Result)
}
func (t TLambda) Equals(o Type) bool {
	y, ok := o.(TLambda)
	return ok && t.Param.Equals(y.Param) && t.Result.Equals(y.Result)
}

// TGeneric is an unbound generic parameter, identified purely by its
// lowercase-first-letter identifier. The same identifier within one
// declaration always refers to the same type (spec.md §3's invariant).
type TGeneric struct {
	Name ast.Identifier
}

func (TGeneric) _type() {}
func (t TGeneric) String() string { return string(t.Name) }

// Equals implements the one asymmetry in spec.md §3: a Generic is equal
// only to an identical Generic, never structurally unified with anything
// else by plain equality — that elimination is the constraint solver's job.
func (t TGeneric) Equals(o Type) bool {
	y, ok := o.(TGeneric)
	return ok && t.Name == y.Name
}

// FoldApplied builds Applied(Applied(...Applied(head, args[0])..., args[n-1]))
// — the left-fold shape of an ADT's own return type (spec.md §4.2 step 2)
// and of TypeApplication chains read off an annotation. registerADT and
// resolveAnnotationType build those chains with their own loops.
func FoldApplied(head Type, args ...Type) Type {
	out := head
	for _, a := range args {
		out = TApplied{Func: out, Arg: a}
	}
	return out
}

// FoldLambda right-folds Lambda over fields, seeded with ret — the shape of
// every constructor's and every annotated function's type.
func FoldLambda(fields []Type, ret Type) Type {
	out := ret
	for i := len(fields) - 1; i >= 0; i-- {
		out = TLambda{Param: fields[i], Result: out}
	}
	return out
}

// JoinTypes renders a comma-separated list of types, used by case-branch
// disagreement messages (spec.md §8 scenario 4).
func JoinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
