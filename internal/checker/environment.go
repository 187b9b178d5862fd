// Package checker implements spec.md §4: the type environment builder,
// declaration checker, expression inferrer, and constraint solver that
// together turn a parsed.Module into a typed.Module or a non-empty list of
// compile errors.
package checker

import (
	"github.com/benbjohnson/immutable"

	"treec/ast"
	"treec/internal/typed"
)

// Environment is spec.md §3's "compile state": an immutable record
// threaded left-to-right over top-levels. Every mutating operation
// (RegisterTypeLambda, Bind, RegisterConstructors) returns a new Environment
// rather than mutating the receiver, so that a failed branch (e.g. one
// broken ADT) can be discarded without unwinding partial changes by hand —
// the driver just keeps the last Environment it successfully produced.
type Environment struct {
	typeLambdas *immutable.List      // []ast.Identifier, insertion order
	types       *immutable.SortedMap // ast.Identifier -> typed.Type
	scope       *immutable.SortedMap // ast.Identifier -> *typed.Declaration
	ctors       *immutable.SortedMap // ast.Identifier (type lambda) -> []*typed.Constructor
}

// NewEnvironment seeds the three built-in primitives (spec.md §2 step 2)
// and nothing else.
func NewEnvironment() *Environment {
	env := &Environment{
		typeLambdas: immutable.NewList(),
		types:       immutable.NewSortedMap(nil),
		scope:       immutable.NewSortedMap(nil),
		ctors:       immutable.NewSortedMap(nil),
	}
	env = env.withType("Int", typed.TNum{})
	env = env.withType("Float", typed.TFloat{})
	env = env.withType("String", typed.TStr{})
	return env
}

func (e *Environment) withType(name ast.Identifier, t typed.Type) *Environment {
	next := *e
	next.types = e.types.Set(string(name), t)
	return &next
}

// LookupType resolves a type name (spec.md §4.2/§4.3 annotation and
// constructor-field resolution both bottom out here).
func (e *Environment) LookupType(name ast.Identifier) (typed.Type, bool) {
	v, ok := e.types.Get(string(name))
	if !ok {
		return nil, false
	}
	return v.(typed.Type), true
}

// IsTypeLambda reports whether name was registered by RegisterTypeLambda —
// used by constructor-field resolution (resolveConstructorPayload) to check
// that the head of a parenthesized applied field like `(Maybe a)` is a
// declared data type rather than an ordinary concrete type.
func (e *Environment) IsTypeLambda(name ast.Identifier) bool {
	iter := e.typeLambdas.Iterator()
	for !iter.Done() {
		_, v := iter.Next()
		if v.(ast.Identifier) == name {
			return true
		}
	}
	return false
}

// RegisterTypeLambda implements spec.md §4.2 step 1: record the new type
// lambda in both the ordered list and the type map, returning the
// Environment to continue building from and the TL head Type itself.
func (e *Environment) RegisterTypeLambda(name ast.Identifier) (*Environment, typed.Type) {
	head := typed.TLambdaHead{Name: name}
	next := *e
	next.typeLambdas = e.typeLambdas.Append(name)
	next.types = e.types.Set(string(name), head)
	return &next, head
}

// Bind adds or replaces name's declaration in value-level scope. Used both
// for top-level declarations and for the local bindings that argument
// patterns, let-declarations, and case-branch patterns introduce
// (spec.md §4.3 step 5, §4.5.1).
func (e *Environment) Bind(name ast.Identifier, decl *typed.Declaration) *Environment {
	next := *e
	next.scope = e.scope.Set(string(name), decl)
	return &next
}

// Lookup resolves an identifier in value-level scope (spec.md §4.4's
// Identifier case).
func (e *Environment) Lookup(name ast.Identifier) (*typed.Declaration, bool) {
	v, ok := e.scope.Get(string(name))
	if !ok {
		return nil, false
	}
	return v.(*typed.Declaration), true
}

// RegisterConstructors attaches the ordered constructor list for a type
// lambda (spec.md §4.2 step 3's TypedConstructor map).
func (e *Environment) RegisterConstructors(typeLambda ast.Identifier, ctors []*typed.Constructor) *Environment {
	next := *e
	next.ctors = e.ctors.Set(string(typeLambda), ctors)
	return &next
}

// Constructors returns the ordered constructor list registered for a type
// lambda, or nil if none was registered (spec.md §4.5's deconstruction
// lookup).
func (e *Environment) Constructors(typeLambda ast.Identifier) []*typed.Constructor {
	v, ok := e.ctors.Get(string(typeLambda))
	if !ok {
		return nil
	}
	return v.([]*typed.Constructor)
}
