package checker

import (
	"treec/ast"
	"treec/internal/common"
	"treec/internal/parsed"
	"treec/internal/typed"
)

// inferArgument implements spec.md §4.5: check an untyped Argument pattern
// against expectedType, producing the typed pattern or an error. node is
// the untyped parsed.Argument itself; it is both dispatched on and used as
// the LineTable key for the source range of any error it raises.
func inferArgument(env *Environment, lines *ast.LineTable, expectedType typed.Type, node parsed.Argument) (typed.Argument, error) {
	switch a := node.(type) {
	case *parsed.AIdentifier:
		return &typed.AIdentifier{Name: a.Name, Type: expectedType}, nil

	case *parsed.ANumberLiteral:
		if !typeEq(expectedType, typed.TNum{}) {
			return nil, expressionError(lines, node,
				"case branch is type Int when value is type %s", expectedType)
		}
		return &typed.ANumberLiteral{Value: a.Value, Type: expectedType}, nil

	case *parsed.ADeconstruction:
		head, ok := headTypeLambda(expectedType)
		if !ok {
			return nil, expressionError(lines, node,
				"no constructor named %q for %s in scope.", a.Constructor, expectedType)
		}
		ctors := env.Constructors(head)
		ctor, found := common.Find(func(c *typed.Constructor) bool { return c.Name == a.Constructor }, ctors)
		if !found {
			return nil, expressionError(lines, node,
				"no constructor named %q for %s in scope.", a.Constructor, expectedType)
		}
		if len(a.Args) != len(ctor.Fields) {
			return nil, expressionError(lines, node,
				"constructor %q expects %d argument(s), got %d", a.Constructor, len(ctor.Fields), len(a.Args))
		}
		subArgs := make([]typed.Argument, len(a.Args))
		for i, sub := range a.Args {
			ta, err := inferArgument(env, lines, ctor.Fields[i], sub)
			if err != nil {
				return nil, err
			}
			subArgs[i] = ta
		}
		return &typed.ADeconstruction{Constructor: a.Constructor, Tag: ctor.Index, Args: subArgs, Type: expectedType}, nil

	default:
		return nil, common.NewCompilerError("unhandled parsed.Argument variant")
	}
}

// headTypeLambda strips expectedType down to its head TLambdaHead by
// unwrapping Applied left-spines (spec.md §4.5 step 1).
func headTypeLambda(t typed.Type) (ast.Identifier, bool) {
	switch x := t.(type) {
	case typed.TLambdaHead:
		return x.Name, true
	case typed.TApplied:
		return headTypeLambda(x.Func)
	default:
		return "", false
	}
}

// declarationsFromPattern implements spec.md §4.5.1: flatten a typed
// pattern into the identifier bindings it introduces.
func declarationsFromPattern(pattern typed.Argument) []*typed.Declaration {
	switch a := pattern.(type) {
	case *typed.AIdentifier:
		return []*typed.Declaration{{Name: a.Name, Type: a.Type}}
	case *typed.ANumberLiteral:
		return nil
	case *typed.ADeconstruction:
		var decls []*typed.Declaration
		for _, sub := range a.Args {
			decls = append(decls, declarationsFromPattern(sub)...)
		}
		return decls
	default:
		return nil
	}
}
