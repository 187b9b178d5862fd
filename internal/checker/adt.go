package checker

import (
	"treec/ast"
	"treec/internal/common"
	"treec/internal/parsed"
	"treec/internal/typed"
)

// registerADT implements spec.md §4.2. It always advances env by at least
// the new type lambda (step 1), even when a constructor's field fails to
// resolve — spec.md §7's note that a failed top-level "still register[s]
// its type lambda" so that later top-levels referring to the type name by
// itself don't cascade into a second, unrelated "unknown type" error. The
// constructor declarations and the type lambda's constructor list are
// committed only if every constructor resolved cleanly; spec.md §4.2's
// last line ("a failed ADT contributes its errors but no declarations")
// is read to mean none of its constructors survive, not just the broken
// one.
func registerADT(env *Environment, lines *ast.LineTable, adt *parsed.ADT) (*Environment, []*typed.Declaration, []error) {
	env, head := env.RegisterTypeLambda(adt.Name)

	returnType := typed.Type(head)
	for _, g := range adt.Generics {
		returnType = typed.TApplied{Func: returnType, Arg: typed.TGeneric{Name: g}}
	}

	if dup := duplicateConstructorName(adt.Constructors); dup != "" {
		return env, nil, []error{dataTypeError(lines, adt, "constructor %q declared more than once in %s", dup, adt.Name)}
	}
	for _, c := range adt.Constructors {
		if _, exists := env.Lookup(c.Name); exists {
			return env, nil, []error{dataTypeError(lines, adt, "%q is already defined", c.Name)}
		}
	}

	var errs []error
	var decls []*typed.Declaration
	var ctors []*typed.Constructor
	workEnv := env

	for tag, c := range adt.Constructors {
		var fields []typed.Type
		if c.Type != nil {
			fs, err := resolveConstructorPayload(env, lines, adt.Name, returnType, c.Type)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fields = fs
		}

		fnType := typed.FoldLambda(fields, returnType)
		typedArgs := make([]typed.Argument, len(fields))
		argExprs := make([]typed.Expression, len(fields))
		for i, fieldType := range fields {
			name := ast.Identifier(string(rune('a' + i)))
			typedArgs[i] = &typed.AIdentifier{Name: name, Type: fieldType}
			argExprs[i] = &typed.EIdentifier{Name: name, Type: fieldType}
		}

		decl := &typed.Declaration{
			Name:          c.Name,
			Args:          typedArgs,
			Body:          &typed.EADTConstruction{DataType: adt.Name, Name: c.Name, Tag: tag, Args: argExprs},
			Type:          fnType,
			IsConstructor: true,
		}
		decls = append(decls, decl)
		workEnv = workEnv.Bind(c.Name, decl)
		ctors = append(ctors, &typed.Constructor{DataType: adt.Name, Name: c.Name, Index: tag, Fields: fields, Type: fnType})
	}

	if len(errs) > 0 {
		return env, nil, errs
	}

	workEnv = workEnv.RegisterConstructors(adt.Name, ctors)
	return workEnv, decls, nil
}

func duplicateConstructorName(ctors []*parsed.Constructor) ast.Identifier {
	seen := map[ast.Identifier]bool{}
	for _, c := range ctors {
		if seen[c.Name] {
			return c.Name
		}
		seen[c.Name] = true
	}
	return ""
}

// resolveConstructorPayload implements spec.md §4.2 step 3's field
// resolution rules, returning the ordered field-type list a constructor's
// payload expands to.
func resolveConstructorPayload(env *Environment, lines *ast.LineTable, adtName ast.Identifier, returnType typed.Type, node parsed.ConstructorType) ([]typed.Type, error) {
	switch ct := node.(type) {
	case *parsed.CTConcrete:
		t, err := resolveConstructorConcrete(lines, env, adtName, returnType, node, ct.Name)
		if err != nil {
			return nil, err
		}
		return []typed.Type{t}, nil

	case *parsed.CTParenthesized:
		if a, b, ok := matchAppliedPair(ct.Inner); ok {
			head, ok := env.LookupType(a)
			if !ok || !env.IsTypeLambda(a) {
				return nil, dataTypeError(lines, node, "unknown type %q", a)
			}
			return []typed.Type{typed.TApplied{Func: head, Arg: typed.TGeneric{Name: b}}}, nil
		}
		return resolveConstructorPayload(env, lines, adtName, returnType, ct.Inner)

	case *parsed.CTApplied:
		left, err := resolveConstructorPayload(env, lines, adtName, returnType, ct.Func)
		if err != nil {
			return nil, err
		}
		right, err := resolveConstructorPayload(env, lines, adtName, returnType, ct.Arg)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil

	default:
		return nil, common.NewCompilerError("unhandled parsed.ConstructorType variant")
	}
}

// matchAppliedPair recognizes spec.md §4.2's special case:
// CTParenthesized(CTApplied(CTConcrete a, CTConcrete b)), a single
// parenthesized applied-type field like `(Maybe a)`.
func matchAppliedPair(ct parsed.ConstructorType) (a, b ast.Identifier, ok bool) {
	applied, isApplied := ct.(*parsed.CTApplied)
	if !isApplied {
		return "", "", false
	}
	fn, fnOk := applied.Func.(*parsed.CTConcrete)
	arg, argOk := applied.Arg.(*parsed.CTConcrete)
	if !fnOk || !argOk {
		return "", "", false
	}
	return fn.Name, arg.Name, true
}

func resolveConstructorConcrete(lines *ast.LineTable, env *Environment, adtName ast.Identifier, returnType typed.Type, node parsed.ConstructorType, id ast.Identifier) (typed.Type, error) {
	switch id {
	case "Int":
		return typed.TNum{}, nil
	case "Float":
		return typed.TFloat{}, nil
	case "String":
		return typed.TStr{}, nil
	}
	if id == adtName {
		return returnType, nil
	}
	if t, ok := env.LookupType(id); ok {
		return t, nil
	}
	if id.IsGeneric() {
		return typed.TGeneric{Name: id}, nil
	}
	return nil, dataTypeError(lines, node, "unknown type %q", id)
}
