package checker

import (
	"treec/ast"
	"treec/internal/common"
	"treec/internal/parsed"
	"treec/internal/typed"
)

// resolveAnnotationType implements spec.md §4.3 step 2's AnnotationType
// resolution rules.
func resolveAnnotationType(env *Environment, lines *ast.LineTable, node parsed.AnnotationType) (typed.Type, error) {
	switch t := node.(type) {
	case *parsed.ATConcrete:
		if t.Name.IsGeneric() {
			return typed.TGeneric{Name: t.Name}, nil
		}
		resolved, ok := env.LookupType(t.Name)
		if !ok {
			return nil, declarationError(lines, node, "unknown type %q", t.Name)
		}
		return resolved, nil

	case *parsed.ATParenthesized:
		types := make([]typed.Type, len(t.Types))
		for i, sub := range t.Types {
			rt, err := resolveAnnotationType(env, lines, sub)
			if err != nil {
				return nil, err
			}
			types[i] = rt
		}
		return typed.FoldLambda(types[:len(types)-1], types[len(types)-1]), nil

	case *parsed.ATApplication:
		fn, err := resolveAnnotationType(env, lines, t.Func)
		if err != nil {
			return nil, err
		}
		if _, ok := headTypeLambda(fn); !ok {
			return nil, declarationError(lines, node, "%s is not a type constructor", fn)
		}
		arg, err := resolveAnnotationType(env, lines, t.Arg)
		if err != nil {
			return nil, err
		}
		return typed.TApplied{Func: fn, Arg: arg}, nil

	default:
		return nil, common.NewCompilerError("unhandled parsed.AnnotationType variant")
	}
}

func resolveAnnotation(env *Environment, lines *ast.LineTable, ann *parsed.Annotation) ([]typed.Type, error) {
	types := make([]typed.Type, len(ann.Types))
	for i, t := range ann.Types {
		rt, err := resolveAnnotationType(env, lines, t)
		if err != nil {
			return nil, err
		}
		types[i] = rt
	}
	return types, nil
}

// checkDeclaration implements spec.md §4.3. It returns the typed
// declaration, the Environment extended with it (for recursive references
// and, when called from inferLet, subsequent let-bindings), or an error.
// topLevel gates the duplicate-name check (SPEC_FULL.md's SUPPLEMENTED
// FEATURES): module-level declarations may never collide with an existing
// name, but a let-bound declaration is allowed to shadow one, per
// SPEC_FULL.md §4.4's explicit lexical-shadowing rule, so inferLet passes
// false.
func checkDeclaration(env *Environment, lines *ast.LineTable, decl *parsed.Declaration, topLevel bool) (*typed.Declaration, *Environment, error) {
	if decl.Annotation == nil {
		return nil, nil, declarationError(lines, decl, "For now, annotations are required.")
	}
	if topLevel {
		if _, exists := env.Lookup(decl.Name); exists {
			return nil, nil, declarationError(lines, decl, "%q is already defined", decl.Name)
		}
	}

	annotationTypes, err := resolveAnnotation(env, lines, decl.Annotation)
	if err != nil {
		return nil, nil, err
	}
	if len(annotationTypes) <= len(decl.Args) {
		return nil, nil, declarationError(lines, decl,
			"%s has %d argument(s) but its annotation only has %d type(s)", decl.Name, len(decl.Args), len(annotationTypes))
	}

	typedArgs := make([]typed.Argument, len(decl.Args))
	for i, arg := range decl.Args {
		ta, err := inferArgument(env, lines, annotationTypes[i], arg)
		if err != nil {
			return nil, nil, err
		}
		typedArgs[i] = ta
	}

	returnTypes := annotationTypes[len(decl.Args):]
	expectedReturnType := typed.FoldLambda(returnTypes[:len(returnTypes)-1], returnTypes[len(returnTypes)-1])
	fullType := typed.FoldLambda(annotationTypes[:len(annotationTypes)-1], annotationTypes[len(annotationTypes)-1])

	provisional := &typed.Declaration{Name: decl.Name, Args: typedArgs, Type: fullType}
	bodyEnv := env.Bind(decl.Name, provisional)
	for _, arg := range typedArgs {
		for _, local := range declarationsFromPattern(arg) {
			bodyEnv = bodyEnv.Bind(local.Name, local)
		}
	}

	body, err := inferExpression(bodyEnv, lines, decl.Body)
	if err != nil {
		return nil, nil, err
	}
	if !typeEq(body.ExprType(), expectedReturnType) {
		return nil, nil, declarationError(lines, decl,
			"Expected %s to return type %s, but instead got type %s", decl.Name, expectedReturnType, body.ExprType())
	}

	final := &typed.Declaration{Name: decl.Name, Args: typedArgs, Body: body, Type: fullType}
	return final, env.Bind(decl.Name, final), nil
}
