package checker

import (
	"treec/ast"
	"treec/internal/common"
	"treec/internal/parsed"
	"treec/internal/typed"
)

// inferExpression implements spec.md §4.4: dispatch on node kind,
// recursing into sub-expressions and threading env forward through Let.
func inferExpression(env *Environment, lines *ast.LineTable, node parsed.Expression) (typed.Expression, error) {
	switch e := node.(type) {
	case *parsed.ENumber:
		return &typed.ENumber{Value: e.Value, Type: typed.TNum{}}, nil

	case *parsed.EFloat:
		return &typed.EFloat{Value: e.Value, Type: typed.TFloat{}}, nil

	case *parsed.EString:
		return &typed.EString{Value: e.Value, Type: typed.TStr{}}, nil

	case *parsed.EBetweenParens:
		return inferExpression(env, lines, e.Inner)

	case *parsed.EIdentifier:
		decl, ok := env.Lookup(e.Name)
		if !ok {
			return nil, expressionError(lines, node, "It's not clear what %q refers to", e.Name)
		}
		return &typed.EIdentifier{Name: e.Name, Type: decl.Type}, nil

	case *parsed.EInfix:
		return inferInfix(env, lines, node, e)

	case *parsed.EApply:
		return inferApply(env, lines, node, e)

	case *parsed.ECase:
		return inferCase(env, lines, node, e)

	case *parsed.ELet:
		return inferLet(env, lines, e)

	default:
		return nil, common.NewCompilerError("unhandled parsed.Expression variant")
	}
}

func inferInfix(env *Environment, lines *ast.LineTable, node parsed.Expression, e *parsed.EInfix) (typed.Expression, error) {
	left, err := inferExpression(env, lines, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := inferExpression(env, lines, e.Right)
	if err != nil {
		return nil, err
	}

	op, resultType, ok := checkInfixOperands(e.Op, left.ExprType(), right.ExprType())
	if !ok {
		return nil, expressionError(lines, node,
			"No function exists with type %s %s %s", left.ExprType(), e.Op, right.ExprType())
	}
	return &typed.EInfix{Op: op, Left: left, Right: right, Type: resultType}, nil
}

// checkInfixOperands implements spec.md §4.4's Infix validity rule:
// StringAdd requires Str on both sides and returns Str; every other
// operator requires either both Int or both Float, returning the operand
// type.
func checkInfixOperands(op parsed.OperatorExpr, l, r typed.Type) (typed.EInfixOp, typed.Type, bool) {
	if op == parsed.StringAdd {
		if typeEq(l, typed.TStr{}) && typeEq(r, typed.TStr{}) {
			return typed.StringAdd, typed.TStr{}, true
		}
		return 0, nil, false
	}
	arith := map[parsed.OperatorExpr]typed.EInfixOp{
		parsed.Add:      typed.Add,
		parsed.Subtract: typed.Subtract,
		parsed.Multiply: typed.Multiply,
		parsed.Divide:   typed.Divide,
	}
	typedOp, known := arith[op]
	if !known {
		return 0, nil, false
	}
	if typeEq(l, typed.TNum{}) && typeEq(r, typed.TNum{}) {
		return typedOp, typed.TNum{}, true
	}
	if typeEq(l, typed.TFloat{}) && typeEq(r, typed.TFloat{}) {
		return typedOp, typed.TFloat{}, true
	}
	return 0, nil, false
}

func inferApply(env *Environment, lines *ast.LineTable, node parsed.Expression, e *parsed.EApply) (typed.Expression, error) {
	fn, err := inferExpression(env, lines, e.Func)
	if err != nil {
		return nil, err
	}
	arg, err := inferExpression(env, lines, e.Arg)
	if err != nil {
		return nil, err
	}

	lambda, ok := fn.ExprType().(typed.TLambda)
	if !ok {
		return nil, expressionError(lines, node,
			"Tried to apply a value of type %s to a value of type %s", fn.ExprType(), arg.ExprType())
	}

	c := typeConstraints(lambda.Param, arg.ExprType())
	if c == nil {
		return nil, expressionError(lines, node,
			"Function expected argument of type %s, but instead got argument of type %s", lambda.Param, arg.ExprType())
	}
	resultType := replaceGenerics(c, lambda.Result)
	return &typed.EApply{Func: fn, Arg: arg, Type: resultType}, nil
}

func inferCase(env *Environment, lines *ast.LineTable, node parsed.Expression, e *parsed.ECase) (typed.Expression, error) {
	value, err := inferExpression(env, lines, e.Value)
	if err != nil {
		return nil, err
	}

	branches := make([]*typed.CaseBranch, len(e.Branches))
	for i, b := range e.Branches {
		pattern, err := inferArgument(env, lines, value.ExprType(), b.Pattern)
		if err != nil {
			return nil, err
		}
		branchEnv := env
		for _, decl := range declarationsFromPattern(pattern) {
			branchEnv = branchEnv.Bind(decl.Name, decl)
		}
		rhs, err := inferExpression(branchEnv, lines, b.Expression)
		if err != nil {
			return nil, err
		}
		branches[i] = &typed.CaseBranch{Pattern: pattern, Expression: rhs}
	}

	resultType := branches[0].Expression.ExprType()
	for _, b := range branches[1:] {
		t := b.Expression.ExprType()
		if !typeEq(resultType, t) {
			types := make([]typed.Type, len(branches))
			for i, b := range branches {
				types[i] = b.Expression.ExprType()
			}
			return nil, expressionError(lines, node, "case branches return multiple types: %s", typed.JoinTypes(types))
		}
	}

	return &typed.ECase{Value: value, Branches: branches, Type: resultType}, nil
}

func inferLet(env *Environment, lines *ast.LineTable, e *parsed.ELet) (typed.Expression, error) {
	letEnv := env
	decls := make([]*typed.Declaration, len(e.Declarations))
	for i, d := range e.Declarations {
		typedDecl, nextEnv, err := checkDeclaration(letEnv, lines, d, false)
		if err != nil {
			return nil, err
		}
		decls[i] = typedDecl
		letEnv = nextEnv
	}
	body, err := inferExpression(letEnv, lines, e.Body)
	if err != nil {
		return nil, err
	}
	return &typed.ELet{Declarations: decls, Body: body, Type: body.ExprType()}, nil
}
