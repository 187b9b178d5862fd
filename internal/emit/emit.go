// Package emit lowers a checked typed.Module into a WebAssembly text
// module (spec.md §4.7). It is deliberately the "opaque to the type
// checker" tail of the pipeline: it trusts everything the checker already
// verified and only has to decide how to represent each already-typed
// node as an i32 instruction tree.
package emit

import (
	"treec/ast/wat"
	"treec/internal/common"
	"treec/internal/typed"
)

// Emit lowers every declaration in m into an exported WAT function.
// Constructor-synthesized declarations are lowered the same as any other
// declaration — their bodies are EADTConstruction nodes, which lower to
// the constructor's tag (spec.md §9: the typed AST's own typeOf for these
// nodes is a placeholder, but their value lowering is exact). release
// suppresses the `;;` debug-comment trailer the CLI's -release flag asks
// for (cmd/treec/main.go).
func Emit(m *typed.Module, release bool) (*wat.Module, error) {
	out := &wat.Module{}
	for _, decl := range m.Declarations {
		fn, err := emitDeclaration(decl, release)
		if err != nil {
			return nil, err
		}
		out.Funcs = append(out.Funcs, fn)
	}
	return out, nil
}

func emitDeclaration(decl *typed.Declaration, release bool) (*wat.Func, error) {
	if containsFloat(decl.Type) {
		return nil, common.NewCompilerError("emitter has no i32 lowering for Float-typed declaration " + string(decl.Name))
	}

	params := make([]wat.Param, len(decl.Args))
	for i, arg := range decl.Args {
		id, ok := arg.(*typed.AIdentifier)
		if !ok {
			return nil, common.NewCompilerError("emitter expects every top-level argument pattern to be a plain identifier")
		}
		params[i] = wat.Param{Name: string(id.Name)}
	}

	locals, body, err := emitBody(decl.Body)
	if err != nil {
		return nil, err
	}

	comment := ""
	if !release {
		comment = string(decl.Name) + " :: " + decl.Type.String()
	}
	return &wat.Func{Name: string(decl.Name), Params: params, Locals: locals, Body: body, Comment: comment}, nil
}

// emitBody lowers a declaration's immediate body, hoisting any top-level
// chain of Let-bindings into WAT locals with set_local initializers ahead
// of the final value-producing instruction (spec.md §4.4's let, which the
// checker accepts but spec.md §4.7 never describes lowering for). A Let
// nested inside another expression — as a call argument, an infix operand,
// a case branch — is rejected rather than mis-lowered: the select-based
// case/infix/apply instructions this emitter builds are single expressions
// with no block of their own to host set_local statements.
func emitBody(e typed.Expression) ([]wat.Param, []wat.Instr, error) {
	let, ok := e.(*typed.ELet)
	if !ok {
		instr, err := emitExpression(e)
		if err != nil {
			return nil, nil, err
		}
		return nil, []wat.Instr{instr}, nil
	}

	var locals []wat.Param
	var instrs []wat.Instr
	for _, d := range let.Declarations {
		if len(d.Args) != 0 {
			return nil, nil, common.NewCompilerError("emitter has no i32 lowering for a let-bound function " + string(d.Name))
		}
		value, err := emitExpression(d.Body)
		if err != nil {
			return nil, nil, err
		}
		locals = append(locals, wat.Param{Name: string(d.Name)})
		instrs = append(instrs, wat.SetLocalInstr{Name: string(d.Name), Value: value})
	}

	restLocals, restInstrs, err := emitBody(let.Body)
	if err != nil {
		return nil, nil, err
	}
	return append(locals, restLocals...), append(instrs, restInstrs...), nil
}

func containsFloat(t typed.Type) bool {
	switch x := t.(type) {
	case typed.TFloat:
		return true
	case typed.TLambda:
		return containsFloat(x.Param) || containsFloat(x.Result)
	case typed.TApplied:
		return containsFloat(x.Func) || containsFloat(x.Arg)
	default:
		return false
	}
}

func emitExpression(e typed.Expression) (wat.Instr, error) {
	switch x := e.(type) {
	case *typed.ENumber:
		return wat.ConstInstr{Value: x.Value}, nil

	case *typed.EIdentifier:
		return wat.GetLocalInstr{Name: string(x.Name)}, nil

	case *typed.EInfix:
		return emitInfix(x)

	case *typed.EApply:
		return emitApply(x)

	case *typed.ECase:
		return emitCase(x)

	case *typed.ELet:
		// Only emitBody ever lowers a Let, and only when it is a
		// declaration's immediate body. One reached here is nested inside
		// another expression, which this emitter has no instruction
		// sequencing for.
		return nil, common.NewCompilerError("emitter only supports let bindings as a declaration's immediate body, not nested inside another expression")

	case *typed.EADTConstruction:
		return wat.ConstInstr{Value: int64(x.Tag)}, nil

	case *typed.EFloat:
		return nil, common.NewCompilerError("emitter has no i32 lowering for a Float literal")

	case *typed.EString:
		return nil, common.NewCompilerError("emitter has no i32 lowering for a String literal")

	default:
		return nil, common.NewCompilerError("unhandled typed.Expression variant")
	}
}

func emitInfix(x *typed.EInfix) (wat.Instr, error) {
	if x.Op == typed.StringAdd {
		return nil, common.NewCompilerError("emitter has no i32 lowering for string concatenation")
	}
	left, err := emitExpression(x.Left)
	if err != nil {
		return nil, err
	}
	right, err := emitExpression(x.Right)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case typed.Add:
		return wat.BinopInstr{Kind: wat.Add, Left: left, Right: right}, nil
	case typed.Subtract:
		return wat.BinopInstr{Kind: wat.Sub, Left: left, Right: right}, nil
	case typed.Multiply:
		return wat.BinopInstr{Kind: wat.Mul, Left: left, Right: right}, nil
	case typed.Divide:
		return wat.BinopInstr{Kind: wat.DivS, Left: left, Right: right}, nil
	default:
		return nil, common.NewCompilerError("emitter has no i32 lowering for string concatenation")
	}
}

// emitApply flattens a curried Apply spine (Apply(Apply(f, a), b)) into a
// single (call $f a b) instruction, per spec.md §4.7.
func emitApply(x *typed.EApply) (wat.Instr, error) {
	name, args, ok := flattenApply(x)
	if !ok {
		return nil, common.NewCompilerError("emitter requires every call's head to resolve to a named function")
	}
	instrs := make([]wat.Instr, len(args))
	for i, a := range args {
		instr, err := emitExpression(a)
		if err != nil {
			return nil, err
		}
		instrs[i] = instr
	}
	return wat.CallInstr{Name: name, Args: instrs}, nil
}

func flattenApply(e typed.Expression) (string, []typed.Expression, bool) {
	switch x := e.(type) {
	case *typed.EApply:
		name, args, ok := flattenApply(x.Func)
		if !ok {
			return "", nil, false
		}
		return name, append(args, x.Arg), true
	case *typed.EIdentifier:
		return string(x.Name), nil, true
	default:
		return "", nil, false
	}
}

// emitCase builds the nested-select chain spec.md §4.7 describes: walk the
// branch list in reverse, each step wrapping the previously built
// instruction as the "false" arm behind a fresh i32.eq comparator for the
// branch above it. The last branch in source order therefore ends up as
// the chain's innermost default with no comparator of its own.
func emitCase(x *typed.ECase) (wat.Instr, error) {
	scrutinee, err := emitExpression(x.Value)
	if err != nil {
		return nil, err
	}

	last := x.Branches[len(x.Branches)-1]
	out, err := emitExpression(last.Expression)
	if err != nil {
		return nil, err
	}

	for i := len(x.Branches) - 2; i >= 0; i-- {
		branch := x.Branches[i]
		cmp, err := patternConst(branch.Pattern)
		if err != nil {
			return nil, err
		}
		ifTrue, err := emitExpression(branch.Expression)
		if err != nil {
			return nil, err
		}
		out = wat.SelectInstr{
			Cond:    wat.EqInstr{Left: scrutinee, Right: cmp},
			IfTrue:  ifTrue,
			IfFalse: out,
		}
	}
	return out, nil
}

func patternConst(p typed.Argument) (wat.Instr, error) {
	switch a := p.(type) {
	case *typed.ANumberLiteral:
		return wat.ConstInstr{Value: a.Value}, nil
	case *typed.ADeconstruction:
		return wat.ConstInstr{Value: int64(a.Tag)}, nil
	case *typed.AIdentifier:
		return nil, common.NewCompilerError("an identifier pattern must be the last case branch")
	default:
		return nil, common.NewCompilerError("unhandled typed.Argument variant")
	}
}
