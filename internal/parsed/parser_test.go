package parsed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treec/ast"
)

func TestParseIdentityFunction(t *testing.T) {
	src := "id :: a -> a\nid x = x\n"
	mod, lines, err := Parse("identity.tree", src)
	require.NoError(t, err)
	require.Len(t, mod.TopLevels, 1)
	require.NotNil(t, lines)

	fn := mod.TopLevels[0].(*FunctionTopLevel)
	decl := fn.Declaration
	assert.Equal(t, ast.Identifier("id"), decl.Name)
	require.NotNil(t, decl.Annotation)
	assert.Len(t, decl.Annotation.Types, 2)
	require.Len(t, decl.Args, 1)

	arg, ok := decl.Args[0].(*AIdentifier)
	require.True(t, ok)
	assert.Equal(t, ast.Identifier("x"), arg.Name)

	body, ok := decl.Body.(*EIdentifier)
	require.True(t, ok)
	assert.Equal(t, ast.Identifier("x"), body.Name)
}

func TestParseADTWithGenericsAndConstructors(t *testing.T) {
	src := "data Result error value = Err error | Ok value\n"
	mod, _, err := Parse("result.tree", src)
	require.NoError(t, err)
	require.Len(t, mod.TopLevels, 1)

	top := mod.TopLevels[0].(*DataTypeTopLevel)
	adt := top.ADT
	assert.Equal(t, ast.Identifier("Result"), adt.Name)
	assert.Equal(t, []ast.Identifier{"error", "value"}, adt.Generics)
	require.Len(t, adt.Constructors, 2)

	assert.Equal(t, ast.Identifier("Err"), adt.Constructors[0].Name)
	errType, ok := adt.Constructors[0].Type.(*CTConcrete)
	require.True(t, ok)
	assert.Equal(t, ast.Identifier("error"), errType.Name)

	assert.Equal(t, ast.Identifier("Ok"), adt.Constructors[1].Name)
}

func TestParseCaseWithMultipleBranches(t *testing.T) {
	src := "f :: Int -> Int\n" +
		"f n =\n" +
		"  case n of\n" +
		"    0 -> 1\n" +
		"    _ -> n\n"
	mod, _, err := Parse("case.tree", src)
	require.NoError(t, err)

	fn := mod.TopLevels[0].(*FunctionTopLevel)
	c, ok := fn.Declaration.Body.(*ECase)
	require.True(t, ok)
	require.Len(t, c.Branches, 2)

	lit, ok := c.Branches[0].Pattern.(*ANumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(0), lit.Value)

	wildcard, ok := c.Branches[1].Pattern.(*AIdentifier)
	require.True(t, ok)
	assert.Equal(t, ast.Identifier("_"), wildcard.Name)
}

func TestParseLetWithMultipleDeclarations(t *testing.T) {
	src := "f :: Int -> Int\n" +
		"f n =\n" +
		"  let\n" +
		"    a :: Int\n" +
		"    a = 1\n" +
		"    b :: Int\n" +
		"    b = 2\n" +
		"  in\n" +
		"  a + b\n"
	mod, _, err := Parse("let.tree", src)
	require.NoError(t, err)

	fn := mod.TopLevels[0].(*FunctionTopLevel)
	let, ok := fn.Declaration.Body.(*ELet)
	require.True(t, ok)
	require.Len(t, let.Declarations, 2)
	assert.Equal(t, ast.Identifier("a"), let.Declarations[0].Name)
	assert.Equal(t, ast.Identifier("b"), let.Declarations[1].Name)

	infix, ok := let.Body.(*EInfix)
	require.True(t, ok)
	assert.Equal(t, Add, infix.Op)
}

func TestParseInfixIsRightAssociative(t *testing.T) {
	src := "f :: Int -> Int\nf n = n + n + n\n"
	mod, _, err := Parse("infix.tree", src)
	require.NoError(t, err)

	fn := mod.TopLevels[0].(*FunctionTopLevel)
	outer, ok := fn.Declaration.Body.(*EInfix)
	require.True(t, ok)
	_, ok = outer.Right.(*EInfix)
	assert.True(t, ok, "right operand of the first + should itself be an EInfix")
}

func TestParseApplyIsLeftAssociativeJuxtaposition(t *testing.T) {
	src := "f :: Int -> Int -> Int\nf a b = g a b\n"
	mod, _, err := Parse("apply.tree", src)
	require.NoError(t, err)

	fn := mod.TopLevels[0].(*FunctionTopLevel)
	outer, ok := fn.Declaration.Body.(*EApply)
	require.True(t, ok)
	inner, ok := outer.Func.(*EApply)
	require.True(t, ok)
	_, ok = inner.Func.(*EIdentifier)
	assert.True(t, ok)
}

func TestParseErrorHasNoRecovery(t *testing.T) {
	_, _, err := Parse("broken.tree", "f :: Int -> Int\nf n = \n")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
