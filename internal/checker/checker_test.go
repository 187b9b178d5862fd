package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treec/internal/parsed"
	"treec/internal/typed"
)

func mustCheck(t *testing.T, src string) (*typed.Module, []error) {
	mod, lines, err := parsed.Parse("test.tree", src)
	require.NoError(t, err)
	return CheckModuleWithLineInformation(mod, lines)
}

func TestIdentityFunction(t *testing.T) {
	m, errs := mustCheck(t, "id :: a -> a\nid x = x\n")
	require.Empty(t, errs)
	require.Len(t, m.Declarations, 1)

	id := m.Declarations[0]
	assert.Equal(t, "id", string(id.Name))

	lambda, ok := id.Type.(typed.TLambda)
	require.True(t, ok)
	assert.Equal(t, typed.TGeneric{Name: "a"}, lambda.Param)
	assert.Equal(t, typed.TGeneric{Name: "a"}, lambda.Result)
}

func TestResultADTWithMap(t *testing.T) {
	src := "data Result error value = Err error | Ok value\n" +
		"map :: (a -> b) -> Result e a -> Result e b\n" +
		"map f r =\n" +
		"  case r of\n" +
		"    Ok v -> Ok (f v)\n" +
		"    Err e -> Err e\n"
	m, errs := mustCheck(t, src)
	require.Empty(t, errs)

	ok := m.Constructors["Ok"]
	require.NotNil(t, ok)
	assert.Equal(t, 1, ok.Index)
	errCtor := m.Constructors["Err"]
	require.NotNil(t, errCtor)
	assert.Equal(t, 0, errCtor.Index)

	var mapDecl *typed.Declaration
	for _, d := range m.Declarations {
		if d.Name == "map" {
			mapDecl = d
		}
	}
	require.NotNil(t, mapDecl)

	caseExpr, ok2 := mapDecl.Body.(*typed.ECase)
	require.True(t, ok2)
	require.Len(t, caseExpr.Branches, 2)

	for _, b := range caseExpr.Branches {
		assert.True(t, typeEq(b.Expression.ExprType(), caseExpr.Type))
	}
}

func TestGenericApplicationBindsGeneric(t *testing.T) {
	src := "data Maybe a = Nothing | Just a\n" +
		"five :: Int -> Maybe Int\n" +
		"five n = Just 5\n"
	m, errs := mustCheck(t, src)
	require.Empty(t, errs)

	var five *typed.Declaration
	for _, d := range m.Declarations {
		if d.Name == "five" {
			five = d
		}
	}
	require.NotNil(t, five)

	apply, ok := five.Body.(*typed.EApply)
	require.True(t, ok)
	want := typed.TApplied{Func: typed.TLambdaHead{Name: "Maybe"}, Arg: typed.TNum{}}
	assert.True(t, apply.Type.Equals(want))
}

func TestCaseBranchDisagreementIsAnError(t *testing.T) {
	src := "f :: Int -> Int\nf n =\n  case n of\n    0 -> \"zero\"\n    _ -> n\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "String")
	assert.Contains(t, errs[0].Error(), "Int")
}

func TestUnknownConstructorInDeconstruction(t *testing.T) {
	src := "data Maybe a = Nothing | Just a\n" +
		"f :: Maybe Int -> Int\n" +
		"f m =\n  case m of\n    Some x -> x\n    Nothing -> 0\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), `no constructor named "Some"`)
}

func TestInfixTypeMismatch(t *testing.T) {
	src := "f :: Int -> Int\nf n = n + \"a\"\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "No function exists with type Int + String")
}

func TestMissingAnnotationIsAnError(t *testing.T) {
	src := "f x = x\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "annotations are required")
}

func TestUnknownIdentifier(t *testing.T) {
	src := "f :: Int -> Int\nf n = doesNotExist\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "doesNotExist")
}

func TestDuplicateFunctionNameIsAnError(t *testing.T) {
	src := "f :: Int -> Int\nf n = n\n" +
		"f :: Int -> Int\nf n = n\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), `"f" is already defined`)
}

func TestConstructorCollidingWithFunctionNameIsAnError(t *testing.T) {
	src := "f :: Int -> Int\nf n = n\n" +
		"data Box a = f a\n"
	_, errs := mustCheck(t, src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), `"f" is already defined`)
}

func TestErrorsAccumulateAcrossTopLevels(t *testing.T) {
	src := "a :: Int -> Int\na n = missing1\n" +
		"b :: Int -> Int\nb n = missing2\n"
	_, errs := mustCheck(t, src)
	require.Len(t, errs, 2)
}
