package wat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstInstrRendersI32Const(t *testing.T) {
	out := ConstInstr{Value: 42}.ToWAT(0)
	assert.Equal(t, "(i32.const 42)\n", out)
}

func TestGetLocalInstrRendersDollarName(t *testing.T) {
	out := GetLocalInstr{Name: "x"}.ToWAT(0)
	assert.Equal(t, "(get_local $x)\n", out)
}

func TestBinopKindStringMapsToI32Opcodes(t *testing.T) {
	assert.Equal(t, "i32.add", Add.String())
	assert.Equal(t, "i32.sub", Sub.String())
	assert.Equal(t, "i32.mul", Mul.String())
	assert.Equal(t, "i32.div_s", DivS.String())
}

func TestBinopInstrNestsLeftAndRight(t *testing.T) {
	out := BinopInstr{Kind: Add, Left: ConstInstr{Value: 1}, Right: ConstInstr{Value: 2}}.ToWAT(0)
	assert.Contains(t, out, "(i32.add")
	assert.Contains(t, out, "(i32.const 1)")
	assert.Contains(t, out, "(i32.const 2)")
}

func TestSelectInstrPutsConditionLast(t *testing.T) {
	out := SelectInstr{
		Cond:    EqInstr{Left: GetLocalInstr{Name: "n"}, Right: ConstInstr{Value: 0}},
		IfTrue:  ConstInstr{Value: 1},
		IfFalse: ConstInstr{Value: 2},
	}.ToWAT(0)

	trueIdx := indexOf(out, "(i32.const 1)")
	falseIdx := indexOf(out, "(i32.const 2)")
	condIdx := indexOf(out, "(i32.eq")
	assert.True(t, trueIdx < falseIdx, "ifTrue must render before ifFalse")
	assert.True(t, falseIdx < condIdx, "cond must render last, after ifFalse")
}

func TestCallInstrRendersNameAndArgsInOrder(t *testing.T) {
	out := CallInstr{Name: "f", Args: []Instr{GetLocalInstr{Name: "a"}, GetLocalInstr{Name: "b"}}}.ToWAT(0)
	assert.Contains(t, out, "(call $f")
	assert.True(t, indexOf(out, "$a") < indexOf(out, "$b"))
}

func TestFuncToWATExportsAndDeclaresParams(t *testing.T) {
	fn := &Func{
		Name:   "id",
		Params: []Param{{Name: "x"}},
		Body:   []Instr{GetLocalInstr{Name: "x"}},
	}
	out := fn.ToWAT(1)
	assert.Contains(t, out, `(export "id" (func $id))`)
	assert.Contains(t, out, "(func $id (param $x i32) (result i32)")
	assert.Contains(t, out, "(get_local $x)")
}

func TestFuncToWATDeclaresLocalsAndRunsBodyInOrder(t *testing.T) {
	fn := &Func{
		Name:   "withLet",
		Params: []Param{{Name: "n"}},
		Locals: []Param{{Name: "a"}},
		Body: []Instr{
			SetLocalInstr{Name: "a", Value: ConstInstr{Value: 1}},
			GetLocalInstr{Name: "a"},
		},
	}
	out := fn.ToWAT(1)
	assert.Contains(t, out, "(local $a i32)")
	setIdx := indexOf(out, "(set_local $a")
	getIdx := indexOf(out, "(get_local $a)")
	assert.True(t, setIdx >= 0 && getIdx > setIdx, "set_local must run before the later get_local reads it")
}

func TestFuncToWATOmitsCommentWhenEmptyAndWritesItWhenSet(t *testing.T) {
	bare := &Func{Name: "f", Body: []Instr{ConstInstr{Value: 0}}}
	assert.NotContains(t, bare.ToWAT(1), ";;")

	documented := &Func{Name: "f", Body: []Instr{ConstInstr{Value: 0}}, Comment: "f :: Int"}
	out := documented.ToWAT(1)
	assert.Contains(t, out, ";; f :: Int")
	assert.True(t, indexOf(out, ";; f :: Int") < indexOf(out, "(export"), "comment trailer must precede the export clause")
}

func TestModuleToWATWrapsFuncsInModuleForm(t *testing.T) {
	m := &Module{Funcs: []*Func{{Name: "f", Body: []Instr{ConstInstr{Value: 0}}}}}
	out := m.ToWAT()
	assert.True(t, len(out) > 0 && out[0:1] == "(")
	assert.Contains(t, out, "(module")
	assert.Contains(t, out, `(export "f" (func $f))`)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
