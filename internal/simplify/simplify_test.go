package simplify

import (
	"testing"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

func i32(v uint64) *hir.IntConst { return &hir.IntConst{Value: v, Typ: types.I32Type} }

func TestFoldIntBinaryAdd(t *testing.T) {
	n := &hir.Binary{Op: hir.Add, Left: i32(2), Right: i32(3), Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	c, ok := got.(*hir.IntConst)
	if !ok || c.Value != 5 {
		t.Fatalf("expected folded constant 5, got %#v", got)
	}
}

func TestFoldDivisionByZeroIsNotFolded(t *testing.T) {
	n := &hir.Binary{Op: hir.Div, Left: i32(1), Right: i32(0), Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if _, ok := got.(*hir.IntConst); ok {
		t.Fatal("division by zero must not be constant-folded away; the trap must survive to runtime")
	}
	if got != n {
		t.Fatalf("expected the original Binary node to survive unfolded, got %#v", got)
	}
}

func TestFoldRemainderByZeroIsNotFolded(t *testing.T) {
	n := &hir.Binary{Op: hir.Rem, Left: i32(7), Right: i32(0), Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if _, ok := got.(*hir.IntConst); ok {
		t.Fatal("remainder by zero must not be constant-folded away")
	}
}

func TestFoldSignedDivisionTruncatesTowardZero(t *testing.T) {
	neg7 := &hir.IntConst{Value: 0xfffffff9, Typ: types.I32Type} // -7 as a 32-bit pattern
	n := &hir.Binary{Op: hir.Div, Left: neg7, Right: i32(2), Typ: types.I32Type, OperandType: types.I32Type}
	got, ok := expr(n).(*hir.IntConst)
	if !ok {
		t.Fatalf("expected a folded constant, got %#v", n)
	}
	if int32(got.Value) != -3 {
		t.Fatalf("expected -7/2 == -3, got %d", int32(got.Value))
	}
}

func TestAddIdentityZero(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.Add, Left: local, Right: i32(0), Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if got != local {
		t.Fatalf("expected x + 0 -> x, got %#v", got)
	}
}

func TestMulIdentityOne(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.Mul, Left: i32(1), Right: local, Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if got != local {
		t.Fatalf("expected 1 * x -> x, got %#v", got)
	}
}

func TestMulByZeroIsZeroOnlyWhenOtherSideIsPure(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.Mul, Left: local, Right: i32(0), Typ: types.I32Type, OperandType: types.I32Type}
	got, ok := expr(n).(*hir.IntConst)
	if !ok || got.Value != 0 {
		t.Fatalf("expected x * 0 -> 0 for a pure operand, got %#v", n)
	}
}

func TestAndWithAllOnesIsIdentity(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.I32Type}
	allOnes := &hir.IntConst{Value: 0xFFFFFFFF, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.And, Left: local, Right: allOnes, Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if got != local {
		t.Fatalf("expected x & 0xFFFFFFFF -> x, got %#v", got)
	}
}

func TestShiftByZeroIsIdentity(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.Shl, Left: local, Right: i32(0), Typ: types.I32Type, OperandType: types.I32Type}
	got := expr(n)
	if got != local {
		t.Fatalf("expected x << 0 -> x, got %#v", got)
	}
}

func TestEqTrueIsIdentity(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.BoolType}
	n := &hir.Binary{Op: hir.Eq, Left: local, Right: &hir.BoolConst{Value: true}, Typ: types.BoolType}
	got := expr(n)
	if got != local {
		t.Fatalf("expected x == true -> x, got %#v", got)
	}
}

func TestEqFalseNegates(t *testing.T) {
	local := &hir.Local{Slot: 0, Typ: types.BoolType}
	n := &hir.Binary{Op: hir.Eq, Left: local, Right: &hir.BoolConst{Value: false}, Typ: types.BoolType}
	got, ok := expr(n).(*hir.Unary)
	if !ok || got.Op != hir.Not || got.Operand != local {
		t.Fatalf("expected x == false -> !x, got %#v", n)
	}
}

func TestLogicalAndShortCircuitsOnImpureLeft(t *testing.T) {
	call := &hir.Call{FuncIndex: 0, Typ: types.BoolType}
	n := &hir.Binary{Op: hir.LogicalAnd, Left: call, Right: &hir.BoolConst{Value: false}, Typ: types.BoolType}
	got := expr(n)
	if _, ok := got.(*hir.BoolConst); ok {
		t.Fatal("f() && false must not fold to false: f() is impure and must still be evaluated")
	}
}

func TestSameVarSubtractionIsZero(t *testing.T) {
	local := &hir.Local{Slot: 3, Typ: types.I32Type}
	n := &hir.Binary{Op: hir.Sub, Left: local, Right: &hir.Local{Slot: 3, Typ: types.I32Type}, Typ: types.I32Type, OperandType: types.I32Type}
	got, ok := expr(n).(*hir.IntConst)
	if !ok || got.Value != 0 {
		t.Fatalf("expected x - x -> 0, got %#v", n)
	}
}

func TestNestedFoldingReachesOuterNode(t *testing.T) {
	inner := &hir.Binary{Op: hir.Add, Left: i32(2), Right: i32(3), Typ: types.I32Type, OperandType: types.I32Type}
	outer := &hir.Binary{Op: hir.Mul, Left: inner, Right: i32(4), Typ: types.I32Type, OperandType: types.I32Type}
	got, ok := expr(outer).(*hir.IntConst)
	if !ok || got.Value != 20 {
		t.Fatalf("expected (2+3)*4 -> 20, got %#v", got)
	}
}

func TestFoldUnaryNeg(t *testing.T) {
	n := &hir.Unary{Op: hir.Neg, Operand: i32(5), Typ: types.I32Type}
	got, ok := expr(n).(*hir.IntConst)
	if !ok || int32(got.Value) != -5 {
		t.Fatalf("expected -5, got %#v", n)
	}
}

func TestFoldUnaryNot(t *testing.T) {
	n := &hir.Unary{Op: hir.Not, Operand: &hir.BoolConst{Value: true}, Typ: types.BoolType}
	got, ok := expr(n).(*hir.BoolConst)
	if !ok || got.Value != false {
		t.Fatalf("expected !true -> false, got %#v", n)
	}
}

func TestProgramRewritesEveryFunctionBody(t *testing.T) {
	prog := &hir.Program{
		Functions: []*hir.Function{
			{
				Name: "main", Ret: types.I32Type,
				Body: &hir.Block{
					Tail: &hir.Binary{Op: hir.Add, Left: i32(1), Right: i32(1), Typ: types.I32Type, OperandType: types.I32Type},
					Typ:  types.I32Type,
				},
			},
		},
	}
	Program(prog)
	c, ok := prog.Functions[0].Body.Tail.(*hir.IntConst)
	if !ok || c.Value != 2 {
		t.Fatalf("expected function body tail folded to 2, got %#v", prog.Functions[0].Body.Tail)
	}
}
