package parser

import (
	"testing"

	"github.com/bpc-lang/bpc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func mustParseErr(t *testing.T, src string) {
	t.Helper()
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatalf("expected parse error, got none")
	}
}

func TestParseEmptyFunction(t *testing.T) {
	prog := mustParse(t, "fn main() { }")
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FunctionItem)
	if !ok {
		t.Fatalf("expected *ast.FunctionItem, got %T", prog.Items[0])
	}
	if fn.Name != "main" {
		t.Errorf("name = %q, want main", fn.Name)
	}
	if fn.Ret != nil {
		t.Errorf("expected nil return type, got %v", fn.Ret)
	}
	if len(fn.Body.Stmts) != 0 || fn.Body.Tail != nil {
		t.Errorf("expected empty body")
	}
}

func TestParseFunctionParamsAndReturn(t *testing.T) {
	prog := mustParse(t, "fn add(a: i32, b: i32) -> i32 { a }")
	fn := prog.Items[0].(*ast.FunctionItem)
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("unexpected param names: %+v", fn.Params)
	}
	ret, ok := fn.Ret.(*ast.NamedType)
	if !ok || ret.Name != "i32" {
		t.Errorf("expected return type i32, got %+v", fn.Ret)
	}
	tail, ok := fn.Body.Tail.(*ast.Identifier)
	if !ok || tail.Name != "a" {
		t.Errorf("expected tail identifier a, got %+v", fn.Body.Tail)
	}
}

func TestParseArrayType(t *testing.T) {
	prog := mustParse(t, "fn f(xs: [i32; 4]) { }")
	fn := prog.Items[0].(*ast.FunctionItem)
	at, ok := fn.Params[0].Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected *ast.ArrayType, got %T", fn.Params[0].Type)
	}
	elem, ok := at.Elem.(*ast.NamedType)
	if !ok || elem.Name != "i32" {
		t.Errorf("expected elem i32, got %+v", at.Elem)
	}
	if at.Len.Value != 4 {
		t.Errorf("expected length 4, got %d", at.Len.Value)
	}
}

func TestParseLetAndAssign(t *testing.T) {
	prog := mustParse(t, `fn f() {
		let mut x: i32 = 1;
		x = x + 1;
	}`)
	fn := prog.Items[0].(*ast.FunctionItem)
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 stmts, got %d", len(fn.Body.Stmts))
	}
	let, ok := fn.Body.Stmts[0].(*ast.LetStmt)
	if !ok || !let.Mut || let.Name != "x" {
		t.Errorf("unexpected let stmt: %+v", fn.Body.Stmts[0])
	}
	assign, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	if !ok || assign.Name != "x" {
		t.Errorf("unexpected assign stmt: %+v", fn.Body.Stmts[1])
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := mustParse(t, "fn f() { 1 + 2 * 3 }")
	fn := prog.Items[0].(*ast.FunctionItem)
	bin, ok := fn.Body.Tail.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level +, got %+v", fn.Body.Tail)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Errorf("expected right-hand side to be *, got %+v", bin.Right)
	}
}

func TestParseCastBindsTighterThanBinary(t *testing.T) {
	prog := mustParse(t, "fn f() { 1 + 2 as i64 }")
	fn := prog.Items[0].(*ast.FunctionItem)
	bin := fn.Body.Tail.(*ast.BinaryExpr)
	cast, ok := bin.Right.(*ast.CastExpr)
	if !ok {
		t.Fatalf("expected cast on right operand, got %+v", bin.Right)
	}
	if _, ok := cast.Operand.(*ast.IntegerLiteral); !ok {
		t.Errorf("expected cast operand to be literal 2, got %+v", cast.Operand)
	}
}

func TestParseIndexBindsTighterThanUnary(t *testing.T) {
	prog := mustParse(t, "fn f() { -xs[0] }")
	fn := prog.Items[0].(*ast.FunctionItem)
	un, ok := fn.Body.Tail.(*ast.UnaryExpr)
	if !ok || un.Op != "-" {
		t.Fatalf("expected top-level unary -, got %+v", fn.Body.Tail)
	}
	if _, ok := un.Operand.(*ast.IndexExpr); !ok {
		t.Errorf("expected operand to be index expr, got %+v", un.Operand)
	}
}

func TestParseIfElseIfChain(t *testing.T) {
	prog := mustParse(t, `fn f() {
		if a { 1 } else if b { 2 } else { 3 }
	}`)
	fn := prog.Items[0].(*ast.FunctionItem)
	outer, ok := fn.Body.Tail.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected top-level if, got %+v", fn.Body.Tail)
	}
	inner, ok := outer.Else.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected else-if, got %+v", outer.Else)
	}
	if _, ok := inner.Else.(*ast.BlockExpr); !ok {
		t.Errorf("expected trailing else block, got %+v", inner.Else)
	}
}

func TestParseLoopAndWhileAsStatementsNeedNoSemicolon(t *testing.T) {
	prog := mustParse(t, `fn f() {
		loop { if i >= 5 { break; }; i = i + 1; }
		while i < 10 { i = i + 1; }
		i
	}`)
	fn := prog.Items[0].(*ast.FunctionItem)
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 stmts, got %d", len(fn.Body.Stmts))
	}
	loopStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	if _, ok := loopStmt.Expr.(*ast.LoopExpr); !ok {
		t.Errorf("expected loop expr stmt, got %+v", loopStmt.Expr)
	}
	whileStmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	if _, ok := whileStmt.Expr.(*ast.WhileExpr); !ok {
		t.Errorf("expected while expr stmt, got %+v", whileStmt.Expr)
	}
}

func TestParseEmbeddedIfInsideLoopNeedsSemicolon(t *testing.T) {
	// The embedded `if` is a statement (not the loop body's tail), so it
	// must be followed by `;` even though `loop` itself doesn't need one.
	mustParseErr(t, `fn f() {
		loop { if i >= 5 { break; } i = i + 1; }
	}`)
}

func TestParseArrayRepeatAndListLiterals(t *testing.T) {
	prog := mustParse(t, `fn f() {
		let a = [0; 4];
		let b = [1, 2, 3];
	}`)
	fn := prog.Items[0].(*ast.FunctionItem)
	a := fn.Body.Stmts[0].(*ast.LetStmt)
	if _, ok := a.Init.(*ast.ArrayRepeatExpr); !ok {
		t.Errorf("expected array repeat, got %+v", a.Init)
	}
	b := fn.Body.Stmts[1].(*ast.LetStmt)
	list, ok := b.Init.(*ast.ArrayListExpr)
	if !ok || len(list.Elems) != 3 {
		t.Errorf("expected 3-elem array list, got %+v", b.Init)
	}
}

func TestParseCallExpr(t *testing.T) {
	prog := mustParse(t, "fn f() { len(xs) }")
	fn := prog.Items[0].(*ast.FunctionItem)
	call, ok := fn.Body.Tail.(*ast.CallExpr)
	if !ok || call.Callee != "len" || len(call.Args) != 1 {
		t.Errorf("unexpected call expr: %+v", fn.Body.Tail)
	}
}

func TestParseConstItem(t *testing.T) {
	prog := mustParse(t, "const N: i32 = 10;")
	c, ok := prog.Items[0].(*ast.ConstItem)
	if !ok || c.Name != "N" {
		t.Fatalf("unexpected const item: %+v", prog.Items[0])
	}
	lit, ok := c.Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 10 {
		t.Errorf("unexpected const value: %+v", c.Value)
	}
}

func TestParseTypeAliasItem(t *testing.T) {
	prog := mustParse(t, "type Vec = [f64; 3];")
	alias, ok := prog.Items[0].(*ast.TypeAliasItem)
	if !ok || alias.Name != "Vec" {
		t.Fatalf("unexpected type alias: %+v", prog.Items[0])
	}
	if _, ok := alias.Type.(*ast.ArrayType); !ok {
		t.Errorf("expected array type, got %+v", alias.Type)
	}
}

func TestParseMissingSemicolonIsError(t *testing.T) {
	mustParseErr(t, "fn f() { let x = 1 }")
}

func TestParseUnexpectedItemIsError(t *testing.T) {
	mustParseErr(t, "let x = 1;")
}

func TestParseReturnAndBreakWithNoValue(t *testing.T) {
	prog := mustParse(t, `fn f() {
		loop {
			if true { break; };
			return;
		}
	}`)
	fn := prog.Items[0].(*ast.FunctionItem)
	loop := fn.Body.Tail.(*ast.LoopExpr)
	ret, ok := loop.Body.Stmts[1].(*ast.ReturnStmt)
	if !ok || ret.Value != nil {
		t.Errorf("expected bare return, got %+v", loop.Body.Stmts[1])
	}
}
