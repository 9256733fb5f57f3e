package check

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// checkFunction type-checks one function body (pass 2, §4.4): a fresh scope
// seeded with the parameters, checked against the function's declared
// return type.
func (c *Checker) checkFunction(fn *ast.FunctionItem) (*hir.Function, *diag.Diagnostic) {
	sig := c.funcs[fn.Name]
	b := newBodyCtx(c, sig)
	b.pushScope()
	for i, p := range fn.Params {
		b.declare(p.Name, sig.Params[i], false)
	}
	body, err := c.checkBlock(b, fn.Body, sig.Ret)
	b.popScope()
	if err != nil {
		return nil, err
	}
	return &hir.Function{
		Name: fn.Name, Params: sig.Params, Ret: sig.Ret,
		Locals: b.localTypes, Body: body, Exported: true,
	}, nil
}

// checkBlock type-checks a block expression against an expected type
// (§4.4): each scope is fresh, statements run in order, and the tail (if
// present) must match expected.
func (c *Checker) checkBlock(b *bodyCtx, blk *ast.BlockExpr, expected *types.Type) (*hir.Block, *diag.Diagnostic) {
	b.pushScope()
	defer b.popScope()

	stmts := make([]hir.Stmt, 0, len(blk.Stmts))
	for _, s := range blk.Stmts {
		hs, err := c.checkStmt(b, s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, hs)
	}

	if blk.Tail == nil {
		if expected != nil && expected.Kind != types.Unit {
			return nil, diag.New(diag.TypeError, blk.Span_, "expected %s, found unit (block has no tail expression)", expected)
		}
		return &hir.Block{Stmts: stmts, Typ: types.UnitType}, nil
	}

	tail, err := c.checkExpr(b, blk.Tail, expected)
	if err != nil {
		return nil, err
	}
	if expected != nil && !types.Equal(tail.Type(), expected) {
		return nil, diag.New(diag.TypeError, blk.Tail.Pos(), "expected %s, found %s", expected, tail.Type())
	}
	return &hir.Block{Stmts: stmts, Tail: tail, Typ: tail.Type()}, nil
}

func (c *Checker) checkStmt(b *bodyCtx, s ast.Stmt) (hir.Stmt, *diag.Diagnostic) {
	switch n := s.(type) {
	case *ast.LetStmt:
		return c.checkLet(b, n)
	case *ast.AssignStmt:
		return c.checkAssign(b, n)
	case *ast.ReturnStmt:
		return c.checkReturn(b, n)
	case *ast.BreakStmt:
		return c.checkBreak(b, n)
	case *ast.ContinueStmt:
		if b.currentLoop() == nil {
			return nil, diag.New(diag.TypeError, n.Span_, "continue outside any loop")
		}
		return &hir.ContinueStmt{}, nil
	case *ast.ExprStmt:
		e, err := c.checkExpr(b, n.Expr, nil)
		if err != nil {
			return nil, err
		}
		return &hir.ExprStmt{Expr: e}, nil
	default:
		return nil, diag.New(diag.TypeError, s.Pos(), "unsupported statement")
	}
}

func (c *Checker) checkLet(b *bodyCtx, n *ast.LetStmt) (hir.Stmt, *diag.Diagnostic) {
	var declared *types.Type
	if n.Type != nil {
		t, err := c.resolveTypeExpr(n.Type)
		if err != nil {
			return nil, err
		}
		declared = t
	}
	init, err := c.checkExpr(b, n.Init, declared)
	if err != nil {
		return nil, err
	}
	if declared != nil && !types.Equal(init.Type(), declared) {
		return nil, diag.New(diag.TypeError, n.Init.Pos(), "let %s: expected %s, found %s", n.Name, declared, init.Type())
	}
	lv := b.declare(n.Name, init.Type(), n.Mut)
	return &hir.LetStmt{Slot: lv.Slot, Init: init}, nil
}

func (c *Checker) checkAssign(b *bodyCtx, n *ast.AssignStmt) (hir.Stmt, *diag.Diagnostic) {
	lv, ok := b.lookup(n.Name)
	if !ok {
		return nil, diag.New(diag.TypeError, n.Span_, "unknown name %q", n.Name)
	}
	if !lv.Mut {
		return nil, diag.New(diag.TypeError, n.Span_, "cannot assign to immutable binding %q", n.Name)
	}
	value, err := c.checkExpr(b, n.Value, lv.Typ)
	if err != nil {
		return nil, err
	}
	if !types.Equal(value.Type(), lv.Typ) {
		return nil, diag.New(diag.TypeError, n.Value.Pos(), "cannot assign %s to %q of type %s", value.Type(), n.Name, lv.Typ)
	}
	return &hir.AssignStmt{Slot: lv.Slot, Value: value}, nil
}

func (c *Checker) checkReturn(b *bodyCtx, n *ast.ReturnStmt) (hir.Stmt, *diag.Diagnostic) {
	ret := b.fn.Ret
	if n.Value == nil {
		if ret.Kind != types.Unit {
			return nil, diag.New(diag.TypeError, n.Span_, "bare return requires a unit-returning function, found %s", ret)
		}
		return &hir.ReturnStmt{}, nil
	}
	value, err := c.checkExpr(b, n.Value, ret)
	if err != nil {
		return nil, err
	}
	if !types.Equal(value.Type(), ret) {
		return nil, diag.New(diag.TypeError, n.Value.Pos(), "return type mismatch: expected %s, found %s", ret, value.Type())
	}
	return &hir.ReturnStmt{Value: value}, nil
}

func (c *Checker) checkBreak(b *bodyCtx, n *ast.BreakStmt) (hir.Stmt, *diag.Diagnostic) {
	lc := b.currentLoop()
	if lc == nil {
		return nil, diag.New(diag.TypeError, n.Span_, "break outside any loop")
	}
	if n.Value == nil {
		if lc.breakTypeIsSet && lc.breakType.Kind != types.Unit {
			return nil, diag.New(diag.TypeError, n.Span_, "break value type mismatch: expected %s, found unit", lc.breakType)
		}
		return &hir.BreakStmt{}, nil
	}
	if lc.isWhile {
		return nil, diag.New(diag.TypeError, n.Span_, "break with a value is not allowed inside while")
	}
	expected := lc.breakType
	value, err := c.checkExpr(b, n.Value, expected)
	if err != nil {
		return nil, err
	}
	if lc.breakTypeIsSet {
		if !types.Equal(value.Type(), lc.breakType) {
			return nil, diag.New(diag.TypeError, n.Value.Pos(), "break value type mismatch: expected %s, found %s", lc.breakType, value.Type())
		}
	} else {
		lc.breakType = value.Type()
		lc.breakTypeIsSet = true
	}
	return &hir.BreakStmt{Value: value}, nil
}
