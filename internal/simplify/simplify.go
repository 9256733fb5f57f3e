// Package simplify runs BP's post-check, pre-emission AST passes (§4.5): a
// bottom-up, type-preserving rewrite of the HIR that folds constant
// expressions and applies algebraic identities. It never changes an
// expression's type and never introduces undefined behaviour — division
// and remainder by a statically-zero divisor are left untouched so the
// runtime trap still occurs where the source implies it should.
//
// Grounded on the teacher's internal/bytecode/optimizer.go (a multi-pass,
// toggleable chunk-rewriter with an explicit pass-enablement table),
// generalized from DWScript's post-codegen bytecode peephole passes to
// BP's pre-codegen HIR tree rewrite.
package simplify

import (
	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// Program rewrites every function body in prog in place and returns it.
func Program(prog *hir.Program) *hir.Program {
	for _, fn := range prog.Functions {
		fn.Body = block(fn.Body)
	}
	return prog
}

func block(b *hir.Block) *hir.Block {
	if b == nil {
		return nil
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = stmt(s)
	}
	if b.Tail != nil {
		b.Tail = expr(b.Tail)
	}
	return b
}

func stmt(s hir.Stmt) hir.Stmt {
	switch n := s.(type) {
	case *hir.LetStmt:
		n.Init = expr(n.Init)
		return n
	case *hir.AssignStmt:
		n.Value = expr(n.Value)
		return n
	case *hir.ReturnStmt:
		if n.Value != nil {
			n.Value = expr(n.Value)
		}
		return n
	case *hir.BreakStmt:
		if n.Value != nil {
			n.Value = expr(n.Value)
		}
		return n
	case *hir.ExprStmt:
		n.Expr = expr(n.Expr)
		return n
	default:
		return s
	}
}

// expr rewrites e bottom-up: children first, then this node.
func expr(e hir.Expr) hir.Expr {
	switch n := e.(type) {
	case *hir.Unary:
		n.Operand = expr(n.Operand)
		return foldUnary(n)
	case *hir.Cast:
		n.Operand = expr(n.Operand)
		return n
	case *hir.Binary:
		n.Left = expr(n.Left)
		n.Right = expr(n.Right)
		return simplifyBinary(n)
	case *hir.Call:
		for i, a := range n.Args {
			n.Args[i] = expr(a)
		}
		return n
	case *hir.ArrayLit:
		for i, el := range n.Elems {
			n.Elems[i] = expr(el)
		}
		return n
	case *hir.Index:
		n.Array = expr(n.Array)
		n.Idx = expr(n.Idx)
		return n
	case *hir.Block:
		return block(n)
	case *hir.If:
		n.Cond = expr(n.Cond)
		n.Then = block(n.Then)
		if n.Else != nil {
			n.Else = block(n.Else)
		}
		return n
	case *hir.Loop:
		n.Body = block(n.Body)
		return n
	case *hir.While:
		n.Cond = expr(n.Cond)
		n.Body = block(n.Body)
		return n
	default:
		return e
	}
}

func foldUnary(n *hir.Unary) hir.Expr {
	switch n.Op {
	case hir.Neg:
		if c, ok := n.Operand.(*hir.IntConst); ok {
			return &hir.IntConst{Value: wrap(-c.Value, n.Typ), Typ: n.Typ}
		}
		if c, ok := n.Operand.(*hir.FloatConst); ok {
			return &hir.FloatConst{Value: -c.Value, Typ: n.Typ}
		}
	case hir.Not:
		if c, ok := n.Operand.(*hir.BoolConst); ok {
			return &hir.BoolConst{Value: !c.Value}
		}
	}
	return n
}

func wrap(v uint64, typ *types.Type) uint64 {
	w := typ.Width()
	if w <= 0 || w >= 64 {
		return v
	}
	return v & (uint64(1)<<w - 1)
}

// pure reports whether e can be evaluated without observable side effects
// (§4.5): variables, parameters, constants, and literals are pure; calls,
// assignments (never expressions so not reachable here), and anything
// containing a block with statements or a loop are not.
func pure(e hir.Expr) bool {
	switch n := e.(type) {
	case *hir.Local, *hir.IntConst, *hir.FloatConst, *hir.BoolConst:
		return true
	case *hir.Unary:
		return pure(n.Operand)
	case *hir.Cast:
		return pure(n.Operand)
	case *hir.Binary:
		return pure(n.Left) && pure(n.Right)
	case *hir.Index:
		return pure(n.Array) && pure(n.Idx)
	case *hir.Block:
		return len(n.Stmts) == 0 && (n.Tail == nil || pure(n.Tail))
	default:
		return false
	}
}

// sameVar reports whether a and b are the same pure, repeatable reference
// (a local or a constant value) — used for the `x == x`-style identities,
// which must not fire for two merely-equal-looking but independently
// effectful expressions.
func sameVar(a, b hir.Expr) bool {
	al, aok := a.(*hir.Local)
	bl, bok := b.(*hir.Local)
	if aok && bok {
		return al.Slot == bl.Slot
	}
	ai, aok2 := a.(*hir.IntConst)
	bi, bok2 := b.(*hir.IntConst)
	if aok2 && bok2 {
		return ai.Value == bi.Value && types.Equal(ai.Typ, bi.Typ)
	}
	ab, aok3 := a.(*hir.BoolConst)
	bb, bok3 := b.(*hir.BoolConst)
	if aok3 && bok3 {
		return ab.Value == bb.Value
	}
	return false
}
