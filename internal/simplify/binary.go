package simplify

import (
	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// simplifyBinary folds constant operands and applies the algebraic
// identities of §4.5, in that order: a folded result never needs the
// identity rewrites, and an identity rewrite can itself unlock folding one
// level up since expr() already visited children bottom-up.
func simplifyBinary(n *hir.Binary) hir.Expr {
	if folded := foldBinary(n); folded != nil {
		return folded
	}
	return identityBinary(n)
}

func foldBinary(n *hir.Binary) hir.Expr {
	if li, lok := n.Left.(*hir.IntConst); lok {
		if ri, rok := n.Right.(*hir.IntConst); rok {
			return foldIntBinary(n.Op, li, ri, n.Typ, n.OperandType)
		}
	}
	if lb, lok := n.Left.(*hir.BoolConst); lok {
		if rb, rok := n.Right.(*hir.BoolConst); rok {
			return foldBoolBinary(n.Op, lb, rb)
		}
	}
	return nil
}

func foldIntBinary(op hir.BinOp, l, r *hir.IntConst, resultType, operandType *types.Type) hir.Expr {
	a, b := l.Value, r.Value
	signed := operandType.IsSigned()
	width := operandType.Width()
	switch op {
	case hir.Add:
		return &hir.IntConst{Value: wrap(a+b, operandType), Typ: resultType}
	case hir.Sub:
		return &hir.IntConst{Value: wrap(a-b, operandType), Typ: resultType}
	case hir.Mul:
		return &hir.IntConst{Value: wrap(a*b, operandType), Typ: resultType}
	case hir.Div:
		if b == 0 {
			return nil // leave the trap for runtime (§4.5, §9)
		}
		if signed {
			as, bs := signExtend(a, width), signExtend(b, width)
			return &hir.IntConst{Value: wrap(uint64(as/bs), operandType), Typ: resultType}
		}
		return &hir.IntConst{Value: wrap(a/b, operandType), Typ: resultType}
	case hir.Rem:
		if b == 0 {
			return nil
		}
		if signed {
			as, bs := signExtend(a, width), signExtend(b, width)
			return &hir.IntConst{Value: wrap(uint64(as%bs), operandType), Typ: resultType}
		}
		return &hir.IntConst{Value: wrap(a%b, operandType), Typ: resultType}
	case hir.And:
		return &hir.IntConst{Value: wrap(a&b, operandType), Typ: resultType}
	case hir.Or:
		return &hir.IntConst{Value: wrap(a|b, operandType), Typ: resultType}
	case hir.Xor:
		return &hir.IntConst{Value: wrap(a^b, operandType), Typ: resultType}
	case hir.Shl:
		return &hir.IntConst{Value: wrap(a<<b, operandType), Typ: resultType}
	case hir.Shr:
		if signed {
			as := signExtend(a, width)
			return &hir.IntConst{Value: wrap(uint64(as>>b), operandType), Typ: resultType}
		}
		return &hir.IntConst{Value: wrap(a>>b, operandType), Typ: resultType}
	case hir.Eq:
		return &hir.BoolConst{Value: a == b}
	case hir.Ne:
		return &hir.BoolConst{Value: a != b}
	case hir.Lt, hir.Le, hir.Gt, hir.Ge:
		return &hir.BoolConst{Value: compareFolded(op, a, b, signed, width)}
	}
	return nil
}

func compareFolded(op hir.BinOp, a, b uint64, signed bool, width int) bool {
	if signed {
		as, bs := signExtend(a, width), signExtend(b, width)
		switch op {
		case hir.Lt:
			return as < bs
		case hir.Le:
			return as <= bs
		case hir.Gt:
			return as > bs
		default:
			return as >= bs
		}
	}
	switch op {
	case hir.Lt:
		return a < b
	case hir.Le:
		return a <= b
	case hir.Gt:
		return a > b
	default:
		return a >= b
	}
}

func signExtend(v uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(v)
	}
	shift := 64 - width
	return int64(v<<shift) >> shift
}

func foldBoolBinary(op hir.BinOp, l, r *hir.BoolConst) hir.Expr {
	switch op {
	case hir.LogicalAnd:
		return &hir.BoolConst{Value: l.Value && r.Value}
	case hir.LogicalOr:
		return &hir.BoolConst{Value: l.Value || r.Value}
	case hir.Eq:
		return &hir.BoolConst{Value: l.Value == r.Value}
	case hir.Ne:
		return &hir.BoolConst{Value: l.Value != r.Value}
	}
	return nil
}

// identityBinary applies the algebraic simplifications of §4.5 that do not
// require both operands to be constants.
func identityBinary(n *hir.Binary) hir.Expr {
	left, right := n.Left, n.Right

	if n.OperandType != nil && n.OperandType.IsInteger() {
		if e := intIdentity(n, left, right); e != nil {
			return e
		}
	}

	switch n.Op {
	case hir.Eq:
		if b, ok := right.(*hir.BoolConst); ok {
			if b.Value {
				return left // e == true -> e
			}
			return negate(left) // e == false -> !e
		}
	case hir.Ne:
		if b, ok := right.(*hir.BoolConst); ok {
			if b.Value {
				return negate(left) // e != true -> !e
			}
			return left // e != false -> e
		}
	case hir.LogicalAnd:
		if b, ok := right.(*hir.BoolConst); ok {
			if b.Value {
				return left // e && true -> e
			}
			if pure(left) {
				return &hir.BoolConst{Value: false} // e && false -> false
			}
		}
	case hir.LogicalOr:
		if b, ok := right.(*hir.BoolConst); ok {
			if !b.Value {
				return left // e || false -> e
			}
			if pure(left) {
				return &hir.BoolConst{Value: true} // e || true -> true
			}
		}
	}

	if sameVar(left, right) {
		switch n.Op {
		case hir.Eq, hir.Le, hir.Ge:
			return &hir.BoolConst{Value: true}
		case hir.Ne, hir.Lt, hir.Gt:
			return &hir.BoolConst{Value: false}
		case hir.Sub:
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		case hir.And, hir.Or:
			return left
		case hir.LogicalAnd, hir.LogicalOr:
			return left
		}
	}

	return n
}

func negate(e hir.Expr) hir.Expr {
	return &hir.Unary{Op: hir.Not, Operand: e, Typ: types.BoolType}
}

// intIdentity applies the integer-specific identities of §4.5 (additive
// and multiplicative identity elements, bitwise identity/annihilator
// elements, and shift-by-zero).
func intIdentity(n *hir.Binary, left, right hir.Expr) hir.Expr {
	rc, rok := right.(*hir.IntConst)
	lc, lok := left.(*hir.IntConst)

	switch n.Op {
	case hir.Add:
		if rok && rc.Value == 0 {
			return left
		}
		if lok && lc.Value == 0 {
			return right
		}
	case hir.Sub:
		if rok && rc.Value == 0 {
			return left
		}
	case hir.Mul:
		if rok && rc.Value == 1 {
			return left
		}
		if lok && lc.Value == 1 {
			return right
		}
		if rok && rc.Value == 0 && pure(left) {
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		}
		if lok && lc.Value == 0 && pure(right) {
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		}
	case hir.Div:
		if rok && rc.Value == 1 {
			return left
		}
	case hir.And:
		if rok && rc.Value == 0 && pure(left) {
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		}
		if lok && lc.Value == 0 && pure(right) {
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		}
		if rok && isAllOnes(rc, n.OperandType) {
			return left
		}
		if lok && isAllOnes(lc, n.OperandType) {
			return right
		}
	case hir.Or:
		if rok && rc.Value == 0 {
			return left
		}
		if lok && lc.Value == 0 {
			return right
		}
		if rok && isAllOnes(rc, n.OperandType) && pure(left) {
			return &hir.IntConst{Value: rc.Value, Typ: n.Typ}
		}
		if lok && isAllOnes(lc, n.OperandType) && pure(right) {
			return &hir.IntConst{Value: lc.Value, Typ: n.Typ}
		}
	case hir.Shl, hir.Shr:
		if rok && rc.Value == 0 {
			return left
		}
		if lok && lc.Value == 0 && pure(right) {
			return &hir.IntConst{Value: 0, Typ: n.Typ}
		}
	}
	return nil
}

func isAllOnes(c *hir.IntConst, typ *types.Type) bool {
	w := typ.Width()
	if w <= 0 || w >= 64 {
		return c.Value == ^uint64(0)
	}
	return c.Value == uint64(1)<<w-1
}
