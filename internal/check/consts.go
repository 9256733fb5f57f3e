package check

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/token"
	"github.com/bpc-lang/bpc/internal/types"
)

// evalConst evaluates a constant-expression AST node (§4.4 constant
// initializers): literals, references to earlier constants, unary -/!, and
// binary operators over already-evaluated constants. expected is the
// const's declared type, if any, used the same way literal context-typing
// works in body checking.
func (c *Checker) evalConst(e ast.Expr, expected *types.Type) (*constVal, *diag.Diagnostic) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		typ := intLiteralType(n.Suffix, expected)
		if !fitsIntLiteral(n.Value, typ) {
			return nil, diag.New(diag.TypeError, n.Span_, "integer literal %d does not fit %s", n.Value, typ)
		}
		return &constVal{Typ: typ, IntVal: n.Value}, nil

	case *ast.FloatLiteral:
		typ := floatLiteralType(n.Suffix, expected)
		return &constVal{Typ: typ, FloatVal: n.Value}, nil

	case *ast.BoolLiteral:
		return &constVal{Typ: types.BoolType, BoolVal: n.Value}, nil

	case *ast.CharLiteral:
		return &constVal{Typ: types.I32Type, IntVal: uint64(uint32(n.Value))}, nil

	case *ast.Identifier:
		if v, ok := c.consts[n.Name]; ok {
			return v, nil
		}
		if _, pending := c.constExprs[n.Name]; pending {
			return nil, diag.New(diag.TypeError, n.Span_, "constant %q used before its definition", n.Name)
		}
		return nil, diag.New(diag.TypeError, n.Span_, "unknown constant %q", n.Name)

	case *ast.GroupExpr:
		return c.evalConst(n.Inner, expected)

	case *ast.UnaryExpr:
		operand, err := c.evalConst(n.Operand, expected)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "-":
			if operand.Typ.IsFloat() {
				return &constVal{Typ: operand.Typ, FloatVal: -operand.FloatVal}, nil
			}
			if !operand.Typ.IsInteger() {
				return nil, diag.New(diag.TypeError, n.Span_, "unary - requires a numeric operand")
			}
			return &constVal{Typ: operand.Typ, IntVal: wrapInt(-operand.IntVal, operand.Typ)}, nil
		case "!":
			if operand.Typ.Kind != types.Bool {
				return nil, diag.New(diag.TypeError, n.Span_, "unary ! requires a bool operand")
			}
			return &constVal{Typ: types.BoolType, BoolVal: !operand.BoolVal}, nil
		}
		return nil, diag.New(diag.TypeError, n.Span_, "unsupported unary operator %q in constant expression", n.Op)

	case *ast.CastExpr:
		operand, err := c.evalConst(n.Operand, nil)
		if err != nil {
			return nil, err
		}
		target, err := c.resolveTypeExpr(n.Type)
		if err != nil {
			return nil, err
		}
		return castConst(operand, target), nil

	case *ast.BinaryExpr:
		left, err := c.evalConst(n.Left, expected)
		if err != nil {
			return nil, err
		}
		right, err := c.evalConst(n.Right, left.Typ)
		if err != nil {
			return nil, err
		}
		return evalConstBinary(n.Op, left, right, n)

	default:
		return nil, diag.New(diag.TypeError, e.Pos(), "expression is not a compile-time constant")
	}
}

func intLiteralType(suffix token.IntSuffix, expected *types.Type) *types.Type {
	switch suffix {
	case token.I8:
		return types.I8Type
	case token.I16:
		return types.I16Type
	case token.I32:
		return types.I32Type
	case token.I64:
		return types.I64Type
	case token.U8:
		return types.U8Type
	case token.U16:
		return types.U16Type
	case token.U32:
		return types.U32Type
	case token.U64:
		return types.U64Type
	}
	if expected != nil && expected.IsInteger() {
		return expected
	}
	return types.I32Type
}

func floatLiteralType(suffix token.FloatSuffix, expected *types.Type) *types.Type {
	switch suffix {
	case token.F32:
		return types.F32Type
	case token.F64:
		return types.F64Type
	}
	if expected != nil && expected.IsFloat() {
		return expected
	}
	return types.F32Type
}

func fitsIntLiteral(v uint64, typ *types.Type) bool {
	if typ.IsSigned() {
		return types.FitsSigned(v, typ.Width())
	}
	return types.FitsUnsigned(v, typ.Width())
}

func wrapInt(v uint64, typ *types.Type) uint64 {
	w := typ.Width()
	if w >= 64 {
		return v
	}
	mask := uint64(1)<<w - 1
	return v & mask
}

func castConst(v *constVal, target *types.Type) *constVal {
	if target.IsFloat() {
		if v.Typ.IsFloat() {
			return &constVal{Typ: target, FloatVal: v.FloatVal}
		}
		return &constVal{Typ: target, FloatVal: float64(v.IntVal)}
	}
	if v.Typ.IsFloat() {
		return &constVal{Typ: target, IntVal: wrapInt(uint64(int64(v.FloatVal)), target)}
	}
	return &constVal{Typ: target, IntVal: wrapInt(v.IntVal, target)}
}

func evalConstBinary(op string, left, right *constVal, n *ast.BinaryExpr) (*constVal, *diag.Diagnostic) {
	if left.Typ.IsFloat() && right.Typ.IsFloat() {
		return evalConstFloatBinary(op, left, right, n)
	}
	if left.Typ.IsInteger() && right.Typ.IsInteger() {
		return evalConstIntBinary(op, left, right, n)
	}
	if left.Typ.Kind == types.Bool && right.Typ.Kind == types.Bool {
		return evalConstBoolBinary(op, left, right, n)
	}
	return nil, diag.New(diag.TypeError, n.Span_, "mismatched operand types in constant expression")
}

func evalConstIntBinary(op string, left, right *constVal, n *ast.BinaryExpr) (*constVal, *diag.Diagnostic) {
	typ := left.Typ
	a, b := left.IntVal, right.IntVal
	switch op {
	case "+":
		return &constVal{Typ: typ, IntVal: wrapInt(a+b, typ)}, nil
	case "-":
		return &constVal{Typ: typ, IntVal: wrapInt(a-b, typ)}, nil
	case "*":
		return &constVal{Typ: typ, IntVal: wrapInt(a*b, typ)}, nil
	case "/":
		if b == 0 {
			return nil, diag.New(diag.TypeError, n.Span_, "division by zero in constant expression")
		}
		return &constVal{Typ: typ, IntVal: wrapInt(a/b, typ)}, nil
	case "%":
		if b == 0 {
			return nil, diag.New(diag.TypeError, n.Span_, "division by zero in constant expression")
		}
		return &constVal{Typ: typ, IntVal: wrapInt(a%b, typ)}, nil
	case "&":
		return &constVal{Typ: typ, IntVal: wrapInt(a&b, typ)}, nil
	case "|":
		return &constVal{Typ: typ, IntVal: wrapInt(a|b, typ)}, nil
	case "^":
		return &constVal{Typ: typ, IntVal: wrapInt(a^b, typ)}, nil
	case "<<":
		return &constVal{Typ: typ, IntVal: wrapInt(a<<b, typ)}, nil
	case ">>":
		return &constVal{Typ: typ, IntVal: wrapInt(a>>b, typ)}, nil
	case "==":
		return &constVal{Typ: types.BoolType, BoolVal: a == b}, nil
	case "!=":
		return &constVal{Typ: types.BoolType, BoolVal: a != b}, nil
	case "<", "<=", ">", ">=":
		return &constVal{Typ: types.BoolType, BoolVal: compareInt(op, a, b, typ.IsSigned(), typ.Width())}, nil
	}
	return nil, diag.New(diag.TypeError, n.Span_, "unsupported operator %q in constant expression", op)
}

func compareInt(op string, a, b uint64, signed bool, width int) bool {
	if signed {
		as, bs := signExtend(a, width), signExtend(b, width)
		switch op {
		case "<":
			return as < bs
		case "<=":
			return as <= bs
		case ">":
			return as > bs
		case ">=":
			return as >= bs
		}
	}
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func signExtend(v uint64, width int) int64 {
	if width >= 64 {
		return int64(v)
	}
	shift := 64 - width
	return int64(v<<shift) >> shift
}

func evalConstFloatBinary(op string, left, right *constVal, n *ast.BinaryExpr) (*constVal, *diag.Diagnostic) {
	a, b := left.FloatVal, right.FloatVal
	switch op {
	case "+":
		return &constVal{Typ: left.Typ, FloatVal: a + b}, nil
	case "-":
		return &constVal{Typ: left.Typ, FloatVal: a - b}, nil
	case "*":
		return &constVal{Typ: left.Typ, FloatVal: a * b}, nil
	case "/":
		return &constVal{Typ: left.Typ, FloatVal: a / b}, nil
	case "==":
		return &constVal{Typ: types.BoolType, BoolVal: a == b}, nil
	case "!=":
		return &constVal{Typ: types.BoolType, BoolVal: a != b}, nil
	case "<":
		return &constVal{Typ: types.BoolType, BoolVal: a < b}, nil
	case "<=":
		return &constVal{Typ: types.BoolType, BoolVal: a <= b}, nil
	case ">":
		return &constVal{Typ: types.BoolType, BoolVal: a > b}, nil
	case ">=":
		return &constVal{Typ: types.BoolType, BoolVal: a >= b}, nil
	}
	return nil, diag.New(diag.TypeError, n.Span_, "unsupported operator %q in constant expression", op)
}

func evalConstBoolBinary(op string, left, right *constVal, n *ast.BinaryExpr) (*constVal, *diag.Diagnostic) {
	switch op {
	case "&&":
		return &constVal{Typ: types.BoolType, BoolVal: left.BoolVal && right.BoolVal}, nil
	case "||":
		return &constVal{Typ: types.BoolType, BoolVal: left.BoolVal || right.BoolVal}, nil
	case "==":
		return &constVal{Typ: types.BoolType, BoolVal: left.BoolVal == right.BoolVal}, nil
	case "!=":
		return &constVal{Typ: types.BoolType, BoolVal: left.BoolVal != right.BoolVal}, nil
	}
	return nil, diag.New(diag.TypeError, n.Span_, "unsupported operator %q in constant expression", op)
}
