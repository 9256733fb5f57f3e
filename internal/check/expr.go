package check

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// checkExpr type-checks e, lowering it to an HIR expression. expected is the
// type the surrounding context demands (for literal context-typing, §4.4);
// it may be nil when there is no such demand.
func (c *Checker) checkExpr(b *bodyCtx, e ast.Expr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		typ := intLiteralType(n.Suffix, expected)
		if !fitsIntLiteral(n.Value, typ) {
			return nil, diag.New(diag.TypeError, n.Span_, "integer literal %d does not fit %s", n.Value, typ)
		}
		return &hir.IntConst{Value: n.Value, Typ: typ}, nil

	case *ast.FloatLiteral:
		typ := floatLiteralType(n.Suffix, expected)
		return &hir.FloatConst{Value: n.Value, Typ: typ}, nil

	case *ast.BoolLiteral:
		return &hir.BoolConst{Value: n.Value}, nil

	case *ast.CharLiteral:
		return &hir.IntConst{Value: uint64(uint32(n.Value)), Typ: types.I32Type}, nil

	case *ast.StringLiteral:
		elems := make([]hir.Expr, len(n.Value))
		for i, byt := range n.Value {
			elems[i] = &hir.IntConst{Value: uint64(byt), Typ: types.U8Type}
		}
		return &hir.ArrayLit{Elems: elems, Typ: types.ArrayOf(types.U8Type, uint32(len(n.Value)))}, nil

	case *ast.Identifier:
		if lv, ok := b.lookup(n.Name); ok {
			return &hir.Local{Slot: lv.Slot, Typ: lv.Typ}, nil
		}
		if cv, ok := c.consts[n.Name]; ok {
			return constToHIR(cv), nil
		}
		return nil, diag.New(diag.TypeError, n.Span_, "unknown name %q", n.Name)

	case *ast.GroupExpr:
		return c.checkExpr(b, n.Inner, expected)

	case *ast.UnaryExpr:
		return c.checkUnary(b, n, expected)

	case *ast.CastExpr:
		return c.checkCast(b, n)

	case *ast.BinaryExpr:
		return c.checkBinary(b, n, expected)

	case *ast.CallExpr:
		return c.checkCall(b, n)

	case *ast.BlockExpr:
		blk, err := c.checkBlock(b, n, expected)
		if err != nil {
			return nil, err
		}
		return blk, nil

	case *ast.IfExpr:
		return c.checkIf(b, n, expected)

	case *ast.LoopExpr:
		return c.checkLoop(b, n)

	case *ast.WhileExpr:
		return c.checkWhile(b, n)

	case *ast.ArrayRepeatExpr:
		return c.checkArrayRepeat(b, n, expected)

	case *ast.ArrayListExpr:
		return c.checkArrayList(b, n, expected)

	case *ast.IndexExpr:
		return c.checkIndex(b, n)

	default:
		return nil, diag.New(diag.TypeError, e.Pos(), "unsupported expression")
	}
}

func constToHIR(cv *constVal) hir.Expr {
	switch {
	case cv.Typ.Kind == types.Bool:
		return &hir.BoolConst{Value: cv.BoolVal}
	case cv.Typ.IsFloat():
		return &hir.FloatConst{Value: cv.FloatVal, Typ: cv.Typ}
	default:
		return &hir.IntConst{Value: cv.IntVal, Typ: cv.Typ}
	}
}

func (c *Checker) checkUnary(b *bodyCtx, n *ast.UnaryExpr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	switch n.Op {
	case "-":
		operand, err := c.checkExpr(b, n.Operand, expected)
		if err != nil {
			return nil, err
		}
		if !operand.Type().IsNumeric() {
			return nil, diag.New(diag.TypeError, n.Span_, "unary - requires a numeric operand, found %s", operand.Type())
		}
		return &hir.Unary{Op: hir.Neg, Operand: operand, Typ: operand.Type()}, nil
	case "!":
		operand, err := c.checkExpr(b, n.Operand, types.BoolType)
		if err != nil {
			return nil, err
		}
		if operand.Type().Kind != types.Bool {
			return nil, diag.New(diag.TypeError, n.Span_, "unary ! requires a bool operand, found %s", operand.Type())
		}
		return &hir.Unary{Op: hir.Not, Operand: operand, Typ: types.BoolType}, nil
	default:
		return nil, diag.New(diag.TypeError, n.Span_, "unknown unary operator %q", n.Op)
	}
}

func (c *Checker) checkCast(b *bodyCtx, n *ast.CastExpr) (hir.Expr, *diag.Diagnostic) {
	operand, err := c.checkExpr(b, n.Operand, nil)
	if err != nil {
		return nil, err
	}
	target, err := c.resolveTypeExpr(n.Type)
	if err != nil {
		return nil, err
	}
	from := operand.Type()
	kind, ok := castKind(from, target)
	if !ok {
		return nil, diag.New(diag.TypeError, n.Span_, "cannot cast %s to %s", from, target)
	}
	return &hir.Cast{Operand: operand, Kind: kind, Typ: target}, nil
}

// castKind classifies a cast per §4.4/§4.6: integer<->integer (narrow or
// sign/zero-extend), integer<->float conversions, float<->float, and
// same-type no-ops.
func castKind(from, target *types.Type) (hir.CastKind, bool) {
	if types.Equal(from, target) {
		return hir.CastNoop, true
	}
	switch {
	case from.IsInteger() && target.IsInteger():
		if target.Width() < from.Width() {
			return hir.CastNarrow, true
		}
		if from.IsSigned() {
			return hir.CastSignExtend, true
		}
		return hir.CastZeroExtend, true
	case from.IsInteger() && target.IsFloat():
		return hir.CastIntToFloat, true
	case from.IsFloat() && target.IsInteger():
		return hir.CastFloatToInt, true
	case from.IsFloat() && target.IsFloat():
		return hir.CastFloatToFloat, true
	}
	return hir.CastNoop, false
}

func (c *Checker) checkBinary(b *bodyCtx, n *ast.BinaryExpr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	if n.Op == "&&" || n.Op == "||" {
		left, err := c.checkExpr(b, n.Left, types.BoolType)
		if err != nil {
			return nil, err
		}
		if left.Type().Kind != types.Bool {
			return nil, diag.New(diag.TypeError, n.Span_, "%q requires bool operands", n.Op)
		}
		right, err := c.checkExpr(b, n.Right, types.BoolType)
		if err != nil {
			return nil, err
		}
		if right.Type().Kind != types.Bool {
			return nil, diag.New(diag.TypeError, n.Span_, "%q requires bool operands", n.Op)
		}
		op := hir.LogicalAnd
		if n.Op == "||" {
			op = hir.LogicalOr
		}
		return &hir.Binary{Op: op, Left: left, Right: right, OperandType: types.BoolType, Typ: types.BoolType}, nil
	}

	var leftExpected *types.Type
	if isArithmeticOp(n.Op) {
		leftExpected = expected
	}
	left, err := c.checkExpr(b, n.Left, leftExpected)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpr(b, n.Right, left.Type())
	if err != nil {
		return nil, err
	}

	opKind, resultType, err2 := classifyBinary(n.Op, left.Type(), right.Type(), n)
	if err2 != nil {
		return nil, err2
	}
	return &hir.Binary{Op: opKind, Left: left, Right: right, OperandType: left.Type(), Typ: resultType}, nil
}

func isArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		return true
	}
	return false
}

func classifyBinary(op string, lt, rt *types.Type, n *ast.BinaryExpr) (hir.BinOp, *types.Type, *diag.Diagnostic) {
	switch op {
	case "+", "-", "*", "/":
		if !lt.IsNumeric() || !types.Equal(lt, rt) {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "%q requires two operands of the same numeric type, found %s and %s", op, lt, rt)
		}
		return arithOpKind(op), lt, nil
	case "%":
		if !lt.IsInteger() || !types.Equal(lt, rt) {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "%% requires two operands of the same integer type, found %s and %s", lt, rt)
		}
		return hir.Rem, lt, nil
	case "&", "|", "^", "<<", ">>":
		if !lt.IsInteger() || !types.Equal(lt, rt) {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "%q requires two operands of the same integer type, found %s and %s", op, lt, rt)
		}
		return bitwiseOpKind(op), lt, nil
	case "==", "!=":
		if !types.Equal(lt, rt) {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "%q requires operands of the same type, found %s and %s", op, lt, rt)
		}
		if lt.Kind == types.Array {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "array equality is not supported")
		}
		if lt.Kind == types.Unit {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "cannot compare unit values")
		}
		return eqOpKind(op), types.BoolType, nil
	case "<", "<=", ">", ">=":
		if !lt.IsNumeric() || !types.Equal(lt, rt) {
			return 0, nil, diag.New(diag.TypeError, n.Span_, "%q requires two operands of the same numeric type, found %s and %s", op, lt, rt)
		}
		return ordOpKind(op), types.BoolType, nil
	}
	return 0, nil, diag.New(diag.TypeError, n.Span_, "unknown operator %q", op)
}

func arithOpKind(op string) hir.BinOp {
	switch op {
	case "+":
		return hir.Add
	case "-":
		return hir.Sub
	case "*":
		return hir.Mul
	default:
		return hir.Div
	}
}

func bitwiseOpKind(op string) hir.BinOp {
	switch op {
	case "&":
		return hir.And
	case "|":
		return hir.Or
	case "^":
		return hir.Xor
	case "<<":
		return hir.Shl
	default:
		return hir.Shr
	}
}

func eqOpKind(op string) hir.BinOp {
	if op == "==" {
		return hir.Eq
	}
	return hir.Ne
}

func ordOpKind(op string) hir.BinOp {
	switch op {
	case "<":
		return hir.Lt
	case "<=":
		return hir.Le
	case ">":
		return hir.Gt
	default:
		return hir.Ge
	}
}

func (c *Checker) checkCall(b *bodyCtx, n *ast.CallExpr) (hir.Expr, *diag.Diagnostic) {
	sig, ok := c.funcs[n.Callee]
	if !ok {
		return nil, diag.New(diag.TypeError, n.CalleeSpan, "unknown function %q", n.Callee)
	}

	if sig.Intrinsic == "len" {
		if len(n.Args) != 1 {
			return nil, diag.New(diag.TypeError, n.Span_, "len expects exactly 1 argument, found %d", len(n.Args))
		}
		arg, err := c.checkExpr(b, n.Args[0], nil)
		if err != nil {
			return nil, err
		}
		if arg.Type().Kind != types.Array {
			return nil, diag.New(diag.TypeError, n.Args[0].Pos(), "len expects an array argument, found %s", arg.Type())
		}
		return &hir.Call{Intrinsic: "len", Args: []hir.Expr{arg}, Typ: types.I32Type}, nil
	}

	if len(n.Args) != len(sig.Params) {
		return nil, diag.New(diag.TypeError, n.Span_, "%q expects %d argument(s), found %d", n.Callee, len(sig.Params), len(n.Args))
	}
	args := make([]hir.Expr, len(n.Args))
	for i, a := range n.Args {
		checked, err := c.checkExpr(b, a, sig.Params[i])
		if err != nil {
			return nil, err
		}
		if !types.Equal(checked.Type(), sig.Params[i]) {
			return nil, diag.New(diag.TypeError, a.Pos(), "argument %d of %q: expected %s, found %s", i, n.Callee, sig.Params[i], checked.Type())
		}
		args[i] = checked
	}
	return &hir.Call{FuncIndex: sig.Index, Intrinsic: sig.Intrinsic, Args: args, Typ: sig.Ret}, nil
}

func (c *Checker) checkIf(b *bodyCtx, n *ast.IfExpr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	cond, err := c.checkExpr(b, n.Cond, types.BoolType)
	if err != nil {
		return nil, err
	}
	if cond.Type().Kind != types.Bool {
		return nil, diag.New(diag.TypeError, n.Cond.Pos(), "if condition must be bool, found %s", cond.Type())
	}

	if n.Else == nil {
		then, err := c.checkBlock(b, n.Then, types.UnitType)
		if err != nil {
			return nil, err
		}
		if then.Typ.Kind != types.Unit {
			return nil, diag.New(diag.TypeError, n.Then.Span_, "if without else must have unit type, found %s", then.Typ)
		}
		return &hir.If{Cond: cond, Then: then, Else: nil, Typ: types.UnitType}, nil
	}

	then, err := c.checkBlock(b, n.Then, expected)
	if err != nil {
		return nil, err
	}

	var elseBlock *hir.Block
	switch e := n.Else.(type) {
	case *ast.BlockExpr:
		elseBlock, err = c.checkBlock(b, e, then.Typ)
	case *ast.IfExpr:
		var elseExpr hir.Expr
		elseExpr, err = c.checkIf(b, e, then.Typ)
		if err == nil {
			elseBlock = &hir.Block{Tail: elseExpr, Typ: elseExpr.Type()}
		}
	default:
		return nil, diag.New(diag.TypeError, n.Span_, "unsupported else clause")
	}
	if err != nil {
		return nil, err
	}
	if !types.Equal(then.Typ, elseBlock.Typ) {
		return nil, diag.New(diag.TypeError, n.Span_, "if/else branches have different types: %s vs %s", then.Typ, elseBlock.Typ)
	}
	return &hir.If{Cond: cond, Then: then, Else: elseBlock, Typ: then.Typ}, nil
}

func (c *Checker) checkLoop(b *bodyCtx, n *ast.LoopExpr) (hir.Expr, *diag.Diagnostic) {
	lc := b.pushLoop(false)
	body, err := c.checkBlock(b, n.Body, types.UnitType)
	b.popLoop()
	if err != nil {
		return nil, err
	}
	if body.Typ.Kind != types.Unit {
		return nil, diag.New(diag.TypeError, n.Body.Span_, "loop body must have unit type, found %s", body.Typ)
	}

	loopTyp := types.UnitType
	resultSlot := -1
	if lc.breakTypeIsSet {
		loopTyp = lc.breakType
		lv := b.declare("", loopTyp, true)
		resultSlot = lv.Slot
	}
	return &hir.Loop{Body: body, BreakValueType: lc.breakType, ResultSlot: resultSlot, Typ: loopTyp}, nil
}

func (c *Checker) checkWhile(b *bodyCtx, n *ast.WhileExpr) (hir.Expr, *diag.Diagnostic) {
	cond, err := c.checkExpr(b, n.Cond, types.BoolType)
	if err != nil {
		return nil, err
	}
	if cond.Type().Kind != types.Bool {
		return nil, diag.New(diag.TypeError, n.Cond.Pos(), "while condition must be bool, found %s", cond.Type())
	}
	b.pushLoop(true)
	body, err := c.checkBlock(b, n.Body, types.UnitType)
	b.popLoop()
	if err != nil {
		return nil, err
	}
	if body.Typ.Kind != types.Unit {
		return nil, diag.New(diag.TypeError, n.Body.Span_, "while body must have unit type, found %s", body.Typ)
	}
	return &hir.While{Cond: cond, Body: body}, nil
}

func (c *Checker) checkArrayRepeat(b *bodyCtx, n *ast.ArrayRepeatExpr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	var elemExpected *types.Type
	if expected != nil && expected.Kind == types.Array {
		elemExpected = expected.Elem
	}
	elem, err := c.checkExpr(b, n.Elem, elemExpected)
	if err != nil {
		return nil, err
	}
	lenVal, cerr := c.evalConst(n.Len, types.I32Type)
	if cerr != nil {
		return nil, cerr
	}
	if !lenVal.Typ.IsInteger() {
		return nil, diag.New(diag.TypeError, n.Len.Pos(), "array repeat length must be an integer constant")
	}
	return &hir.ArrayLit{
		Elems:  []hir.Expr{elem},
		Repeat: true,
		Typ:    types.ArrayOf(elem.Type(), uint32(lenVal.IntVal)),
	}, nil
}

func (c *Checker) checkArrayList(b *bodyCtx, n *ast.ArrayListExpr, expected *types.Type) (hir.Expr, *diag.Diagnostic) {
	var elemExpected *types.Type
	if expected != nil && expected.Kind == types.Array {
		elemExpected = expected.Elem
	}
	elems := make([]hir.Expr, len(n.Elems))
	var elemType *types.Type
	for i, e := range n.Elems {
		checked, err := c.checkExpr(b, e, elemExpected)
		if err != nil {
			return nil, err
		}
		if elemType == nil {
			elemType = checked.Type()
			if elemExpected == nil {
				elemExpected = elemType
			}
		} else if !types.Equal(elemType, checked.Type()) {
			return nil, diag.New(diag.TypeError, e.Pos(), "array element type mismatch: expected %s, found %s", elemType, checked.Type())
		}
		elems[i] = checked
	}
	if elemType == nil {
		if elemExpected == nil {
			return nil, diag.New(diag.TypeError, n.Span_, "cannot infer type of empty array literal")
		}
		elemType = elemExpected
	}
	return &hir.ArrayLit{Elems: elems, Typ: types.ArrayOf(elemType, uint32(len(elems)))}, nil
}

func (c *Checker) checkIndex(b *bodyCtx, n *ast.IndexExpr) (hir.Expr, *diag.Diagnostic) {
	arr, err := c.checkExpr(b, n.Array, nil)
	if err != nil {
		return nil, err
	}
	if arr.Type().Kind != types.Array {
		return nil, diag.New(diag.TypeError, n.Array.Pos(), "cannot index non-array type %s", arr.Type())
	}
	idx, err := c.checkExpr(b, n.Index, types.I32Type)
	if err != nil {
		return nil, err
	}
	if idx.Type().Kind != types.I32 {
		return nil, diag.New(diag.TypeError, n.Index.Pos(), "array index must be i32, found %s", idx.Type())
	}
	return &hir.Index{Array: arr, Idx: idx, Typ: arr.Type().Elem}, nil
}
