package wasm

import (
	"bytes"
	"fmt"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

func is64(t *types.Type) bool { return t.Kind == types.I64 || t.Kind == types.U64 }

func (fe *funcEmitter) cast(n *hir.Cast) error {
	if err := fe.expr(n.Operand); err != nil {
		return err
	}
	from := n.Operand.Type()
	switch n.Kind {
	case hir.CastNoop:
		return nil
	case hir.CastSignExtend:
		switch from.Width() {
		case 8:
			fe.buf.WriteByte(opI32Extend8S)
		case 16:
			fe.buf.WriteByte(opI32Extend16S)
		}
		if is64(n.Typ) && !is64(from) {
			fe.buf.WriteByte(opI64ExtendI32S)
		}
		return nil
	case hir.CastZeroExtend:
		if is64(n.Typ) && !is64(from) {
			fe.buf.WriteByte(opI64ExtendI32U)
		}
		return nil
	case hir.CastNarrow:
		return fe.castNarrow(n, from)
	case hir.CastIntToFloat:
		return fe.castIntToFloat(n, from)
	case hir.CastFloatToInt:
		return fe.castFloatToInt(n, from)
	case hir.CastFloatToFloat:
		if n.Typ.Kind == types.F64 {
			fe.buf.WriteByte(opF64PromoteF32)
		} else {
			fe.buf.WriteByte(opF32DemoteF64)
		}
		return nil
	}
	return fmt.Errorf("wasm: unhandled cast kind %v", n.Kind)
}

func (fe *funcEmitter) castNarrow(n *hir.Cast, from *types.Type) error {
	if is64(from) && !is64(n.Typ) {
		fe.buf.WriteByte(opI32WrapI64)
	}
	w := n.Typ.Width()
	if w >= 32 {
		return nil
	}
	if n.Typ.IsSigned() {
		if w == 8 {
			fe.buf.WriteByte(opI32Extend8S)
		} else {
			fe.buf.WriteByte(opI32Extend16S)
		}
		return nil
	}
	fe.buf.WriteByte(opI32Const)
	mask := int64(1)<<uint(w) - 1
	writeSLEB128(fe.buf, mask)
	fe.buf.WriteByte(opI32And)
	return nil
}

func (fe *funcEmitter) castIntToFloat(n *hir.Cast, from *types.Type) error {
	signed := from.IsSigned()
	toF64 := n.Typ.Kind == types.F64
	switch {
	case !is64(from) && !toF64 && signed:
		fe.buf.WriteByte(opF32ConvertI32S)
	case !is64(from) && !toF64 && !signed:
		fe.buf.WriteByte(opF32ConvertI32U)
	case !is64(from) && toF64 && signed:
		fe.buf.WriteByte(opF64ConvertI32S)
	case !is64(from) && toF64 && !signed:
		fe.buf.WriteByte(opF64ConvertI32U)
	case is64(from) && !toF64 && signed:
		fe.buf.WriteByte(opF32ConvertI64S)
	case is64(from) && !toF64 && !signed:
		fe.buf.WriteByte(opF32ConvertI64U)
	case is64(from) && toF64 && signed:
		fe.buf.WriteByte(opF64ConvertI64S)
	default:
		fe.buf.WriteByte(opF64ConvertI64U)
	}
	return nil
}

func (fe *funcEmitter) castFloatToInt(n *hir.Cast, from *types.Type) error {
	f64src := from.Kind == types.F64
	toI64 := is64(n.Typ)
	signed := n.Typ.IsSigned()
	switch {
	case !f64src && !toI64 && signed:
		fe.buf.WriteByte(opI32TruncF32S)
	case !f64src && !toI64 && !signed:
		fe.buf.WriteByte(opI32TruncF32U)
	case !f64src && toI64 && signed:
		fe.buf.WriteByte(opI64TruncF32S)
	case !f64src && toI64 && !signed:
		fe.buf.WriteByte(opI64TruncF32U)
	case f64src && !toI64 && signed:
		fe.buf.WriteByte(opI32TruncF64S)
	case f64src && !toI64 && !signed:
		fe.buf.WriteByte(opI32TruncF64U)
	case f64src && toI64 && signed:
		fe.buf.WriteByte(opI64TruncF64S)
	default:
		fe.buf.WriteByte(opI64TruncF64U)
	}
	if !toI64 && n.Typ.Width() < 32 {
		if n.Typ.IsSigned() {
			if n.Typ.Width() == 8 {
				fe.buf.WriteByte(opI32Extend8S)
			} else {
				fe.buf.WriteByte(opI32Extend16S)
			}
		} else {
			fe.buf.WriteByte(opI32Const)
			writeSLEB128(fe.buf, int64(1)<<uint(n.Typ.Width())-1)
			fe.buf.WriteByte(opI32And)
		}
	}
	return nil
}

func (fe *funcEmitter) binary(n *hir.Binary) error {
	if n.Op == hir.LogicalAnd || n.Op == hir.LogicalOr {
		return fe.shortCircuit(n)
	}
	if err := fe.expr(n.Left); err != nil {
		return err
	}
	if err := fe.expr(n.Right); err != nil {
		return err
	}
	t := n.OperandType
	signed := t.IsSigned()
	f64 := t.Kind == types.F64
	f32 := t.Kind == types.F32
	w64 := is64(t)

	op := byte(0)
	switch n.Op {
	case hir.Add:
		op = pick(w64, f32, f64, opI32Add, opI64Add, opF32Add, opF64Add)
	case hir.Sub:
		op = pick(w64, f32, f64, opI32Sub, opI64Sub, opF32Sub, opF64Sub)
	case hir.Mul:
		op = pick(w64, f32, f64, opI32Mul, opI64Mul, opF32Mul, opF64Mul)
	case hir.Div:
		if f32 {
			op = opF32Div
		} else if f64 {
			op = opF64Div
		} else if w64 {
			op = pickSigned(signed, opI64DivS, opI64DivU)
		} else {
			op = pickSigned(signed, opI32DivS, opI32DivU)
		}
	case hir.Rem:
		if w64 {
			op = pickSigned(signed, opI64RemS, opI64RemU)
		} else {
			op = pickSigned(signed, opI32RemS, opI32RemU)
		}
	case hir.And:
		op = pick(w64, false, false, opI32And, opI64And, 0, 0)
	case hir.Or:
		op = pick(w64, false, false, opI32Or, opI64Or, 0, 0)
	case hir.Xor:
		op = pick(w64, false, false, opI32Xor, opI64Xor, 0, 0)
	case hir.Shl:
		op = pick(w64, false, false, opI32Shl, opI64Shl, 0, 0)
	case hir.Shr:
		if w64 {
			op = pickSigned(signed, opI64ShrS, opI64ShrU)
		} else {
			op = pickSigned(signed, opI32ShrS, opI32ShrU)
		}
	case hir.Eq, hir.Ne, hir.Lt, hir.Le, hir.Gt, hir.Ge:
		op = compareOp(n.Op, t, signed, f32, f64, w64)
	default:
		return fmt.Errorf("wasm: unhandled binary op %v", n.Op)
	}
	fe.buf.WriteByte(op)
	return nil
}

func pick(w64, f32, f64 bool, i32op, i64op, f32op, f64op byte) byte {
	switch {
	case f32:
		return f32op
	case f64:
		return f64op
	case w64:
		return i64op
	default:
		return i32op
	}
}

func pickSigned(signed bool, s, u byte) byte {
	if signed {
		return s
	}
	return u
}

func compareOp(op hir.BinOp, t *types.Type, signed, f32, f64, w64 bool) byte {
	if f32 {
		switch op {
		case hir.Eq:
			return opF32Eq
		case hir.Ne:
			return opF32Ne
		case hir.Lt:
			return opF32Lt
		case hir.Le:
			return opF32Le
		case hir.Gt:
			return opF32Gt
		default:
			return opF32Ge
		}
	}
	if f64 {
		switch op {
		case hir.Eq:
			return opF64Eq
		case hir.Ne:
			return opF64Ne
		case hir.Lt:
			return opF64Lt
		case hir.Le:
			return opF64Le
		case hir.Gt:
			return opF64Gt
		default:
			return opF64Ge
		}
	}
	if t.Kind == types.Bool {
		if op == hir.Eq {
			return opI32Eq
		}
		return opI32Ne
	}
	if w64 {
		switch op {
		case hir.Eq:
			return opI64Eq
		case hir.Ne:
			return opI64Ne
		case hir.Lt:
			return pickSigned(signed, opI64LtS, opI64LtU)
		case hir.Le:
			return pickSigned(signed, opI64LeS, opI64LeU)
		case hir.Gt:
			return pickSigned(signed, opI64GtS, opI64GtU)
		default:
			return pickSigned(signed, opI64GeS, opI64GeU)
		}
	}
	switch op {
	case hir.Eq:
		return opI32Eq
	case hir.Ne:
		return opI32Ne
	case hir.Lt:
		return pickSigned(signed, opI32LtS, opI32LtU)
	case hir.Le:
		return pickSigned(signed, opI32LeS, opI32LeU)
	case hir.Gt:
		return pickSigned(signed, opI32GtS, opI32GtU)
	default:
		return pickSigned(signed, opI32GeS, opI32GeU)
	}
}

// shortCircuit lowers && and || to a typed if/else rather than a bitwise
// instruction, so the right operand is only ever evaluated when it can
// affect the result (§4.3's short-circuit semantics).
func (fe *funcEmitter) shortCircuit(n *hir.Binary) error {
	if err := fe.expr(n.Left); err != nil {
		return err
	}
	fe.buf.WriteByte(opIf)
	fe.buf.WriteByte(valI32)
	fe.depth++
	if n.Op == hir.LogicalAnd {
		if err := fe.expr(n.Right); err != nil {
			return err
		}
		fe.buf.WriteByte(opElse)
		fe.buf.WriteByte(opI32Const)
		writeSLEB128(fe.buf, 0)
	} else {
		fe.buf.WriteByte(opI32Const)
		writeSLEB128(fe.buf, 1)
		fe.buf.WriteByte(opElse)
		if err := fe.expr(n.Right); err != nil {
			return err
		}
	}
	fe.buf.WriteByte(opEnd)
	fe.depth--
	return nil
}

func (fe *funcEmitter) call(n *hir.Call) error {
	if n.Intrinsic != "" {
		return fe.intrinsic(n)
	}
	for _, a := range n.Args {
		if err := fe.expr(a); err != nil {
			return err
		}
	}
	fe.buf.WriteByte(opCall)
	writeULEB128(fe.buf, uint64(n.FuncIndex))
	return nil
}

// intrinsic emits load_T/store_T/len directly as Wasm memory/GC
// instructions rather than a call (§4.2): these are the compiler's only
// primitives for touching linear memory and array length.
func (fe *funcEmitter) intrinsic(n *hir.Call) error {
	if n.Intrinsic == "len" {
		if err := fe.expr(n.Args[0]); err != nil {
			return err
		}
		fe.buf.WriteByte(gcPrefix)
		writeULEB128(fe.buf, gcArrayLen)
		return nil
	}
	for _, a := range n.Args {
		if err := fe.expr(a); err != nil {
			return err
		}
	}
	op, align := memOp(n.Intrinsic)
	fe.buf.WriteByte(op)
	writeULEB128(fe.buf, uint64(align))
	writeULEB128(fe.buf, 0) // offset immediate, always zero: addresses are explicit args
	return nil
}

func memOp(name string) (byte, int) {
	switch name {
	case "load_u8":
		return opI32Load8U, 0
	case "load_u16":
		return opI32Load16U, 1
	case "load_i32":
		return opI32Load, 2
	case "load_i64":
		return opI64Load, 3
	case "load_f32":
		return opF32Load, 2
	case "load_f64":
		return opF64Load, 3
	case "store_u8":
		return opI32Store8, 0
	case "store_u16":
		return opI32Store16, 1
	case "store_i32":
		return opI32Store, 2
	case "store_i64":
		return opI64Store, 3
	case "store_f32":
		return opF32Store, 2
	case "store_f64":
		return opF64Store, 3
	}
	return opUnreachable, 0
}

func (fe *funcEmitter) arrayLit(n *hir.ArrayLit) error {
	elemType := n.Typ.Elem
	count := n.Typ.Length
	if n.Repeat {
		// The repeated element expression is emitted `count` times, so it
		// is evaluated once per element; an element with side effects (a
		// call, for instance) runs `count` times.
		for i := uint32(0); i < count; i++ {
			if err := fe.expr(n.Elems[0]); err != nil {
				return err
			}
		}
	} else {
		for _, el := range n.Elems {
			if err := fe.expr(el); err != nil {
				return err
			}
		}
	}
	fe.buf.WriteByte(gcPrefix)
	writeULEB128(fe.buf, gcArrayNewFixed)
	writeULEB128(fe.buf, uint64(fe.tt.arrayIndex(n.Typ)))
	writeULEB128(fe.buf, uint64(count))
	_ = elemType
	return nil
}

func (fe *funcEmitter) index(n *hir.Index) error {
	if err := fe.expr(n.Array); err != nil {
		return err
	}
	if err := fe.expr(n.Idx); err != nil {
		return err
	}
	fe.buf.WriteByte(gcPrefix)
	writeULEB128(fe.buf, gcArrayGet)
	writeULEB128(fe.buf, uint64(fe.tt.arrayIndex(n.Array.Type())))
	return nil
}

func (fe *funcEmitter) ifExpr(n *hir.If) error {
	if err := fe.expr(n.Cond); err != nil {
		return err
	}
	fe.buf.WriteByte(opIf)
	fe.buf.Write(fe.blockType(n.Typ))
	fe.depth++
	if err := fe.block(n.Then); err != nil {
		return err
	}
	if n.Else != nil {
		fe.buf.WriteByte(opElse)
		if err := fe.block(n.Else); err != nil {
			return err
		}
	}
	fe.buf.WriteByte(opEnd)
	fe.depth--
	return nil
}

// blockType renders an if-expression's result as a Wasm blocktype
// immediate: the single-byte shorthand for unit/scalar kinds, or a
// reference to a registered zero-param/one-result function type for array
// results (real Wasm blocktypes support both forms).
func (fe *funcEmitter) blockType(t *types.Type) []byte {
	if t == nil || t.Kind == types.Unit {
		return []byte{blockTypeEmpty}
	}
	if t.Kind == types.Array {
		idx := fe.tt.funcIndex(nil, t)
		var tmp bytes.Buffer
		writeSLEB128(&tmp, int64(idx))
		return tmp.Bytes()
	}
	return fe.tt.valType(t)
}

func (fe *funcEmitter) loopExpr(n *hir.Loop) error {
	fe.buf.WriteByte(opBlock)
	fe.buf.WriteByte(blockTypeEmpty)
	fe.depth++
	breakDepth := fe.depth

	fe.buf.WriteByte(opLoop)
	fe.buf.WriteByte(blockTypeEmpty)
	fe.depth++
	continueDepth := fe.depth

	fe.loops = append(fe.loops, loopFrame{
		breakDepth: breakDepth, continueDepth: continueDepth,
		resultSlot: n.ResultSlot, hasResult: n.BreakValueType != nil,
	})

	if err := fe.block(n.Body); err != nil {
		return err
	}
	if n.Body.Tail != nil && n.Body.Typ.Kind != types.Unit {
		fe.buf.WriteByte(opDrop)
	}
	fe.buf.WriteByte(opBr)
	writeULEB128(fe.buf, fe.relLabel(continueDepth))

	fe.buf.WriteByte(opEnd) // loop
	fe.depth--
	fe.buf.WriteByte(opEnd) // block
	fe.depth--

	lc := fe.loops[len(fe.loops)-1]
	fe.loops = fe.loops[:len(fe.loops)-1]

	if lc.hasResult {
		fe.buf.WriteByte(opLocalGet)
		writeULEB128(fe.buf, uint64(lc.resultSlot))
	}
	return nil
}

func (fe *funcEmitter) whileExpr(n *hir.While) error {
	fe.buf.WriteByte(opBlock)
	fe.buf.WriteByte(blockTypeEmpty)
	fe.depth++
	breakDepth := fe.depth

	fe.buf.WriteByte(opLoop)
	fe.buf.WriteByte(blockTypeEmpty)
	fe.depth++
	continueDepth := fe.depth

	fe.loops = append(fe.loops, loopFrame{isWhile: true, breakDepth: breakDepth, continueDepth: continueDepth})

	if err := fe.expr(n.Cond); err != nil {
		return err
	}
	fe.buf.WriteByte(opI32Eqz)
	fe.buf.WriteByte(opBrIf)
	writeULEB128(fe.buf, fe.relLabel(breakDepth))

	if err := fe.block(n.Body); err != nil {
		return err
	}

	fe.buf.WriteByte(opBr)
	writeULEB128(fe.buf, fe.relLabel(continueDepth))

	fe.buf.WriteByte(opEnd) // loop
	fe.depth--
	fe.buf.WriteByte(opEnd) // block
	fe.depth--

	fe.loops = fe.loops[:len(fe.loops)-1]
	return nil
}
