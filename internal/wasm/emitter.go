package wasm

import (
	"bytes"
	"fmt"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// loopFrame tracks the two structured-control labels a `loop`/`while`
// opens: breakDepth is the enclosing block (the break target, since
// falling out of the loop normally also lands there), continueDepth is the
// loop itself (the continue target, since branching to a `loop` label
// re-enters it rather than exiting). Both are funcEmitter.depth values
// captured at the moment each construct was opened.
type loopFrame struct {
	isWhile       bool
	breakDepth    int
	continueDepth int
	resultSlot    int
	hasResult     bool
}

// funcEmitter emits one function body's instruction stream. depth counts
// currently open structured-control constructs (block/loop/if), needed to
// turn a label's capture-time depth into the relative index `br` expects.
type funcEmitter struct {
	tt    *typeTable
	fn    *hir.Function
	buf   *bytes.Buffer
	loops []loopFrame
	depth int
}

func emitFunctionBody(fn *hir.Function, tt *typeTable) ([]byte, error) {
	var code bytes.Buffer
	fe := &funcEmitter{tt: tt, fn: fn, buf: &code}
	if err := fe.block(fn.Body); err != nil {
		return nil, err
	}
	code.WriteByte(opEnd)

	var body bytes.Buffer
	localsBuf := encodeLocalDecls(fn.Locals[len(fn.Params):], tt)
	body.Write(localsBuf)
	body.Write(code.Bytes())
	return body.Bytes(), nil
}

// encodeLocalDecls groups consecutive locals of identical encoded type into
// (count, type) runs, the form the Wasm code section requires.
func encodeLocalDecls(locals []*types.Type, tt *typeTable) []byte {
	type run struct {
		count uint64
		enc   []byte
	}
	var runs []run
	for _, l := range locals {
		enc := tt.valType(l)
		if len(runs) > 0 && bytes.Equal(runs[len(runs)-1].enc, enc) {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{count: 1, enc: enc})
	}
	var buf bytes.Buffer
	writeULEB128(&buf, uint64(len(runs)))
	for _, r := range runs {
		writeULEB128(&buf, r.count)
		buf.Write(r.enc)
	}
	return buf.Bytes()
}

// relLabel converts a label's capture-time depth into the relative index
// `br`/`br_if` expects: 0 is the innermost currently open construct.
func (fe *funcEmitter) relLabel(capturedDepth int) uint64 {
	return uint64(fe.depth - capturedDepth)
}

func (fe *funcEmitter) currentLoop() *loopFrame {
	if len(fe.loops) == 0 {
		return nil
	}
	return &fe.loops[len(fe.loops)-1]
}

// block emits a block's statements followed by its tail expression (if
// any). A bare HIR block needs no Wasm structured-control wrapper of its
// own: it only ever introduces a branch target when it is a Loop/While
// body or an If arm, both handled by their own callers.
func (fe *funcEmitter) block(b *hir.Block) error {
	for _, s := range b.Stmts {
		if err := fe.stmt(s); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		return fe.expr(b.Tail)
	}
	return nil
}

func (fe *funcEmitter) stmt(s hir.Stmt) error {
	switch n := s.(type) {
	case *hir.LetStmt:
		if err := fe.expr(n.Init); err != nil {
			return err
		}
		fe.buf.WriteByte(opLocalSet)
		writeULEB128(fe.buf, uint64(n.Slot))
		return nil
	case *hir.AssignStmt:
		if err := fe.expr(n.Value); err != nil {
			return err
		}
		fe.buf.WriteByte(opLocalSet)
		writeULEB128(fe.buf, uint64(n.Slot))
		return nil
	case *hir.ReturnStmt:
		if n.Value != nil {
			if err := fe.expr(n.Value); err != nil {
				return err
			}
		}
		fe.buf.WriteByte(opReturn)
		return nil
	case *hir.BreakStmt:
		return fe.breakStmt(n)
	case *hir.ContinueStmt:
		lc := fe.currentLoop()
		fe.buf.WriteByte(opBr)
		writeULEB128(fe.buf, fe.relLabel(lc.continueDepth))
		return nil
	case *hir.ExprStmt:
		if err := fe.expr(n.Expr); err != nil {
			return err
		}
		if n.Expr.Type().Kind != types.Unit {
			fe.buf.WriteByte(opDrop)
		}
		return nil
	default:
		return fmt.Errorf("wasm: unhandled statement %T", s)
	}
}

func (fe *funcEmitter) breakStmt(n *hir.BreakStmt) error {
	lc := fe.currentLoop()
	if n.Value != nil {
		if err := fe.expr(n.Value); err != nil {
			return err
		}
		fe.buf.WriteByte(opLocalSet)
		writeULEB128(fe.buf, uint64(lc.resultSlot))
	}
	fe.buf.WriteByte(opBr)
	writeULEB128(fe.buf, fe.relLabel(lc.breakDepth))
	return nil
}

func (fe *funcEmitter) expr(e hir.Expr) error {
	switch n := e.(type) {
	case *hir.IntConst:
		return fe.intConst(n)
	case *hir.FloatConst:
		return fe.floatConst(n)
	case *hir.BoolConst:
		fe.buf.WriteByte(opI32Const)
		if n.Value {
			writeSLEB128(fe.buf, 1)
		} else {
			writeSLEB128(fe.buf, 0)
		}
		return nil
	case *hir.Local:
		fe.buf.WriteByte(opLocalGet)
		writeULEB128(fe.buf, uint64(n.Slot))
		return nil
	case *hir.Unary:
		return fe.unary(n)
	case *hir.Cast:
		return fe.cast(n)
	case *hir.Binary:
		return fe.binary(n)
	case *hir.Call:
		return fe.call(n)
	case *hir.ArrayLit:
		return fe.arrayLit(n)
	case *hir.Index:
		return fe.index(n)
	case *hir.Block:
		return fe.block(n)
	case *hir.If:
		return fe.ifExpr(n)
	case *hir.Loop:
		return fe.loopExpr(n)
	case *hir.While:
		return fe.whileExpr(n)
	default:
		return fmt.Errorf("wasm: unhandled expression %T", e)
	}
}

func (fe *funcEmitter) intConst(n *hir.IntConst) error {
	if n.Typ.Kind == types.I64 || n.Typ.Kind == types.U64 {
		fe.buf.WriteByte(opI64Const)
		writeSLEB128(fe.buf, int64(n.Value))
		return nil
	}
	fe.buf.WriteByte(opI32Const)
	writeSLEB128(fe.buf, int64(i32Imm(n.Value, n.Typ)))
	return nil
}

// i32Imm renders a possibly sub-word integer constant as the i32 value it
// must occupy on the stack (§4.2's sub-word representation): signed types
// narrower than 32 bits sign-extend, everything else is already correctly
// zero-padded by construction.
func i32Imm(v uint64, t *types.Type) int32 {
	w := t.Width()
	if t.IsSigned() && w > 0 && w < 32 {
		shift := uint(32 - w)
		return int32(uint32(v)<<shift) >> shift
	}
	return int32(uint32(v))
}

func (fe *funcEmitter) floatConst(n *hir.FloatConst) error {
	if n.Typ.Kind == types.F64 {
		fe.buf.WriteByte(opF64Const)
		var tmp [8]byte
		putLE64(tmp[:], f64Bits(n.Value))
		fe.buf.Write(tmp[:])
		return nil
	}
	fe.buf.WriteByte(opF32Const)
	var tmp [4]byte
	putLE32(tmp[:], f32Bits(n.Value))
	fe.buf.Write(tmp[:])
	return nil
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putLE64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func (fe *funcEmitter) unary(n *hir.Unary) error {
	switch n.Op {
	case hir.Not:
		if err := fe.expr(n.Operand); err != nil {
			return err
		}
		fe.buf.WriteByte(opI32Eqz)
		return nil
	case hir.Neg:
		if n.Typ.IsFloat() {
			if err := fe.expr(n.Operand); err != nil {
				return err
			}
			if n.Typ.Kind == types.F64 {
				fe.buf.WriteByte(opF64Neg)
			} else {
				fe.buf.WriteByte(opF32Neg)
			}
			return nil
		}
		is64 := n.Typ.Kind == types.I64 || n.Typ.Kind == types.U64
		if is64 {
			fe.buf.WriteByte(opI64Const)
			writeSLEB128(fe.buf, 0)
		} else {
			fe.buf.WriteByte(opI32Const)
			writeSLEB128(fe.buf, 0)
		}
		if err := fe.expr(n.Operand); err != nil {
			return err
		}
		if is64 {
			fe.buf.WriteByte(opI64Sub)
		} else {
			fe.buf.WriteByte(opI32Sub)
		}
		return nil
	}
	return fmt.Errorf("wasm: unhandled unary op %v", n.Op)
}
