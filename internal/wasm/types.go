package wasm

import (
	"bytes"
	"fmt"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// Packed storage-type bytes, used for array element fields so `[u8;N]`
// doesn't cost a full i32 per element in the eventual runtime (GC proposal
// packed-field encoding).
const (
	packedI8  byte = 0x78
	packedI16 byte = 0x77
)

// typeTable assigns stable type-section indices to every distinct array
// shape the program mentions (anywhere: params, returns, locals, or
// sub-expression types), then to every distinct function signature. Arrays
// are registered first so every function signature that mentions one can
// reference its index (§4.6's "implementers must pick a single stable
// encoding and use it consistently").
type typeTable struct {
	arrayIdx map[string]uint32 // Type.String() -> type-section index
	arrays   []*types.Type     // in registration order

	funcIdx map[string]uint32 // signature key -> position in funcs
	funcs   []funcSig
}

type funcSig struct {
	Params []*types.Type
	Ret    *types.Type
}

func newTypeTable() *typeTable {
	return &typeTable{arrayIdx: map[string]uint32{}, funcIdx: map[string]uint32{}}
}

// registerArray walks t and assigns indices to every array shape nested
// within it (an array of arrays registers its element first).
func (tt *typeTable) registerArray(t *types.Type) uint32 {
	if t.Kind == types.Array && t.Elem.Kind == types.Array {
		tt.registerArray(t.Elem)
	}
	key := t.String()
	if idx, ok := tt.arrayIdx[key]; ok {
		return idx
	}
	idx := uint32(len(tt.arrays))
	tt.arrayIdx[key] = idx
	tt.arrays = append(tt.arrays, t)
	return idx
}

func (tt *typeTable) arrayIndex(t *types.Type) uint32 {
	return tt.arrayIdx[t.String()]
}

func sigKey(params []*types.Type, ret *types.Type) string {
	var b bytes.Buffer
	for _, p := range params {
		b.WriteString(p.String())
		b.WriteByte(',')
	}
	b.WriteString("->")
	b.WriteString(ret.String())
	return b.String()
}

// registerFunc assigns a type-section index to a function signature,
// reusing an existing entry when an earlier function has the identical
// shape (distinct functions of the same signature share one type entry).
// Function types follow every array type in the section, so the index is
// the signature's position in funcs offset by the current array count.
func (tt *typeTable) registerFunc(params []*types.Type, ret *types.Type) uint32 {
	key := sigKey(params, ret)
	if pos, ok := tt.funcIdx[key]; ok {
		return uint32(len(tt.arrays)) + pos
	}
	pos := uint32(len(tt.funcs))
	tt.funcIdx[key] = pos
	tt.funcs = append(tt.funcs, funcSig{Params: params, Ret: ret})
	return uint32(len(tt.arrays)) + pos
}

// funcIndex returns a registered signature's type-section index, computed
// from the final array count so it holds however many array shapes were
// registered after the signature itself.
func (tt *typeTable) funcIndex(params []*types.Type, ret *types.Type) uint32 {
	return uint32(len(tt.arrays)) + tt.funcIdx[sigKey(params, ret)]
}

// valType encodes t as a value-type byte sequence for use in a function
// signature or local-declaration entry (§4.6's value-type mapping table:
// every scalar kind maps to a single Wasm numeric type; arrays map to a
// non-null concrete reference naming their type-section entry).
func (tt *typeTable) valType(t *types.Type) []byte {
	switch t.Kind {
	case types.I8, types.I16, types.I32, types.U8, types.U16, types.U32, types.Bool:
		return []byte{valI32}
	case types.I64, types.U64:
		return []byte{valI64}
	case types.F32:
		return []byte{valF32}
	case types.F64:
		return []byte{valF64}
	case types.Array:
		var buf bytes.Buffer
		buf.WriteByte(0x64) // non-null concrete ref: `ref $t`
		writeULEB128(&buf, uint64(tt.arrayIndex(t)))
		return buf.Bytes()
	case types.Unit:
		return nil
	default:
		panic(fmt.Sprintf("wasm: unhandled type kind %v", t.Kind))
	}
}

// fieldType encodes t as an array element's storage-field type: 8- and
// 16-bit integers use the GC proposal's packed field encoding, everything
// else uses its normal value type.
func (tt *typeTable) fieldType(t *types.Type) []byte {
	switch t.Kind {
	case types.I8, types.U8:
		return []byte{packedI8}
	case types.I16, types.U16:
		return []byte{packedI16}
	default:
		return tt.valType(t)
	}
}

// collectProgram registers every array shape and function signature that
// appears anywhere in prog. The body walk may register an if-expression's
// `() -> T` blocktype before later array shapes are found; funcIndex
// derives function-type indices from the final array count, so that order
// does not shift them.
func (tt *typeTable) collectProgram(prog *hir.Program) {
	for _, fn := range prog.Functions {
		for _, p := range fn.Params {
			tt.collectType(p)
		}
		tt.collectType(fn.Ret)
		for _, l := range fn.Locals {
			tt.collectType(l)
		}
	}
	for _, fn := range prog.Functions {
		tt.collectBlock(fn.Body)
	}
	for _, fn := range prog.Functions {
		tt.registerFunc(fn.Params, fn.Ret)
	}
}

// collectBlock/collectExpr walk a function body so an array type mentioned
// only transiently (e.g. an array literal passed straight into a call,
// never bound to a local) still gets a type-section entry.
func (tt *typeTable) collectBlock(b *hir.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		tt.collectStmt(s)
	}
	if b.Tail != nil {
		tt.collectExpr(b.Tail)
	}
}

func (tt *typeTable) collectStmt(s hir.Stmt) {
	switch n := s.(type) {
	case *hir.LetStmt:
		tt.collectExpr(n.Init)
	case *hir.AssignStmt:
		tt.collectExpr(n.Value)
	case *hir.ReturnStmt:
		if n.Value != nil {
			tt.collectExpr(n.Value)
		}
	case *hir.BreakStmt:
		if n.Value != nil {
			tt.collectExpr(n.Value)
		}
	case *hir.ExprStmt:
		tt.collectExpr(n.Expr)
	}
}

func (tt *typeTable) collectExpr(e hir.Expr) {
	if e == nil {
		return
	}
	tt.collectType(e.Type())
	switch n := e.(type) {
	case *hir.Unary:
		tt.collectExpr(n.Operand)
	case *hir.Cast:
		tt.collectExpr(n.Operand)
	case *hir.Binary:
		tt.collectExpr(n.Left)
		tt.collectExpr(n.Right)
	case *hir.Call:
		for _, a := range n.Args {
			tt.collectExpr(a)
		}
	case *hir.ArrayLit:
		for _, el := range n.Elems {
			tt.collectExpr(el)
		}
	case *hir.Index:
		tt.collectExpr(n.Array)
		tt.collectExpr(n.Idx)
	case *hir.Block:
		tt.collectBlock(n)
	case *hir.If:
		tt.collectExpr(n.Cond)
		tt.collectBlock(n.Then)
		tt.collectBlock(n.Else)
		if n.Typ != nil && n.Typ.Kind == types.Array {
			// Reuses the "() -> T" func-type slot as an if-expression's
			// blocktype immediate (real Wasm blocktypes may name any
			// registered func type with no params and one result).
			tt.registerFunc(nil, n.Typ)
		}
	case *hir.Loop:
		tt.collectBlock(n.Body)
	case *hir.While:
		tt.collectExpr(n.Cond)
		tt.collectBlock(n.Body)
	}
}

func (tt *typeTable) collectType(t *types.Type) {
	if t == nil {
		return
	}
	if t.Kind == types.Array {
		tt.registerArray(t)
	}
}
