package wasm

import (
	"bytes"
	"testing"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

func mainReturning42() *hir.Program {
	return &hir.Program{
		MainIndex: 0,
		Functions: []*hir.Function{
			{
				Name: "main", Ret: types.I32Type, Exported: true,
				Body: &hir.Block{
					Tail: &hir.IntConst{Value: 42, Typ: types.I32Type},
					Typ:  types.I32Type,
				},
			},
		},
	}
}

func TestEmitProducesWasmHeader(t *testing.T) {
	out, err := Emit(mainReturning42())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if !bytes.HasPrefix(out, want) {
		t.Fatalf("missing magic/version header, got % x", out[:8])
	}
}

func TestEmitIsDeterministic(t *testing.T) {
	a, err := Emit(mainReturning42())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	b, err := Emit(mainReturning42())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("Emit produced different bytes for identical input")
	}
}

func TestEmitSectionOrder(t *testing.T) {
	out, err := Emit(mainReturning42())
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var ids []byte
	i := 8
	for i < len(out) {
		id := out[i]
		ids = append(ids, id)
		i++
		size, n := readULEB128(out[i:])
		i += n + int(size)
	}
	wantOrder := []byte{secType, secFunction, secMemory, secExport, secCode}
	if !bytes.Equal(ids, wantOrder) {
		t.Fatalf("section order = % x, want % x", ids, wantOrder)
	}
}

// readULEB128 decodes a single unsigned LEB128 value for test assertions.
func readULEB128(b []byte) (uint64, int) {
	var v uint64
	var shift uint
	var n int
	for {
		byt := b[n]
		v |= uint64(byt&0x7f) << shift
		n++
		if byt&0x80 == 0 {
			break
		}
		shift += 7
	}
	return v, n
}

func TestEmitTwoFunctionsShareOneTypeEntry(t *testing.T) {
	prog := &hir.Program{
		MainIndex: 1,
		Functions: []*hir.Function{
			{Name: "helper", Ret: types.I32Type, Exported: true, Body: &hir.Block{
				Tail: &hir.IntConst{Value: 1, Typ: types.I32Type}, Typ: types.I32Type,
			}},
			{Name: "main", Ret: types.I32Type, Exported: true, Body: &hir.Block{
				Tail: &hir.Call{FuncIndex: 0, Args: nil, Typ: types.I32Type}, Typ: types.I32Type,
			}},
		},
	}
	tt := newTypeTable()
	tt.collectProgram(prog)
	if len(tt.funcs) != 1 {
		t.Fatalf("expected one shared () -> i32 type entry, got %d", len(tt.funcs))
	}
}

func TestEmitArrayProgramRegistersArrayType(t *testing.T) {
	arrType := types.ArrayOf(types.I32Type, 3)
	prog := &hir.Program{
		Functions: []*hir.Function{
			{
				Name: "main", Ret: types.I32Type, Exported: true,
				Locals: []*types.Type{arrType},
				Body: &hir.Block{
					Stmts: []hir.Stmt{
						&hir.LetStmt{Slot: 0, Init: &hir.ArrayLit{
							Elems: []hir.Expr{
								&hir.IntConst{Value: 1, Typ: types.I32Type},
								&hir.IntConst{Value: 2, Typ: types.I32Type},
								&hir.IntConst{Value: 3, Typ: types.I32Type},
							},
							Typ: arrType,
						}},
					},
					Tail: &hir.Index{
						Array: &hir.Local{Slot: 0, Typ: arrType},
						Idx:   &hir.IntConst{Value: 0, Typ: types.I32Type},
						Typ:   types.I32Type,
					},
					Typ: types.I32Type,
				},
			},
		},
	}
	out, err := Emit(prog)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty module")
	}
}
