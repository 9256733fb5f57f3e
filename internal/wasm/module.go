// Package wasm is BP's sole compiler backend (§4.6): it turns a simplified
// hir.Program into a binary Wasm 1.0 module, plus the reference-types/GC
// subset needed for fixed-length arrays. Nothing downstream of this package
// exists — there is no interpreter, no second backend, and no textual
// assembler other than the debug disassembler in wat.go.
//
// Grounded on the teacher's internal/bytecode/serializer.go: both write a
// binary container through a bytes.Buffer with a magic header, length-
// prefixed sections, and little-endian fixed-width fields via
// encoding/binary, generalized here from DWScript's own ad hoc chunk format
// to the Wasm core and GC binary encodings.
package wasm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

var wasmMagic = [4]byte{0x00, 0x61, 0x73, 0x6D} // "\0asm"
const wasmVersion uint32 = 1

// memoryPages is the single exported linear memory's minimum size (§4.2's
// load_T/store_T intrinsics need backing storage; no maximum is declared so
// the host may grow it).
const memoryPages = 16

// Emit lowers a fully checked and simplified program to a Wasm binary
// module (§4.6). It is deterministic: the same program always produces the
// same bytes, since every ordering decision below (type indices, function
// indices, export order) is derived from Program.Functions' declaration
// order and nothing else.
func Emit(prog *hir.Program) ([]byte, error) {
	tt := newTypeTable()
	tt.collectProgram(prog)

	var out bytes.Buffer
	out.Write(wasmMagic[:])
	binary.Write(&out, binary.LittleEndian, wasmVersion)

	writeSection(&out, secType, encodeTypeSection(tt))
	writeSection(&out, secFunction, encodeFunctionSection(prog, tt))
	writeSection(&out, secMemory, encodeMemorySection())
	writeSection(&out, secExport, encodeExportSection(prog))

	code, err := encodeCodeSection(prog, tt)
	if err != nil {
		return nil, err
	}
	writeSection(&out, secCode, code)

	return out.Bytes(), nil
}

func writeSection(out *bytes.Buffer, id byte, payload []byte) {
	out.WriteByte(id)
	writeULEB128(out, uint64(len(payload)))
	out.Write(payload)
}

// encodeTypeSection emits one array-type entry per registered array shape
// followed by one func-type entry per registered signature, in that order
// — matching the index assignment typeTable.registerArray/registerFunc
// already performed.
func encodeTypeSection(tt *typeTable) []byte {
	var buf bytes.Buffer
	writeULEB128(&buf, uint64(len(tt.arrays)+len(tt.funcs)))

	for _, arr := range tt.arrays {
		buf.WriteByte(arrayTypeTag)
		buf.Write(tt.fieldType(arr.Elem))
		buf.WriteByte(0x01) // mutable storage field
	}

	for _, sig := range tt.funcs {
		buf.WriteByte(funcTypeTag)
		writeULEB128(&buf, uint64(len(sig.Params)))
		for _, p := range sig.Params {
			buf.Write(tt.valType(p))
		}
		if sig.Ret.Kind == types.Unit {
			writeULEB128(&buf, 0)
		} else {
			writeULEB128(&buf, 1)
			buf.Write(tt.valType(sig.Ret))
		}
	}
	return buf.Bytes()
}

func encodeFunctionSection(prog *hir.Program, tt *typeTable) []byte {
	var buf bytes.Buffer
	writeULEB128(&buf, uint64(len(prog.Functions)))
	for _, fn := range prog.Functions {
		writeULEB128(&buf, uint64(tt.funcIndex(fn.Params, fn.Ret)))
	}
	return buf.Bytes()
}

func encodeMemorySection() []byte {
	var buf bytes.Buffer
	writeULEB128(&buf, 1) // one memory
	buf.WriteByte(0x00)   // flags: no maximum
	writeULEB128(&buf, memoryPages)
	return buf.Bytes()
}

// encodeExportSection exports every function under its source name, plus
// the module's single linear memory as "memory" (§4.6).
func encodeExportSection(prog *hir.Program) []byte {
	var buf bytes.Buffer
	writeULEB128(&buf, uint64(len(prog.Functions)+1))
	for i, fn := range prog.Functions {
		writeName(&buf, fn.Name)
		buf.WriteByte(exportFunc)
		writeULEB128(&buf, uint64(i))
	}
	writeName(&buf, "memory")
	buf.WriteByte(exportMemory)
	writeULEB128(&buf, 0)
	return buf.Bytes()
}

func encodeCodeSection(prog *hir.Program, tt *typeTable) ([]byte, error) {
	var buf bytes.Buffer
	writeULEB128(&buf, uint64(len(prog.Functions)))
	for _, fn := range prog.Functions {
		body, err := emitFunctionBody(fn, tt)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", fn.Name, err)
		}
		writeULEB128(&buf, uint64(len(body)))
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

func f32Bits(v float64) uint32 { return math.Float32bits(float32(v)) }
func f64Bits(v float64) uint64 { return math.Float64bits(v) }
