// Package compiler is BP's thin driver (§2 "Driver (thin)"): it has no
// logic of its own beyond gluing the stages together in order and handing
// back whichever stage's diagnostic fired first. Compile is a pure,
// single-threaded, synchronous function from source bytes to module bytes
// (§5) — it opens no files and touches no global state.
//
// Grounded on the teacher's cmd/dwscript wiring style, where the CLI layer
// never talks to the lexer/parser/compiler packages directly but always
// goes through one function that owns the pipeline order.
package compiler

import (
	"github.com/bpc-lang/bpc/internal/check"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/parser"
	"github.com/bpc-lang/bpc/internal/simplify"
	"github.com/bpc-lang/bpc/internal/wasm"
)

// Compile runs the full lex -> parse -> check -> simplify -> emit pipeline
// over src and returns a binary Wasm module. The first stage to fail short-
// circuits the rest; err is always a *diag.Diagnostic in concrete type so
// callers can render it with diag.Format.
func Compile(src []byte) ([]byte, *diag.Diagnostic) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	hirProg, err := check.Check(prog)
	if err != nil {
		return nil, err
	}

	hirProg = simplify.Program(hirProg)

	out, emitErr := wasm.Emit(hirProg)
	if emitErr != nil {
		return nil, diag.NewNoSpan(diag.EmitError, "%s", emitErr)
	}
	return out, nil
}
