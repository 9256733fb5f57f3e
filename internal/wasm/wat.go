package wasm

import (
	"fmt"
	"io"

	"github.com/bpc-lang/bpc/internal/hir"
	"github.com/bpc-lang/bpc/internal/types"
)

// Disassembler prints a readable, WAT-flavored approximation of a
// hir.Program, for the compiler's --emit-wat debug flag; it prints no
// module bytes. It walks the HIR directly rather than
// decoding the binary module, since the HIR already carries every name and
// type Emit would otherwise throw away.
//
// Grounded on the teacher's internal/bytecode/disasm.go, an io.Writer-based
// Disassembler that prints one instruction per line; this is the same
// shape applied to HIR trees instead of a flat bytecode stream.
type Disassembler struct {
	w     io.Writer
	depth int
}

// NewDisassembler returns a Disassembler that writes to w.
func NewDisassembler(w io.Writer) *Disassembler {
	return &Disassembler{w: w}
}

// Disassemble prints every function in prog.
func (d *Disassembler) Disassemble(prog *hir.Program) error {
	for i, fn := range prog.Functions {
		if err := d.function(i, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disassembler) function(index int, fn *hir.Function) error {
	if _, err := fmt.Fprintf(d.w, "(func $%s (index %d)", fn.Name, index); err != nil {
		return err
	}
	for i, p := range fn.Params {
		fmt.Fprintf(d.w, " (param $%d %s)", i, p)
	}
	if fn.Ret.Kind != types.Unit {
		fmt.Fprintf(d.w, " (result %s)", fn.Ret)
	}
	fmt.Fprintln(d.w)
	d.depth = 1
	for _, l := range fn.Locals[len(fn.Params):] {
		d.line("(local %s)", l)
	}
	if err := d.block(fn.Body); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.w, ")")
	return err
}

func (d *Disassembler) line(format string, args ...any) {
	for i := 0; i < d.depth; i++ {
		fmt.Fprint(d.w, "  ")
	}
	fmt.Fprintf(d.w, format, args...)
	fmt.Fprintln(d.w)
}

func (d *Disassembler) block(b *hir.Block) error {
	for _, s := range b.Stmts {
		d.stmt(s)
	}
	if b.Tail != nil {
		d.expr(b.Tail)
	}
	return nil
}

func (d *Disassembler) stmt(s hir.Stmt) {
	switch n := s.(type) {
	case *hir.LetStmt:
		d.line("(local.set %d", n.Slot)
		d.depth++
		d.expr(n.Init)
		d.depth--
		d.line(")")
	case *hir.AssignStmt:
		d.line("(local.set %d", n.Slot)
		d.depth++
		d.expr(n.Value)
		d.depth--
		d.line(")")
	case *hir.ReturnStmt:
		d.line("(return)")
	case *hir.BreakStmt:
		d.line("(br $break)")
	case *hir.ContinueStmt:
		d.line("(br $continue)")
	case *hir.ExprStmt:
		d.expr(n.Expr)
	}
}

func (d *Disassembler) expr(e hir.Expr) {
	switch n := e.(type) {
	case *hir.IntConst:
		d.line("(%s.const %d)", n.Typ, n.Value)
	case *hir.FloatConst:
		d.line("(%s.const %v)", n.Typ, n.Value)
	case *hir.BoolConst:
		d.line("(i32.const %v)", n.Value)
	case *hir.Local:
		d.line("(local.get %d)", n.Slot)
	case *hir.Binary:
		d.line("(%s", binOpName(n.Op))
		d.depth++
		d.expr(n.Left)
		d.expr(n.Right)
		d.depth--
		d.line(")")
	case *hir.Unary:
		d.line("(unary")
		d.depth++
		d.expr(n.Operand)
		d.depth--
		d.line(")")
	case *hir.Cast:
		d.line("(cast -> %s", n.Typ)
		d.depth++
		d.expr(n.Operand)
		d.depth--
		d.line(")")
	case *hir.Call:
		d.line("(call %s", callLabel(n))
		d.depth++
		for _, a := range n.Args {
			d.expr(a)
		}
		d.depth--
		d.line(")")
	case *hir.If:
		d.line("(if")
		d.depth++
		d.expr(n.Cond)
		d.line("(then")
		d.depth++
		d.block(n.Then)
		d.depth--
		d.line(")")
		if n.Else != nil {
			d.line("(else")
			d.depth++
			d.block(n.Else)
			d.depth--
			d.line(")")
		}
		d.depth--
		d.line(")")
	case *hir.Loop:
		d.line("(loop $continue")
		d.depth++
		d.block(n.Body)
		d.depth--
		d.line(")")
	case *hir.While:
		d.line("(while")
		d.depth++
		d.expr(n.Cond)
		d.block(n.Body)
		d.depth--
		d.line(")")
	case *hir.Block:
		d.block(n)
	case *hir.ArrayLit:
		d.line("(array.new_fixed %s)", n.Typ)
	case *hir.Index:
		d.line("(array.get")
		d.depth++
		d.expr(n.Array)
		d.expr(n.Idx)
		d.depth--
		d.line(")")
	}
}

func binOpName(op hir.BinOp) string {
	names := map[hir.BinOp]string{
		hir.Add: "add", hir.Sub: "sub", hir.Mul: "mul", hir.Div: "div", hir.Rem: "rem",
		hir.Shl: "shl", hir.Shr: "shr", hir.And: "and", hir.Or: "or", hir.Xor: "xor",
		hir.Eq: "eq", hir.Ne: "ne", hir.Lt: "lt", hir.Le: "le", hir.Gt: "gt", hir.Ge: "ge",
		hir.LogicalAnd: "logical_and", hir.LogicalOr: "logical_or",
	}
	return names[op]
}

func callLabel(n *hir.Call) string {
	if n.Intrinsic != "" {
		return n.Intrinsic
	}
	return fmt.Sprintf("$%d", n.FuncIndex)
}
