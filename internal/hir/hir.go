// Package hir is BP's typed, resolved intermediate representation (§3):
// the output of internal/check, and the input to internal/simplify and
// internal/wasm. Every node carries its resolved *types.Type and every name
// reference is resolved to a slot or function index, so later passes never
// need to touch names again.
//
// Grounded on the teacher's internal/ast package shape (tagged-variant nodes
// with marker methods) and on internal/bytecode/compiler_core.go's local/
// global slot bookkeeping, which is where BP's "names become indices" idea
// comes from — DWScript's compiler resolves locals to a uint16 slot and
// globals to a uint16 index the same way.
package hir

import "github.com/bpc-lang/bpc/internal/types"

// Expr is a typed HIR expression node.
type Expr interface {
	exprNode()
	Type() *types.Type
}

// Stmt is a typed HIR statement node.
type Stmt interface {
	stmtNode()
}

// Program is a fully checked BP module: its functions in declaration order
// plus the resolved index of the entry point (§4.4 "exactly one main").
type Program struct {
	Functions []*Function
	MainIndex int
}

// Function is a resolved, typed function body. Locals includes parameters
// (slots 0..len(Params)-1) followed by every `let`-bound local encountered
// in declaration order, mirroring the teacher's local-slot allocation.
type Function struct {
	Name    string
	Params  []*types.Type
	Ret     *types.Type
	Locals  []*types.Type
	Body    *Block
	Exported bool
}

// Local is a resolved local-variable reference, a slot index into the
// enclosing Function.Locals (which already includes the parameters).
type Local struct {
	Slot int
	Typ  *types.Type
}

func (e *Local) exprNode()        {}
func (e *Local) Type() *types.Type { return e.Typ }

// IntConst is an integer literal with its adopted (never unsuffixed) type.
type IntConst struct {
	Value uint64
	Typ   *types.Type
}

func (e *IntConst) exprNode()        {}
func (e *IntConst) Type() *types.Type { return e.Typ }

// FloatConst is a float literal with its adopted type.
type FloatConst struct {
	Value float64
	Typ   *types.Type
}

func (e *FloatConst) exprNode()        {}
func (e *FloatConst) Type() *types.Type { return e.Typ }

// BoolConst is `true`/`false`.
type BoolConst struct {
	Value bool
}

func (e *BoolConst) exprNode()        {}
func (e *BoolConst) Type() *types.Type { return types.BoolType }

// BinOp enumerates HIR binary operators; unlike the AST's string Op, these
// are already disambiguated by operand type (e.g. integer `/` vs float `/`).
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Shl
	Shr
	And
	Or
	Xor
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LogicalAnd
	LogicalOr
)

// Binary is a resolved binary operation; Left and Right always share Typ's
// operand type (checked in internal/check), except for the comparison
// operators where Typ is always bool.
type Binary struct {
	Op          BinOp
	Left, Right Expr
	OperandType *types.Type // the common operand type, for emitter dispatch
	Typ         *types.Type // result type: OperandType, or bool for comparisons
}

func (e *Binary) exprNode()        {}
func (e *Binary) Type() *types.Type { return e.Typ }

// UnaryOp enumerates HIR unary operators.
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

// Unary is a resolved unary operation.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Typ     *types.Type
}

func (e *Unary) exprNode()        {}
func (e *Unary) Type() *types.Type { return e.Typ }

// CastKind disambiguates the Wasm instruction family a cast lowers to
// (§4.6's cast table): widen (sign/zero extend), narrow (mask/wrap),
// int-to-float convert, float-to-int truncate, float-to-float (de)promote,
// or a same-width reinterpret that is a pure no-op on the value stack.
type CastKind int

const (
	CastNoop CastKind = iota
	CastSignExtend
	CastZeroExtend
	CastNarrow
	CastIntToFloat
	CastFloatToInt
	CastFloatToFloat
)

// Cast is a resolved `as` cast.
type Cast struct {
	Operand Expr
	Kind    CastKind
	Typ     *types.Type
}

func (e *Cast) exprNode()        {}
func (e *Cast) Type() *types.Type { return e.Typ }

// Call is a resolved call to a user function or a memory intrinsic
// (load_T/store_T/len — §4.2). Intrinsic is "" for ordinary calls.
type Call struct {
	FuncIndex int    // valid only when Intrinsic == ""
	Intrinsic string // "load_T", "store_T", or "len"; "" for an ordinary call
	Args      []Expr
	Typ       *types.Type
}

func (e *Call) exprNode()        {}
func (e *Call) Type() *types.Type { return e.Typ }

// ArrayLit is a fixed-length array value built from explicit elements
// (`[e0, e1, ...]`) or a single repeated element (`[e; n]`, Elems has
// length 1 and Repeat is true).
type ArrayLit struct {
	Elems  []Expr
	Repeat bool
	Typ    *types.Type
}

func (e *ArrayLit) exprNode()        {}
func (e *ArrayLit) Type() *types.Type { return e.Typ }

// Index is a resolved `array[index]` access.
type Index struct {
	Array, Idx Expr
	Typ        *types.Type
}

func (e *Index) exprNode()        {}
func (e *Index) Type() *types.Type { return e.Typ }

// Block is `{ stmts... [tail] }`. Tail is nil when the block has no tail
// expression, and the block then has unit type; a unit-typed tail is kept.
type Block struct {
	Stmts []Stmt
	Tail  Expr
	Typ   *types.Type
}

func (e *Block) exprNode()        {}
func (e *Block) Type() *types.Type { return e.Typ }

// If is a resolved if/else expression; Else is nil only when Typ is unit.
type If struct {
	Cond       Expr
	Then, Else *Block
	Typ        *types.Type
}

func (e *If) exprNode()        {}
func (e *If) Type() *types.Type { return e.Typ }

// Loop is `loop { ... }`; ResultSlot is the local slot used to carry a
// break value out when BreakValueType != nil (the "loop-result local"
// pattern, since Wasm's `loop` construct has no value of its own).
type Loop struct {
	Body            *Block
	BreakValueType  *types.Type // nil if no `break <value>` targets this loop
	ResultSlot      int
	Typ             *types.Type
}

func (e *Loop) exprNode()        {}
func (e *Loop) Type() *types.Type { return e.Typ }

// While is `while cond { ... }`; always has unit type (§4.2 — while never
// produces a break value).
type While struct {
	Cond Expr
	Body *Block
}

func (e *While) exprNode()        {}
func (e *While) Type() *types.Type { return types.UnitType }

// LetStmt declares and initializes a local slot.
type LetStmt struct {
	Slot int
	Init Expr
}

func (s *LetStmt) stmtNode() {}

// AssignStmt stores into an existing local slot.
type AssignStmt struct {
	Slot  int
	Value Expr
}

func (s *AssignStmt) stmtNode() {}

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	Value Expr // nil for bare `return;`
}

func (s *ReturnStmt) stmtNode() {}

// BreakStmt is `break [value];`, targeting the innermost enclosing Loop.
type BreakStmt struct {
	Value Expr // nil for bare `break;`
}

func (s *BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`, targeting the innermost enclosing Loop/While.
type ContinueStmt struct{}

func (s *ContinueStmt) stmtNode() {}

// ExprStmt evaluates an expression and discards its value.
type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) stmtNode() {}
