package ast

import (
	"github.com/bpc-lang/bpc/internal/span"
	"github.com/bpc-lang/bpc/internal/token"
)

// Identifier is a variable, parameter, constant, or function-name reference.
type Identifier struct {
	Name  string
	Span_ span.Span
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() span.Span { return e.Span_ }

// IntegerLiteral is an integer literal, with its optional suffix preserved
// from the lexer so the checker can apply §4.4's literal-typing rules.
type IntegerLiteral struct {
	Value  uint64
	Suffix token.IntSuffix
	Span_  span.Span
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() span.Span { return e.Span_ }

// FloatLiteral is a float literal.
type FloatLiteral struct {
	Value  float64
	Suffix token.FloatSuffix
	Span_  span.Span
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() span.Span { return e.Span_ }

// CharLiteral is a character literal; its type is always i32 (§4.4).
type CharLiteral struct {
	Value rune
	Span_ span.Span
}

func (e *CharLiteral) exprNode()     {}
func (e *CharLiteral) Pos() span.Span { return e.Span_ }

// StringLiteral holds validated UTF-8 bytes; lowered to [u8; N] at check
// time (§4.2, §4.4, §9 "String literals as arrays").
type StringLiteral struct {
	Value []byte
	Span_ span.Span
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() span.Span { return e.Span_ }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	Value bool
	Span_ span.Span
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() span.Span { return e.Span_ }

// UnaryExpr is `-x`, `!x`, or `x as T` (cast is parsed separately as
// CastExpr; UnaryExpr only covers the prefix operators).
type UnaryExpr struct {
	Op      string // "-" or "!"
	Operand Expr
	Span_   span.Span
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() span.Span { return e.Span_ }

// CastExpr is the postfix `e as T` cast.
type CastExpr struct {
	Operand Expr
	Type    TypeExpr
	Span_   span.Span
}

func (e *CastExpr) exprNode()     {}
func (e *CastExpr) Pos() span.Span { return e.Span_ }

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span_ span.Span
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() span.Span { return e.Span_ }

// GroupExpr is a parenthesized expression, kept in the AST only to preserve
// the exact span of the parentheses; it carries no semantic weight beyond
// its Inner expression.
type GroupExpr struct {
	Inner Expr
	Span_ span.Span
}

func (e *GroupExpr) exprNode()     {}
func (e *GroupExpr) Pos() span.Span { return e.Span_ }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee     string
	CalleeSpan span.Span
	Args       []Expr
	Span_      span.Span
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() span.Span { return e.Span_ }

// BlockExpr is `{ stmts... [tail] }`. A block with no Tail evaluates to unit.
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr // nil if the block has no tail expression
	Span_ span.Span
}

func (e *BlockExpr) exprNode()     {}
func (e *BlockExpr) Pos() span.Span { return e.Span_ }

// IfExpr is `if cond { ... } [else (if ... | { ... })]`. Else is nil, a
// *BlockExpr, or a nested *IfExpr (an else-if chain).
type IfExpr struct {
	Cond  Expr
	Then  *BlockExpr
	Else  Expr
	Span_ span.Span
}

func (e *IfExpr) exprNode()     {}
func (e *IfExpr) Pos() span.Span { return e.Span_ }

// LoopExpr is `loop { ... }`.
type LoopExpr struct {
	Body  *BlockExpr
	Span_ span.Span
}

func (e *LoopExpr) exprNode()     {}
func (e *LoopExpr) Pos() span.Span { return e.Span_ }

// WhileExpr is `while cond { ... }`.
type WhileExpr struct {
	Cond  Expr
	Body  *BlockExpr
	Span_ span.Span
}

func (e *WhileExpr) exprNode()     {}
func (e *WhileExpr) Pos() span.Span { return e.Span_ }

// ArrayRepeatExpr is `[elem; len]`.
type ArrayRepeatExpr struct {
	Elem  Expr
	Len   Expr
	Span_ span.Span
}

func (e *ArrayRepeatExpr) exprNode()     {}
func (e *ArrayRepeatExpr) Pos() span.Span { return e.Span_ }

// ArrayListExpr is `[e0, e1, ...]`.
type ArrayListExpr struct {
	Elems []Expr
	Span_ span.Span
}

func (e *ArrayListExpr) exprNode()     {}
func (e *ArrayListExpr) Pos() span.Span { return e.Span_ }

// IndexExpr is `array[index]`.
type IndexExpr struct {
	Array Expr
	Index Expr
	Span_ span.Span
}

func (e *IndexExpr) exprNode()     {}
func (e *IndexExpr) Pos() span.Span { return e.Span_ }
