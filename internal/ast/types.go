package ast

import "github.com/bpc-lang/bpc/internal/span"

// TypeExpr is a syntactic type: a name (primitive or alias) or an array
// shape. The resolver (internal/check) expands these to internal/types.Type.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is an identifier used in type position: a primitive name like
// i32, or a type alias introduced by a `type` item.
type NamedType struct {
	Name string
	Span_ span.Span
}

func (t *NamedType) typeExprNode()  {}
func (t *NamedType) Pos() span.Span { return t.Span_ }

// ArrayType is `[Elem; Len]`. Len is always an integer literal; BP has no
// const-expression array lengths beyond a literal (§3).
type ArrayType struct {
	Elem  TypeExpr
	Len   *IntegerLiteral
	Span_ span.Span
}

func (t *ArrayType) typeExprNode()  {}
func (t *ArrayType) Pos() span.Span { return t.Span_ }
