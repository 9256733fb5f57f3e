package ast

import "github.com/bpc-lang/bpc/internal/span"

// Param is a single function parameter: a name and its declared type.
type Param struct {
	Name  string
	Type  TypeExpr
	Span_ span.Span
}

func (p *Param) Pos() span.Span { return p.Span_ }

// FunctionItem is `fn name(params) [-> Ret] { body }`.
type FunctionItem struct {
	Name   string
	Params []*Param
	Ret    TypeExpr // nil means unit
	Body   *BlockExpr
	Span_  span.Span
}

func (i *FunctionItem) itemNode()     {}
func (i *FunctionItem) Pos() span.Span { return i.Span_ }

// ConstItem is `const name [: Type] = value;`.
type ConstItem struct {
	Name  string
	Type  TypeExpr // nil if omitted
	Value Expr
	Span_ span.Span
}

func (i *ConstItem) itemNode()     {}
func (i *ConstItem) Pos() span.Span { return i.Span_ }

// TypeAliasItem is `type Name = Type;`.
type TypeAliasItem struct {
	Name  string
	Type  TypeExpr
	Span_ span.Span
}

func (i *TypeAliasItem) itemNode()     {}
func (i *TypeAliasItem) Pos() span.Span { return i.Span_ }
