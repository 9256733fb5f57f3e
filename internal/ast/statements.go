package ast

import "github.com/bpc-lang/bpc/internal/span"

// LetStmt is `let [mut] name [: Type] = init;`.
type LetStmt struct {
	Name  string
	Mut   bool
	Type  TypeExpr // nil if omitted
	Init  Expr
	Span_ span.Span
}

func (s *LetStmt) stmtNode()      {}
func (s *LetStmt) Pos() span.Span { return s.Span_ }

// AssignStmt is `name = value;`.
type AssignStmt struct {
	Name  string
	Value Expr
	Span_ span.Span
}

func (s *AssignStmt) stmtNode()      {}
func (s *AssignStmt) Pos() span.Span { return s.Span_ }

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	Value Expr // nil if bare `return;`
	Span_ span.Span
}

func (s *ReturnStmt) stmtNode()      {}
func (s *ReturnStmt) Pos() span.Span { return s.Span_ }

// BreakStmt is `break [value];`.
type BreakStmt struct {
	Value Expr // nil if bare `break;`
	Span_ span.Span
}

func (s *BreakStmt) stmtNode()      {}
func (s *BreakStmt) Pos() span.Span { return s.Span_ }

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	Span_ span.Span
}

func (s *ContinueStmt) stmtNode()      {}
func (s *ContinueStmt) Pos() span.Span { return s.Span_ }

// ExprStmt is any expression used in statement position, followed by `;`.
type ExprStmt struct {
	Expr  Expr
	Span_ span.Span
}

func (s *ExprStmt) stmtNode()      {}
func (s *ExprStmt) Pos() span.Span { return s.Span_ }
