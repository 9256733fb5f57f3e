// Package ast defines BP's untyped Abstract Syntax Tree (§3), the parser's
// output. Grounded on the teacher's internal/ast/ast.go: a base Node
// interface plus tagged struct variants with an unexported marker method per
// node category, minus the teacher's TokenLiteral() (there is no longer a
// single embedded lexer.Token convention to hang it off, since BP's nodes
// are produced from a token slice rather than one token per node).
package ast

import "github.com/bpc-lang/bpc/internal/span"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() span.Span
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action without itself producing a value.
type Stmt interface {
	Node
	stmtNode()
}

// Item is a top-level declaration: a function, a const, or a type alias.
type Item interface {
	Node
	itemNode()
}

// Program is the root of the AST: an ordered sequence of items.
type Program struct {
	Items []Item
}
