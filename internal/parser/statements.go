package parser

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/token"
)

// parseBlockExpr parses `{ stmt* [tail] }`. loop/while may stand as a bare
// statement without a trailing `;` (§4.3); every other expression used in
// statement position needs one. Any expression, loop/while included, that
// is immediately followed by the closing brace with no `;` is the block's
// tail.
func (p *Parser) parseBlockExpr() (*ast.BlockExpr, *diag.Diagnostic) {
	start, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}

	var stmts []ast.Stmt
	var tail ast.Expr

	for !p.check(token.RBRACE) {
		stmt, tailExpr, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		if tailExpr != nil {
			tail = tailExpr
			break
		}
		stmts = append(stmts, stmt)
	}

	end, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.BlockExpr{Stmts: stmts, Tail: tail, Span_: merge(start.Span, end.Span)}, nil
}

// parseBlockItem parses one element of a block body. It returns either a
// Stmt (stmt != nil) or, when it recognizes a trailing tail expression with
// no semicolon before `}`, the tail Expr directly (tail != nil).
func (p *Parser) parseBlockItem() (ast.Stmt, ast.Expr, *diag.Diagnostic) {
	switch p.cur().Kind {
	case token.LET:
		s, err := p.parseLetStmt()
		return s, nil, err
	case token.RETURN:
		s, err := p.parseReturnStmt()
		return s, nil, err
	case token.BREAK:
		s, err := p.parseBreakStmt()
		return s, nil, err
	case token.CONTINUE:
		s, err := p.parseContinueStmt()
		return s, nil, err
	case token.IDENT:
		if p.peekAt(1).Kind == token.ASSIGN {
			s, err := p.parseAssignStmt()
			return s, nil, err
		}
	}

	exprStart := p.cur()
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, nil, err
	}

	switch expr.(type) {
	case *ast.LoopExpr, *ast.WhileExpr:
		if p.check(token.SEMI) {
			p.advance()
		} else if p.check(token.RBRACE) {
			// Last item before `}` with no `;`: the block's tail.
			return nil, expr, nil
		}
		return &ast.ExprStmt{Expr: expr, Span_: expr.Pos()}, nil, nil
	}

	if p.check(token.SEMI) {
		semi := p.advance()
		return &ast.ExprStmt{Expr: expr, Span_: merge(exprStart.Span, semi.Span)}, nil, nil
	}

	// No semicolon: this is the block's tail expression, so `}` must follow.
	if !p.check(token.RBRACE) {
		return nil, nil, diag.New(diag.ParseError, p.cur().Span,
			"expected ';' after statement, found %s", p.cur().Kind)
	}
	return nil, expr, nil
}

func (p *Parser) parseLetStmt() (ast.Stmt, *diag.Diagnostic) {
	start, err := p.expect(token.LET)
	if err != nil {
		return nil, err
	}
	mut := false
	if p.check(token.MUT) {
		p.advance()
		mut = true
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if p.check(token.COLON) {
		p.advance()
		typ, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.LetStmt{Name: name.Literal, Mut: mut, Type: typ, Init: init, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseAssignStmt() (ast.Stmt, *diag.Diagnostic) {
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Name: name.Literal, Value: value, Span_: merge(name.Span, end.Span)}, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, *diag.Diagnostic) {
	start, err := p.expect(token.RETURN)
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if !p.check(token.SEMI) {
		value, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: value, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseBreakStmt() (ast.Stmt, *diag.Diagnostic) {
	start, err := p.expect(token.BREAK)
	if err != nil {
		return nil, err
	}
	var value ast.Expr
	if !p.check(token.SEMI) {
		value, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.BreakStmt{Value: value, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseContinueStmt() (ast.Stmt, *diag.Diagnostic) {
	start, err := p.expect(token.CONTINUE)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.ContinueStmt{Span_: merge(start.Span, end.Span)}, nil
}
