package parser

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/token"
)

// binaryPrecedence is the table from §4.3 (higher binds tighter). Unary -/!
// and postfix `as` are handled outside this table, in parseUnaryLevel.
var binaryPrecedence = map[token.Kind]int{
	token.STAR: 20, token.SLASH: 20, token.PERCENT: 20,
	token.PLUS: 10, token.MINUS: 10,
	token.SHL: 9, token.SHR: 9,
	token.AMP: 8,
	token.CARET: 7,
	token.PIPE: 6,
	token.EQ: 5, token.NE: 5, token.LT: 5, token.LE: 5, token.GT: 5, token.GE: 5,
	token.ANDAND: 3,
	token.OROR: 2,
}

// parseExpr implements precedence climbing over binaryPrecedence; all
// operators in the table are left-associative, so the recursive call for
// the right-hand side raises the minimum precedence by one.
func (p *Parser) parseExpr(minPrec int) (ast.Expr, *diag.Diagnostic) {
	left, err := p.parseUnaryLevel()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binaryPrecedence[p.cur().Kind]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: opTok.Literal, Left: left, Right: right, Span_: merge(left.Pos(), right.Pos())}
	}
	return left, nil
}

// parseUnaryLevel handles prefix `-`/`!` and the postfix `as T` cast, which
// share a single precedence level above the binary operators and below
// postfix call/index (§4.3).
func (p *Parser) parseUnaryLevel() (ast.Expr, *diag.Diagnostic) {
	var node ast.Expr
	if p.check(token.MINUS) || p.check(token.BANG) {
		opTok := p.advance()
		operand, err := p.parseUnaryLevel()
		if err != nil {
			return nil, err
		}
		node = &ast.UnaryExpr{Op: opTok.Literal, Operand: operand, Span_: merge(opTok.Span, operand.Pos())}
	} else {
		var err *diag.Diagnostic
		node, err = p.parsePostfixChain()
		if err != nil {
			return nil, err
		}
	}

	for p.check(token.AS) {
		p.advance()
		typ, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		node = &ast.CastExpr{Operand: node, Type: typ, Span_: merge(node.Pos(), typ.Pos())}
	}
	return node, nil
}

// parsePostfixChain handles index postfixes, the tightest-binding operators
// in the grammar; calls are recognized in parsePrimary.
func (p *Parser) parsePostfixChain() (ast.Expr, *diag.Diagnostic) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if p.check(token.LBRACKET) {
			p.advance()
			idx, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBRACKET)
			if err != nil {
				return nil, err
			}
			node = &ast.IndexExpr{Array: node, Index: idx, Span_: merge(node.Pos(), end.Span)}
			continue
		}
		break
	}
	return node, nil
}

func (p *Parser) parsePrimary() (ast.Expr, *diag.Diagnostic) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.advance()
		return &ast.IntegerLiteral{Value: tok.IntValue, Suffix: tok.IntSuffix, Span_: tok.Span}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Value: tok.FloatValue, Suffix: tok.FloatSuffix, Span_: tok.Span}, nil
	case token.CHAR:
		p.advance()
		return &ast.CharLiteral{Value: tok.CharValue, Span_: tok.Span}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.StringValue, Span_: tok.Span}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true, Span_: tok.Span}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false, Span_: tok.Span}, nil
	case token.IDENT:
		if p.peekAt(1).Kind == token.LPAREN {
			return p.parseCall()
		}
		p.advance()
		return &ast.Identifier{Name: tok.Literal, Span_: tok.Span}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.GroupExpr{Inner: inner, Span_: merge(tok.Span, end.Span)}, nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.IF:
		return p.parseIfExpr()
	case token.LOOP:
		return p.parseLoopExpr()
	case token.WHILE:
		return p.parseWhileExpr()
	case token.LBRACE:
		return p.parseBlockExpr()
	default:
		return nil, diag.New(diag.ParseError, tok.Span, "unexpected token %s in expression", tok.Kind)
	}
}

func (p *Parser) parseCall() (ast.Expr, *diag.Diagnostic) {
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.check(token.RPAREN) {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(token.COMMA) {
			p.advance()
			if p.check(token.RPAREN) {
				break // trailing comma
			}
			continue
		}
		break
	}
	end, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: nameTok.Literal, CalleeSpan: nameTok.Span, Args: args, Span_: merge(nameTok.Span, end.Span)}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, *diag.Diagnostic) {
	start := p.advance() // consume '['
	if p.check(token.RBRACKET) {
		end := p.advance()
		return &ast.ArrayListExpr{Span_: merge(start.Span, end.Span)}, nil
	}

	first, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}

	if p.check(token.SEMI) {
		p.advance()
		length, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayRepeatExpr{Elem: first, Len: length, Span_: merge(start.Span, end.Span)}, nil
	}

	elems := []ast.Expr{first}
	for p.check(token.COMMA) {
		p.advance()
		if p.check(token.RBRACKET) {
			break // trailing comma
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBRACKET)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayListExpr{Elems: elems, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseIfExpr() (ast.Expr, *diag.Diagnostic) {
	start, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	endSpan := then.Span_
	var elseExpr ast.Expr
	if p.check(token.ELSE) {
		p.advance()
		if p.check(token.IF) {
			elseExpr, err = p.parseIfExpr()
		} else {
			elseExpr, err = p.parseBlockExpr()
		}
		if err != nil {
			return nil, err
		}
		endSpan = elseExpr.Pos()
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseExpr, Span_: merge(start.Span, endSpan)}, nil
}

func (p *Parser) parseLoopExpr() (ast.Expr, *diag.Diagnostic) {
	start, err := p.expect(token.LOOP)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LoopExpr{Body: body, Span_: merge(start.Span, body.Span_)}, nil
}

func (p *Parser) parseWhileExpr() (ast.Expr, *diag.Diagnostic) {
	start, err := p.expect(token.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}
	return &ast.WhileExpr{Cond: cond, Body: body, Span_: merge(start.Span, body.Span_)}, nil
}
