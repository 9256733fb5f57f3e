// Package parser implements BP's recursive-descent item/statement parser and
// Pratt expression parser (§4.3). Grounded on the teacher's
// internal/parser/parser.go (a cursor over a token stream with expect/check
// helpers) and internal/parser/operators.go (a precedence-table driven
// binary-expression parser) — generalized from DWScript's Pascal-flavoured
// grammar to BP's much smaller Rust-flavoured one, and simplified from the
// teacher's error-recovery parser (internal/parser/error_recovery.go) to
// BP's "first error aborts, no recovery" rule (§4.3).
package parser

import (
	"github.com/bpc-lang/bpc/internal/ast"
	"github.com/bpc-lang/bpc/internal/diag"
	"github.com/bpc-lang/bpc/internal/lexer"
	"github.com/bpc-lang/bpc/internal/span"
	"github.com/bpc-lang/bpc/internal/token"
)

func lexSrc(src []byte) ([]token.Token, *diag.Diagnostic) {
	return lexer.Lex(src)
}

// Parser consumes a token slice produced by internal/lexer and builds an
// untyped ast.Program.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over toks, which must end with an EOF token.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse lexes and parses src in one call, for callers that don't need the
// intermediate token slice.
func Parse(src []byte) (*ast.Program, *diag.Diagnostic) {
	toks, err := lexSrc(src)
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *Parser) check(k token.Kind) bool {
	return p.cur().Kind == k
}

func (p *Parser) atEnd() bool {
	return p.cur().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, *diag.Diagnostic) {
	if p.cur().Kind != k {
		return token.Token{}, diag.New(diag.ParseError, p.cur().Span,
			"expected %s, found %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func merge(spans ...span.Span) span.Span {
	out := spans[0]
	for _, s := range spans[1:] {
		out = span.Merge(out, s)
	}
	return out
}

// ParseProgram parses a full BP source file: an ordered sequence of items.
func (p *Parser) ParseProgram() (*ast.Program, *diag.Diagnostic) {
	prog := &ast.Program{}
	for !p.atEnd() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, nil
}

func (p *Parser) parseItem() (ast.Item, *diag.Diagnostic) {
	switch p.cur().Kind {
	case token.FN:
		return p.parseFunction()
	case token.CONST:
		return p.parseConst()
	case token.TYPE:
		return p.parseTypeAlias()
	default:
		return nil, diag.New(diag.ParseError, p.cur().Span,
			"expected an item (fn, const, or type), found %s", p.cur().Kind)
	}
}

func (p *Parser) parseFunction() (*ast.FunctionItem, *diag.Diagnostic) {
	start, err := p.expect(token.FN)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Param
	for !p.check(token.RPAREN) {
		pstart := p.cur()
		pname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ptyp, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{
			Name: pname.Literal, Type: ptyp,
			Span_: merge(pstart.Span, ptyp.Pos()),
		})
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	var ret ast.TypeExpr
	if p.check(token.ARROW) {
		p.advance()
		ret, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlockExpr()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionItem{
		Name: name.Literal, Params: params, Ret: ret, Body: body,
		Span_: merge(start.Span, body.Span_),
	}, nil
}

func (p *Parser) parseConst() (*ast.ConstItem, *diag.Diagnostic) {
	start, err := p.expect(token.CONST)
	if err != nil {
		return nil, err
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
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.ConstItem{Name: name.Literal, Type: typ, Value: value, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseTypeAlias() (*ast.TypeAliasItem, *diag.Diagnostic) {
	start, err := p.expect(token.TYPE)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(token.SEMI)
	if err != nil {
		return nil, err
	}
	return &ast.TypeAliasItem{Name: name.Literal, Type: typ, Span_: merge(start.Span, end.Span)}, nil
}

func (p *Parser) parseTypeExpr() (ast.TypeExpr, *diag.Diagnostic) {
	if p.check(token.LBRACKET) {
		start := p.advance()
		elem, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		lenTok, err := p.expect(token.INT)
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RBRACKET)
		if err != nil {
			return nil, err
		}
		lenLit := &ast.IntegerLiteral{Value: lenTok.IntValue, Suffix: lenTok.IntSuffix, Span_: lenTok.Span}
		return &ast.ArrayType{Elem: elem, Len: lenLit, Span_: merge(start.Span, end.Span)}, nil
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.NamedType{Name: name.Literal, Span_: name.Span}, nil
}
