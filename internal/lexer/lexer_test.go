package lexer

import (
	"testing"

	"github.com/bpc-lang/bpc/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks, err := Lex([]byte("fn main mut_x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.FN, token.IDENT, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[1].Literal != "main" {
		t.Errorf("literal = %q, want main", toks[1].Literal)
	}
}

func TestLexMaximalMunch(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"->", []token.Kind{token.ARROW, token.EOF}},
		{"-", []token.Kind{token.MINUS, token.EOF}},
		{"==", []token.Kind{token.EQ, token.EOF}},
		{"=", []token.Kind{token.ASSIGN, token.EOF}},
		{"!=", []token.Kind{token.NE, token.EOF}},
		{"!", []token.Kind{token.BANG, token.EOF}},
		{"<<", []token.Kind{token.SHL, token.EOF}},
		{"<=", []token.Kind{token.LE, token.EOF}},
		{"<", []token.Kind{token.LT, token.EOF}},
		{">>", []token.Kind{token.SHR, token.EOF}},
		{">=", []token.Kind{token.GE, token.EOF}},
		{">", []token.Kind{token.GT, token.EOF}},
		{"&&", []token.Kind{token.ANDAND, token.EOF}},
		{"&", []token.Kind{token.AMP, token.EOF}},
		{"||", []token.Kind{token.OROR, token.EOF}},
		{"|", []token.Kind{token.PIPE, token.EOF}},
	}
	for _, c := range cases {
		toks, err := Lex([]byte(c.src))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.src, err)
		}
		got := kinds(toks)
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %v, want %v", c.src, got, c.want)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%q: token %d: got %v, want %v", c.src, i, got[i], c.want[i])
			}
		}
	}
}

func TestLexIntegerSuffixes(t *testing.T) {
	toks, err := Lex([]byte("42i8 7u64 9"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].IntValue != 42 || toks[0].IntSuffix != token.I8 {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].IntValue != 7 || toks[1].IntSuffix != token.U64 {
		t.Errorf("token 1 = %+v", toks[1])
	}
	if toks[2].IntValue != 9 || toks[2].IntSuffix != token.NoIntSuffix {
		t.Errorf("token 2 = %+v", toks[2])
	}
}

func TestLexFloatSuffixAndDefault(t *testing.T) {
	toks, err := Lex([]byte("1.5f64 2.25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].FloatValue != 1.5 || toks[0].FloatSuffix != token.F64 {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[1].FloatValue != 2.25 || toks[1].FloatSuffix != token.NoFloatSuffix {
		t.Errorf("token 1 = %+v", toks[1])
	}
}

func TestLexFloatWithIntSuffixIsError(t *testing.T) {
	_, err := Lex([]byte("1.5i32"))
	if err == nil {
		t.Fatal("expected a lex error for a float literal with an integer suffix")
	}
}

func TestLexCharLiteralsAndEscapes(t *testing.T) {
	toks, err := Lex([]byte(`'a' '\n' '\\' '\''`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []rune{'a', '\n', '\\', '\''}
	for i, w := range want {
		if toks[i].CharValue != w {
			t.Errorf("char %d: got %q, want %q", i, toks[i].CharValue, w)
		}
	}
}

func TestLexMultiCharLiteralIsError(t *testing.T) {
	_, err := Lex([]byte("'ab'"))
	if err == nil {
		t.Fatal("expected a lex error for a multi-character character literal")
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks, err := Lex([]byte(`"hello\nworld"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(toks[0].StringValue) != "hello\nworld" {
		t.Errorf("got %q", toks[0].StringValue)
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	_, err := Lex([]byte(`"abc`))
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string literal")
	}
}

func TestLexLineComment(t *testing.T) {
	toks, err := Lex([]byte("let x = 1; // trailing comment\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexUnknownCharacter(t *testing.T) {
	_, err := Lex([]byte("let x = @;"))
	if err == nil {
		t.Fatal("expected a lex error for an unknown character")
	}
}

func TestLexSpansAreByteOffsets(t *testing.T) {
	toks, err := Lex([]byte("fn main"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != 2 {
		t.Errorf("fn span = %+v, want [0,2)", toks[0].Span)
	}
	if toks[1].Span.Start != 3 || toks[1].Span.End != 7 {
		t.Errorf("main span = %+v, want [3,7)", toks[1].Span)
	}
}
