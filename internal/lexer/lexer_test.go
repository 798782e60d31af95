package lexer

import (
	"testing"

	"github.com/novalang/novac/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestLexesDeclarationWithTypeAnnotation(t *testing.T) {
	toks := collect(`let x: number = 1;`)
	want := []token.TokenType{token.LET, token.IDENT, token.COLON, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(toks), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: expected %s, got %s", i, tt, toks[i].Type)
		}
	}
}

func TestLexesGenericArrowAndUnion(t *testing.T) {
	toks := collect(`<T>(x: T): T | null => x`)
	var types []token.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	containsInOrder(t, types, []token.TokenType{token.LT, token.IDENT, token.GT, token.LPAREN, token.IDENT, token.COLON, token.IDENT, token.RPAREN, token.COLON, token.IDENT, token.PIPE, token.NULL, token.ARROW, token.IDENT, token.EOF})
}

func containsInOrder(t *testing.T, got, want []token.TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSkipsLineAndBlockComments(t *testing.T) {
	toks := collect("// comment\nlet /* inline */ x = 1")
	if toks[0].Type != token.LET {
		t.Errorf("expected comments to be skipped, got first token %s", toks[0].Type)
	}
}

func TestStringEscapesAndNumberLiteral(t *testing.T) {
	toks := collect(`"a\nb" 3.14`)
	if toks[0].Literal != "a\nb" {
		t.Errorf("expected escaped newline in string literal, got %q", toks[0].Literal)
	}
	if toks[1].Literal != 3.14 {
		t.Errorf("expected parsed float literal, got %v", toks[1].Literal)
	}
}
