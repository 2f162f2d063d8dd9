package lexer

import (
	"testing"

	"github.com/increasinglyHuman/poqpoq/internal/compiler/token"
)

func allTokens(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestBasicTokens(t *testing.T) {
	input := `= + - ! * / % < > ( ) { } [ ] @ : , . ;`

	expected := []token.TokenType{
		token.ASSIGN, token.PLUS, token.MINUS, token.BANG, token.ASTERISK,
		token.SLASH, token.PERCENT, token.LT, token.GT, token.LPAREN, token.RPAREN,
		token.LBRACE, token.RBRACE, token.LBRACKET, token.RBRACKET,
		token.AT, token.COLON, token.COMMA, token.DOT, token.SEMICOLON,
		token.EOF,
	}

	toks := allTokens(t, input)
	for i, exp := range expected {
		if toks[i].Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (literal=%q)", i, exp, toks[i].Type, toks[i].Literal)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	input := `== != <= >= && || ++ -- += -= *= /= %=`
	expected := []token.TokenType{
		token.EQ, token.NOT_EQ, token.LT_EQ, token.GT_EQ, token.AND, token.OR,
		token.INC, token.DEC, token.PLUS_ASSIGN, token.MINUS_ASSIGN,
		token.ASTERISK_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
	}

	toks := allTokens(t, input)
	for i, exp := range expected {
		if toks[i].Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s", i, exp, toks[i].Type)
		}
	}
}

func TestBitwiseOperators(t *testing.T) {
	input := `& | ^ ~ << >>`
	expected := []token.TokenType{
		token.BIT_AND, token.BIT_OR, token.BIT_XOR, token.BIT_NOT, token.SHL, token.SHR,
	}
	toks := allTokens(t, input)
	for i, exp := range expected {
		if toks[i].Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s", i, exp, toks[i].Type)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `default state if else while do for jump return integer float string key list vector rotation`
	expected := []token.TokenType{
		token.DEFAULT, token.STATE, token.IF, token.ELSE, token.WHILE, token.DO,
		token.FOR, token.JUMP, token.RETURN, token.INTEGER, token.FLOAT_T,
		token.STRING_T, token.KEY_T, token.LIST_T, token.VECTOR_T, token.ROT_T,
	}

	toks := allTokens(t, input)
	for i, exp := range expected {
		if toks[i].Type != exp {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s", i, exp, toks[i].Type)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	input := `llSay state_entry touch_start myVar _foo`
	toks := allTokens(t, input)
	for i, want := range []string{"llSay", "state_entry", "touch_start", "myVar", "_foo"} {
		if toks[i].Type != token.IDENT || toks[i].Literal != want {
			t.Fatalf("test[%d] = %s %q, want IDENT %q", i, toks[i].Type, toks[i].Literal, want)
		}
	}
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"42", "42"},
		{"0", "0"},
		{"0x1F", "0x1F"},
		{"0xff", "0xff"},
	}
	for _, tt := range tests {
		toks := allTokens(t, tt.input)
		if toks[0].Type != token.INT || toks[0].Literal != tt.literal {
			t.Errorf("input %q: got %s %q, want INT %q", tt.input, toks[0].Type, toks[0].Literal, tt.literal)
		}
	}
}

func TestFloatLiterals(t *testing.T) {
	tests := []string{"3.14", "0.5", "1.0e10", "2.5e-3", "1.5E+2"}
	for _, in := range tests {
		toks := allTokens(t, in)
		if toks[0].Type != token.FLOAT || toks[0].Literal != in {
			t.Errorf("input %q: got %s %q, want FLOAT %q", in, toks[0].Type, toks[0].Literal, in)
		}
	}
}

func TestFloatExponentBacktrack(t *testing.T) {
	// "1e" with no digits after it is not a valid exponent; the lexer must
	// backtrack and lex the integer followed by a bare identifier.
	toks := allTokens(t, `1e foo`)
	if toks[0].Type != token.INT || toks[0].Literal != "1" {
		t.Fatalf("got %s %q, want INT \"1\"", toks[0].Type, toks[0].Literal)
	}
	if toks[1].Type != token.IDENT || toks[1].Literal != "e" {
		t.Fatalf("got %s %q, want IDENT \"e\"", toks[1].Type, toks[1].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"hello\nworld\t\"quoted\"\\"`
	toks := allTokens(t, input)
	want := "hello\nworld\t\"quoted\"\\"
	if toks[0].Type != token.STRING || toks[0].Literal != want {
		t.Fatalf("got %s %q, want STRING %q", toks[0].Type, toks[0].Literal, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"hello`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected a LexError for an unterminated string")
	}
}

func TestInvalidEscape(t *testing.T) {
	l := New(`"bad\xescape"`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected a LexError for an invalid escape sequence")
	}
}

func TestComments(t *testing.T) {
	input := "// line comment\ninteger x; /* block\ncomment */ float y;"
	toks := allTokens(t, input)
	if toks[0].Type != token.INTEGER {
		t.Fatalf("expected comments to be skipped, got %s first", toks[0].Type)
	}
}

func TestLineTracking(t *testing.T) {
	input := "integer a;\nfloat b;\n"
	l := New(input)
	tok, _ := l.NextToken()
	if tok.Pos.Line != 1 {
		t.Errorf("first token line = %d, want 1", tok.Pos.Line)
	}
	for tok.Type != token.FLOAT_T {
		tok, _ = l.NextToken()
	}
	if tok.Pos.Line != 2 {
		t.Errorf("float keyword line = %d, want 2", tok.Pos.Line)
	}
}

func TestVectorPunctuationIsContextFree(t *testing.T) {
	// The lexer never decides vector-vs-comparison; it always emits LT/GT and
	// leaves disambiguation to the parser.
	toks := allTokens(t, `<1, 2, 3>`)
	if toks[0].Type != token.LT {
		t.Fatalf("expected LT for '<', got %s", toks[0].Type)
	}
	last := toks[len(toks)-2]
	if last.Type != token.GT {
		t.Fatalf("expected GT for '>', got %s", last.Type)
	}
}
