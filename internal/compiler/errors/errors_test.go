package errors

import (
	"strings"
	"testing"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		expected string
	}{
		{
			"with file",
			Position{File: "test.lsl", Line: 10, Column: 5},
			"test.lsl:10:5",
		},
		{
			"without file",
			Position{Line: 10, Column: 5},
			"10:5",
		},
		{
			"line 1 column 1",
			Position{Line: 1, Column: 1},
			"1:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.pos.String()
			if result != tt.expected {
				t.Errorf("Position.String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestLexErrorError(t *testing.T) {
	err := &LexError{Pos: Position{Line: 4, Column: 2}, Reason: "unterminated string"}
	expected := "lex error at 4:2: unterminated string"
	if err.Error() != expected {
		t.Errorf("LexError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestParseErrorError(t *testing.T) {
	err := &ParseError{Pos: Position{Line: 1, Column: 1}, Expected: "}", Got: "EOF"}
	expected := "parse error at 1:1: expected }, got EOF"
	if err.Error() != expected {
		t.Errorf("ParseError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestListAddAndHasErrors(t *testing.T) {
	l := NewList()
	if l.HasErrors() {
		t.Error("empty list should not have errors")
	}

	l.Warn(PhaseSandbox, Position{Line: 1}, "Import stripped")
	if l.HasErrors() {
		t.Error("a warning-only list should not report HasErrors")
	}

	l.Error(PhaseParser, Position{Line: 5, Column: 10}, "expected semicolon")
	if !l.HasErrors() {
		t.Error("list with an error diagnostic should report HasErrors")
	}

	if len(l.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(l.Items))
	}
}

func TestListString(t *testing.T) {
	l := NewList()
	l.Error(PhaseLexer, Position{Line: 1, Column: 5}, "unexpected character")
	l.Error(PhaseParser, Position{Line: 3, Column: 10}, "expected '}'")

	result := l.String()
	if !strings.Contains(result, "[lexer] error 1:5: unexpected character") {
		t.Errorf("String() missing first error, got: %s", result)
	}
	if !strings.Contains(result, "[parser] error 3:10: expected '}'") {
		t.Errorf("String() missing second error, got: %s", result)
	}
}

func TestListStringEmpty(t *testing.T) {
	l := NewList()
	if l.String() != "" {
		t.Errorf("empty List.String() = %q, want empty", l.String())
	}
}
