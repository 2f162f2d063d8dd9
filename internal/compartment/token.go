package compartment

// tokenType enumerates the lexical categories the TSL evaluator's scanner
// recognizes. This is a much smaller vocabulary than the LSL lexer's
// (internal/compiler/token): just enough to cover the subset of TSL the
// Code Generator (C3) actually emits — classes, async methods, object/
// array literals, the usual expression/statement forms, and no generics,
// decorators, or destructuring.
type tokenType string

const (
	tEOF     tokenType = "EOF"
	tIdent   tokenType = "IDENT"
	tNumber  tokenType = "NUMBER"
	tString  tokenType = "STRING"
	tKeyword tokenType = "KEYWORD"
	tPunct   tokenType = "PUNCT"
)

type token struct {
	typ     tokenType
	literal string
	line    int
}

var keywords = map[string]bool{
	"class": true, "extends": true, "async": true, "await": true,
	"function": true, "let": true, "const": true, "var": true,
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"return": true, "true": true, "false": true, "null": true, "undefined": true,
	"new": true, "this": true, "throw": true, "try": true, "catch": true,
	"finally": true, "of": true, "in": true, "typeof": true,
}
