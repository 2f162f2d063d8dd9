// Package errors defines the positioned error and diagnostic types shared by
// every phase of the LSL-to-TSL pipeline (lexer, parser, code generator,
// sandbox transform). No phase panics or returns a bare error to its caller;
// findings are collected into a List and carried forward as diagnostics.
package errors

import "fmt"

// Position locates a token or AST node in LSL source.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LexError is raised by the lexer on an unterminated string or invalid escape.
type LexError struct {
	Pos    Position
	Reason string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Pos, e.Reason)
}

// ParseError describes a missing required token. The parser itself records
// its findings as diagnostics in a List and does not construct a ParseError.
type ParseError struct {
	Pos      Position
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: expected %s, got %s", e.Pos, e.Expected, e.Got)
}

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Phase names the pipeline stage that produced a Diagnostic.
type Phase string

const (
	PhaseLexer   Phase = "lexer"
	PhaseParser  Phase = "parser"
	PhaseCodegen Phase = "codegen"
	PhaseSandbox Phase = "sandbox"
	PhaseBundle  Phase = "bundle"
)

// Diagnostic is a single positioned finding surfaced to the caller of a
// pipeline phase. Diagnostics never interrupt generation; only the
// accumulated severity decides success.
type Diagnostic struct {
	Severity Severity
	Phase    Phase
	Message  string
	Pos      Position
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", d.Phase, d.Severity, d.Pos, d.Message)
}

// List accumulates diagnostics across a compilation run.
type List struct {
	Items []Diagnostic
}

func NewList() *List {
	return &List{}
}

func (l *List) Add(severity Severity, phase Phase, pos Position, format string, args ...interface{}) {
	l.Items = append(l.Items, Diagnostic{
		Severity: severity,
		Phase:    phase,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

func (l *List) Error(phase Phase, pos Position, format string, args ...interface{}) {
	l.Add(SeverityError, phase, pos, format, args...)
}

func (l *List) Warn(phase Phase, pos Position, format string, args ...interface{}) {
	l.Add(SeverityWarning, phase, pos, format, args...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l *List) HasErrors() bool {
	for _, d := range l.Items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (l *List) String() string {
	s := ""
	for _, d := range l.Items {
		s += d.String() + "\n"
	}
	return s
}
