// Package parser turns an LSL token stream into the AST defined in
// internal/compiler/ast, building the TypeTracker and FunctionResolver
// side tables along the way.
package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/errors"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/lexer"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/token"
)

// Precedence levels for the Pratt expression parser.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SHIFT       // << >>
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // unary ! - ~ ++ --
	CALL        // call(), index[], postfix ++ --
)

var precedences = map[token.TokenType]int{
	token.OR:              OR,
	token.AND:             AND,
	token.BIT_OR:          BITOR,
	token.BIT_XOR:         BITXOR,
	token.BIT_AND:         BITAND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.LT:              LESSGREATER,
	token.GT:              LESSGREATER,
	token.LT_EQ:           LESSGREATER,
	token.GT_EQ:           LESSGREATER,
	token.SHL:             SHIFT,
	token.SHR:             SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.LPAREN:          CALL,
	token.LBRACKET:        CALL,
	token.INC:             CALL,
	token.DEC:             CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser is a recursive-descent / Pratt parser over a single LSL source.
type Parser struct {
	l         *lexer.Lexer
	curToken  token.Token
	peekToken token.Token

	diags *errors.List
	funcs *FunctionResolver

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// Parse lexes and parses source, returning the AST and the accumulated
// diagnostics (empty unless a phase reported a warning or error).
func Parse(source string) (*ast.TranslationUnit, *errors.List) {
	p := &Parser{
		l:     lexer.New(source),
		diags: errors.NewList(),
		funcs: NewFunctionResolver(),
	}
	p.registerParseFns()

	p.nextToken()
	p.nextToken()

	unit := &ast.TranslationUnit{}
	seenStates := map[string]bool{}

	for !p.curTokenIs(token.EOF) {
		switch {
		case p.curTokenIs(token.DEFAULT) || p.curTokenIs(token.STATE):
			state := p.parseStateBlock()
			if state != nil {
				if seenStates[state.Name] {
					p.error("duplicate state %q", state.Name)
				} else {
					seenStates[state.Name] = true
					unit.States = append(unit.States, state)
				}
			}
			p.nextToken()

		case token.IsTypeKeyword(p.curToken.Type):
			switch decl := p.parseGlobalDeclOrFunc().(type) {
			case *ast.VarDecl:
				unit.Globals = append(unit.Globals, decl)
			case *ast.FuncDecl:
				unit.Funcs = append(unit.Funcs, decl)
				p.funcs.RecordUserFunc(decl)
			}
			p.nextToken()

		case p.curTokenIs(token.IDENT):
			fn := p.parseFuncDeclFromNamed(ast.TypeVoid, p.curToken.Literal, p.curToken.Pos.Line)
			if fn != nil {
				unit.Funcs = append(unit.Funcs, fn)
				p.funcs.RecordUserFunc(fn)
			}
			p.nextToken()

		default:
			p.error("expected a global declaration, function, or state block, got %s", p.curToken.Type)
			p.synchronize()
			p.nextToken()
		}
	}

	if len(unit.States) == 0 {
		p.error("a script must declare at least one state")
	} else if unit.States[0].Name != "default" {
		p.error("the first state must be %q, got %q", "default", unit.States[0].Name)
	}

	tt := NewTypeTracker(p.funcs, p.diags)
	tt.Resolve(unit)

	return unit, p.diags
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		if lexErr, ok := err.(*errors.LexError); ok {
			p.diags.Error(errors.PhaseLexer, lexErr.Pos, "%s", lexErr.Reason)
		}
		tok.Type = token.ILLEGAL
	}
	p.peekToken = tok
}

func (p *Parser) posOf(tok token.Token) errors.Position {
	return errors.Position{Line: tok.Pos.Line, Column: tok.Pos.Column, Offset: tok.Pos.Offset}
}

func (p *Parser) error(format string, args ...interface{}) {
	p.diags.Error(errors.PhaseParser, p.posOf(p.curToken), format, args...)
}

func (p *Parser) peekError(expected string) {
	p.diags.Error(errors.PhaseParser, p.posOf(p.peekToken), "expected %s, got %s", expected, p.peekToken.Type)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(string(t))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) registerPrefix(t token.TokenType, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.TokenType, fn infixParseFn)   { p.infixParseFns[t] = fn }

// synchronize advances past the current construct to the next statement
// boundary (';' or '}') so parsing can continue after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func typeFromToken(t token.TokenType) ast.Type {
	switch t {
	case token.INTEGER:
		return ast.TypeInteger
	case token.FLOAT_T:
		return ast.TypeFloat
	case token.STRING_T:
		return ast.TypeString
	case token.KEY_T:
		return ast.TypeKey
	case token.LIST_T:
		return ast.TypeList
	case token.VECTOR_T:
		return ast.TypeVector
	case token.ROT_T:
		return ast.TypeRotation
	default:
		return ast.TypeVoid
	}
}

func assignOpFor(t token.TokenType) (string, bool) {
	switch t {
	case token.ASSIGN:
		return "=", true
	case token.PLUS_ASSIGN:
		return "+=", true
	case token.MINUS_ASSIGN:
		return "-=", true
	case token.ASTERISK_ASSIGN:
		return "*=", true
	case token.SLASH_ASSIGN:
		return "/=", true
	case token.PERCENT_ASSIGN:
		return "%=", true
	default:
		return "", false
	}
}

func (p *Parser) registerParseFns() {
	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:   p.parseIdentifier,
		token.INT:     p.parseIntLiteral,
		token.FLOAT:   p.parseFloatLiteral,
		token.STRING:  p.parseStringLiteral,
		token.LT:      p.parseVectorOrRotationLiteral,
		token.LBRACKET: p.parseListLiteral,
		token.LPAREN:  p.parseGroupedOrCastExpression,
		token.BANG:    p.parseUnaryExpression,
		token.MINUS:   p.parseUnaryExpression,
		token.BIT_NOT: p.parseUnaryExpression,
		token.INC:     p.parseUnaryExpression,
		token.DEC:     p.parseUnaryExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseBinaryExpression,
		token.MINUS:    p.parseBinaryExpression,
		token.ASTERISK: p.parseBinaryExpression,
		token.SLASH:    p.parseBinaryExpression,
		token.PERCENT:  p.parseBinaryExpression,
		token.EQ:       p.parseBinaryExpression,
		token.NOT_EQ:   p.parseBinaryExpression,
		token.LT:       p.parseBinaryExpression,
		token.GT:       p.parseBinaryExpression,
		token.LT_EQ:    p.parseBinaryExpression,
		token.GT_EQ:    p.parseBinaryExpression,
		token.AND:      p.parseBinaryExpression,
		token.OR:       p.parseBinaryExpression,
		token.BIT_AND:  p.parseBinaryExpression,
		token.BIT_OR:   p.parseBinaryExpression,
		token.BIT_XOR:  p.parseBinaryExpression,
		token.SHL:      p.parseBinaryExpression,
		token.SHR:      p.parseBinaryExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.INC:      p.parsePostfixExpression,
		token.DEC:      p.parsePostfixExpression,
	}
}
