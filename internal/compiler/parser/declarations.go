package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/token"
)

// parseGlobalDeclOrFunc is called with curToken on a type keyword at
// top level. It returns either a *ast.VarDecl or a *ast.FuncDecl depending
// on whether '(' follows the name.
func (p *Parser) parseGlobalDeclOrFunc() ast.Node {
	t := typeFromToken(p.curToken.Type)
	line := p.curToken.Pos.Line

	if !p.expectPeek(token.IDENT) {
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		return p.parseFuncDeclFromNamed(t, name, line)
	}

	var value ast.Expression
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize()
		return nil
	}
	return &ast.VarDecl{Type: t, Name: name, Value: value, Line: line}
}

// parseFuncDeclFromNamed parses "(params) { body }" for a function whose
// return type and name have already been consumed; curToken is the name.
func (p *Parser) parseFuncDeclFromNamed(returnType ast.Type, name string, line int) *ast.FuncDecl {
	if !p.expectPeek(token.LPAREN) {
		p.synchronize()
		return nil
	}
	params := p.parseParams()
	if !p.expectPeek(token.LBRACE) {
		p.synchronize()
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.FuncDecl{Name: name, Params: params, ReturnType: returnType, Body: body.Statements, Line: line}
}

func (p *Parser) parseParams() []*ast.Param {
	params := []*ast.Param{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	for {
		if !token.IsTypeKeyword(p.curToken.Type) {
			p.error("expected a parameter type, got %s", p.curToken.Type)
			return params
		}
		t := typeFromToken(p.curToken.Type)
		if !p.expectPeek(token.IDENT) {
			return params
		}
		params = append(params, &ast.Param{Type: t, Name: p.curToken.Literal})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

// parseStateBlock is called with curToken on DEFAULT or STATE.
func (p *Parser) parseStateBlock() *ast.StateBlock {
	line := p.curToken.Pos.Line
	name := "default"

	if p.curTokenIs(token.STATE) {
		if !p.expectPeek(token.IDENT) {
			p.synchronize()
			return nil
		}
		name = p.curToken.Literal
	}

	if !p.expectPeek(token.LBRACE) {
		p.synchronize()
		return nil
	}

	handlers := map[string]*ast.EventHandler{}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.IDENT) {
			p.error("expected an event handler name, got %s", p.curToken.Type)
			p.synchronize()
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			continue
		}

		h := p.parseEventHandler()
		if h != nil {
			if _, dup := handlers[h.Name]; dup {
				p.error("duplicate event handler %q in state %q", h.Name, name)
			} else {
				handlers[h.Name] = h
			}
		}
		p.nextToken()
	}

	return &ast.StateBlock{Name: name, Handlers: handlers, Line: line}
}

func (p *Parser) parseEventHandler() *ast.EventHandler {
	line := p.curToken.Pos.Line
	name := p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParams()
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.EventHandler{Name: name, Params: params, Body: body.Statements, Line: line}
}
