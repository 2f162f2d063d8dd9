package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.error("no expression can start with %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Ident{Name: p.curToken.Literal, Line: p.curToken.Pos.Line}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	return &ast.IntLit{Value: p.curToken.Literal, Line: p.curToken.Pos.Line}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLit{Value: p.curToken.Literal, Line: p.curToken.Pos.Line}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLit{Value: p.curToken.Literal, Line: p.curToken.Pos.Line}
}

// parseVectorOrRotationLiteral parses <a, b, c> or <a, b, c, d> from a
// prefix '<'. It is only ever invoked in expression (value) position; '<'
// encountered as an infix operator is dispatched to parseBinaryExpression
// instead, which is how the grammar tells a vector literal from a
// less-than comparison without any lexer-side lookahead. Each component is
// parsed above comparison precedence, so the closing '>' ends the literal
// instead of being read as a greater-than operator.
func (p *Parser) parseVectorOrRotationLiteral() ast.Expression {
	line := p.curToken.Pos.Line
	p.nextToken()

	elems := []ast.Expression{p.parseExpression(LESSGREATER)}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LESSGREATER))
	}

	if !p.expectPeek(token.GT) {
		return nil
	}

	switch len(elems) {
	case 3:
		return &ast.VectorLit{X: elems[0], Y: elems[1], Z: elems[2], Line: line}
	case 4:
		return &ast.RotationLit{X: elems[0], Y: elems[1], Z: elems[2], S: elems[3], Line: line}
	default:
		p.error("a <...> literal must have 3 or 4 components, got %d", len(elems))
		return nil
	}
}

func (p *Parser) parseListLiteral() ast.Expression {
	line := p.curToken.Pos.Line
	elems := []ast.Expression{}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ListLit{Elements: elems, Line: line}
	}

	p.nextToken()
	elems = append(elems, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ListLit{Elements: elems, Line: line}
}

// parseGroupedOrCastExpression handles a prefix '(': either a parenthesized
// sub-expression, or an explicit LSL cast like (integer)x. A type keyword
// immediately followed by ')' is unambiguous since LSL type names are never
// valid standalone expressions.
func (p *Parser) parseGroupedOrCastExpression() ast.Expression {
	line := p.curToken.Pos.Line
	p.nextToken()

	if token.IsTypeKeyword(p.curToken.Type) && p.peekTokenIs(token.RPAREN) {
		target := typeFromToken(p.curToken.Type)
		p.nextToken() // consume type keyword, curToken now ')'
		p.nextToken() // consume ')', move to operand
		operand := p.parseExpression(PREFIX)
		return &ast.CastExpr{Target: target, Operand: operand, Line: line}
	}

	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	op := p.curToken.Literal
	line := p.curToken.Pos.Line
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpr{Op: op, Operand: operand, Line: line}
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.UnaryExpr{Op: p.curToken.Literal, Operand: left, Postfix: true, Line: p.curToken.Pos.Line}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Literal
	line := p.curToken.Pos.Line
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Left: left, Op: op, Right: right, Line: line}
}

// parseCallExpression handles a call applied to a bare identifier; LSL has
// no member-call syntax so the callee must already be an *ast.Ident.
func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Ident)
	if !ok {
		p.error("expression is not callable")
		return nil
	}

	line := p.curToken.Pos.Line
	call := &ast.CallExpr{Name: ident.Name, Line: line}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}

	p.nextToken()
	call.Args = append(call.Args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		call.Args = append(call.Args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	line := p.curToken.Pos.Line
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpr{List: left, Index: idx, Line: line}
}
