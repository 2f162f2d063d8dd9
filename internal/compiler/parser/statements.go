package parser

import (
	"github.com/increasinglyHuman/poqpoq/internal/compiler/ast"
	"github.com/increasinglyHuman/poqpoq/internal/compiler/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case token.IsTypeKeyword(p.curToken.Type):
		return p.parseLocalVarDecl()
	case p.curTokenIs(token.IF):
		return p.parseIfStatement()
	case p.curTokenIs(token.WHILE):
		return p.parseWhileStatement()
	case p.curTokenIs(token.DO):
		return p.parseDoWhileStatement()
	case p.curTokenIs(token.FOR):
		return p.parseForStatement()
	case p.curTokenIs(token.RETURN):
		return p.parseReturnStatement()
	case p.curTokenIs(token.STATE):
		return p.parseStateChangeStatement()
	case p.curTokenIs(token.JUMP):
		return p.parseJumpStatement()
	case p.curTokenIs(token.AT):
		return p.parseLabelStatement()
	case p.curTokenIs(token.LBRACE):
		return p.parseBlockStatement()
	default:
		return p.parseExprOrAssignStatement()
	}
}

// parseBlockStatement expects curToken to already be '{'. It leaves
// curToken on the closing '}' without consuming it.
func (p *Parser) parseBlockStatement() *ast.BlockStmt {
	block := &ast.BlockStmt{Line: p.curToken.Pos.Line}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

// parseSingleAsBlock wraps a single un-braced statement (as LSL allows for
// loop/if bodies) into a *ast.BlockStmt so the rest of the pipeline always
// sees a block.
func (p *Parser) parseSingleAsBlock() *ast.BlockStmt {
	p.nextToken()
	line := p.curToken.Pos.Line
	block := &ast.BlockStmt{Line: line}
	if stmt := p.parseStatement(); stmt != nil {
		block.Statements = append(block.Statements, stmt)
	}
	return block
}

func (p *Parser) parseBody() *ast.BlockStmt {
	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		return p.parseBlockStatement()
	}
	return p.parseSingleAsBlock()
}

func (p *Parser) parseLocalVarDecl() ast.Statement {
	t := typeFromToken(p.curToken.Type)
	line := p.curToken.Pos.Line

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	var value ast.Expression
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.VarDecl{Type: t, Name: name, Value: value, Line: line}
}

func (p *Parser) parseIfStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	cons := p.parseBody()

	var alt *ast.BlockStmt
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		switch {
		case p.peekTokenIs(token.IF):
			p.nextToken()
			line := p.curToken.Pos.Line
			nested := p.parseIfStatement()
			stmts := []ast.Statement{}
			if nested != nil {
				stmts = append(stmts, nested)
			}
			alt = &ast.BlockStmt{Statements: stmts, Line: line}
		case p.peekTokenIs(token.LBRACE):
			p.nextToken()
			alt = p.parseBlockStatement()
		default:
			alt = p.parseSingleAsBlock()
		}
	}

	return &ast.IfStmt{Condition: cond, Consequence: cons, Alternative: alt, Line: line}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	body := p.parseBody()
	return &ast.WhileStmt{Condition: cond, Body: body, Line: line}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	line := p.curToken.Pos.Line
	body := p.parseBody()

	if !p.expectPeek(token.WHILE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.DoWhileStmt{Body: body, Condition: cond, Line: line}
}

// parseForClause parses one for-loop clause (init or post): a typed local
// declaration, or an assignment/bare expression. It does not consume a
// trailing semicolon; the caller owns clause separators.
func (p *Parser) parseForClause() ast.Statement {
	if token.IsTypeKeyword(p.curToken.Type) {
		t := typeFromToken(p.curToken.Type)
		line := p.curToken.Pos.Line
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := p.curToken.Literal
		var value ast.Expression
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			value = p.parseExpression(LOWEST)
		}
		return &ast.VarDecl{Type: t, Name: name, Value: value, Line: line}
	}
	return p.parseSimpleStatementExpr()
}

func (p *Parser) parseSimpleStatementExpr() ast.Statement {
	line := p.curToken.Pos.Line
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if op, ok := assignOpFor(p.peekToken.Type); ok {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.AssignStmt{Target: expr, Op: op, Value: value, Line: line}
	}
	return &ast.ExprStmt{Expr: expr, Line: line}
}

func (p *Parser) parseForStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	var init ast.Statement
	if !p.curTokenIs(token.SEMICOLON) {
		init = p.parseForClause()
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	var cond ast.Expression
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		cond = p.parseExpression(LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	var post ast.Statement
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		post = p.parseForClause()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	body := p.parseBody()
	return &ast.ForStmt{Init: init, Condition: cond, Post: post, Body: body, Line: line}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return &ast.ReturnStmt{Line: line}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.ReturnStmt{Value: value, Line: line}
}

// parseStateChangeStatement parses "state X;" or "state default;" inside a
// function or event handler body.
func (p *Parser) parseStateChangeStatement() ast.Statement {
	line := p.curToken.Pos.Line
	p.nextToken()

	var target string
	switch {
	case p.curTokenIs(token.DEFAULT):
		target = "default"
	case p.curTokenIs(token.IDENT):
		target = p.curToken.Literal
	default:
		p.error("expected a state name, got %s", p.curToken.Type)
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.StateChangeStmt{Target: target, Line: line}
}

func (p *Parser) parseJumpStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	label := p.curToken.Literal
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.JumpStmt{Label: label, Line: line}
}

func (p *Parser) parseLabelStatement() ast.Statement {
	line := p.curToken.Pos.Line
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.LabelStmt{Name: name, Line: line}
}

func (p *Parser) parseExprOrAssignStatement() ast.Statement {
	stmt := p.parseSimpleStatementExpr()
	if stmt == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}
