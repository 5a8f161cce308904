package parser

import (
	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/token"
)

// parseStmt parses a single Stmt production (spec.md §4.2).
func (p *parser) parseStmt() ast.Handle {
	switch p.cur().Kind {
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_LET:
		return p.parseLetStmt()
	case token.KW_IMPORT:
		return p.parseImportStmt()
	case token.LBRACE:
		return p.parseBlock()
	}

	// IDENT "=" Expr ";" is an assignment, detected with 2-token lookahead;
	// anything else starting with IDENT (or any other expression-starting
	// token) is an expression statement.
	if p.cur().Kind == token.IDENT && p.stream.PeekKind(token.ASSIGN, 1) {
		return p.parseAssignStmt()
	}
	return p.parseExprStmt()
}

func (p *parser) parseReturnStmt() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_RETURN)
	h := p.arena.New(ast.ReturnStmt, pos)
	expr := p.parseExpr()
	p.expect(token.SEMI)
	p.arena.Get(h).LHS = expr
	return h
}

// parseIfStmt parses: "if" Expr Block [ "else" ( IfStmt | Block ) ]
func (p *parser) parseIfStmt() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_IF)
	h := p.arena.New(ast.IfStmt, pos)
	cond := p.parseExpr()
	then := p.parseBlock()

	elseH := ast.NoNode
	if p.stream.Consume(token.KW_ELSE) {
		if p.cur().Kind == token.KW_IF {
			elseH = p.parseIfStmt()
		} else {
			elseH = p.parseBlock()
		}
	}

	n := p.arena.Get(h)
	n.Cond, n.Then, n.Else = cond, then, elseH
	return h
}

func (p *parser) parseWhileStmt() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_WHILE)
	h := p.arena.New(ast.WhileStmt, pos)
	cond := p.parseExpr()
	body := p.parseBlock()
	n := p.arena.Get(h)
	n.Cond, n.Then = cond, body
	return h
}

// parseLetStmt parses: "let" [ "mut" ] IDENT ";"
func (p *parser) parseLetStmt() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_LET)
	mutable := p.stream.Consume(token.KW_MUT)
	name := p.expectIdent()
	p.expect(token.SEMI)

	h := p.arena.New(ast.LetStmt, pos)
	n := p.arena.Get(h)
	n.Name = name
	n.Mutable = mutable
	return h
}

// parseImportStmt parses: "import" IDENT ";"
func (p *parser) parseImportStmt() ast.Handle {
	pos := p.pos()
	p.expect(token.KW_IMPORT)
	name := p.expectIdent()
	p.expect(token.SEMI)

	h := p.arena.New(ast.ImportStmt, pos)
	p.arena.Get(h).Name = name
	return h
}

// parseAssignStmt parses: IDENT "=" Expr ";"
func (p *parser) parseAssignStmt() ast.Handle {
	pos := p.pos()
	name := p.expectIdent()
	lhs := p.arena.New(ast.Ident, pos)
	p.arena.Get(lhs).Name = name

	p.expect(token.ASSIGN)
	rhs := p.parseExpr()
	p.expect(token.SEMI)

	h := p.arena.New(ast.AssignStmt, pos)
	n := p.arena.Get(h)
	n.LHS, n.RHS = lhs, rhs
	return h
}

func (p *parser) parseExprStmt() ast.Handle {
	pos := p.pos()
	expr := p.parseExpr()
	p.expect(token.SEMI)
	h := p.arena.New(ast.ExprStmt, pos)
	p.arena.Get(h).LHS = expr
	return h
}
