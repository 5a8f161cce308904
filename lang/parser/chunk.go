package parser

import (
	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/token"
)

// parseFile parses the File production: { FunctionDef }.
func (p *parser) parseFile() ast.Handle {
	root := p.arena.New(ast.TranslationUnit, 0)
	var body []ast.Handle
	for p.cur().Kind != token.EOF {
		body = append(body, p.parseFunctionDef())
	}
	p.arena.Get(root).Body = body
	return root
}

// parseFunctionDef parses:
//
//	FunctionDef := [ "pub" ] "fn" IDENT "(" [ IDENT { "," IDENT } ] ")" Block
func (p *parser) parseFunctionDef() ast.Handle {
	pos := p.pos()
	public := p.stream.Consume(token.KW_PUB)
	p.expect(token.KW_FN)
	name := p.expectIdent()

	fn := p.arena.New(ast.FuncDef, pos)
	p.expect(token.LPAREN)
	var params []ast.Handle
	if p.cur().Kind != token.RPAREN {
		params = append(params, p.parseParam())
		for p.stream.Consume(token.COMMA) {
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()

	n := p.arena.Get(fn)
	n.Name = name
	n.Public = public
	n.Params = params
	n.Body = []ast.Handle{body}
	return fn
}

func (p *parser) parseParam() ast.Handle {
	pos := p.pos()
	name := p.expectIdent()
	h := p.arena.New(ast.Ident, pos)
	n := p.arena.Get(h)
	n.Name = name
	n.Mutable = true
	return h
}

// parseBlock parses: Block := "{" { Stmt } "}"
func (p *parser) parseBlock() ast.Handle {
	pos := p.pos()
	p.expect(token.LBRACE)
	h := p.arena.New(ast.Block, pos)
	var stmts []ast.Handle
	for p.cur().Kind != token.RBRACE {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.RBRACE)
	p.arena.Get(h).Body = stmts
	return h
}
